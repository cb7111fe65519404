package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"index-listing/internal/browse"
	"index-listing/internal/metrics"
)

type Options struct {
	Title string
	// StatsTimeout bounds each stats request. Zero means no deadline.
	StatsTimeout time.Duration
	// MetricsPath mounts the prometheus handler. Empty disables both the
	// endpoint and metric collection.
	MetricsPath string
}

type Server struct {
	engine       *gin.Engine
	root         browse.Root
	stats        *browse.StatsInvoker
	title        string
	statsTimeout time.Duration
}

func New(root browse.Root, stats *browse.StatsInvoker, opts Options) (*Server, error) {
	pageTemplate, err := newIndexTemplate()
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())
	engine.SetHTMLTemplate(pageTemplate)

	srv := &Server{
		engine:       engine,
		root:         root,
		stats:        stats,
		title:        opts.Title,
		statsTimeout: opts.StatsTimeout,
	}

	if opts.MetricsPath != "" {
		metrics.Register()
		engine.GET(opts.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	engine.GET("/", srv.handleIndex)
	engine.NoRoute(srv.serveStaticFile)

	return srv, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}
