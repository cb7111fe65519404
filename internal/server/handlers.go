package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"index-listing/internal/browse"
	"index-listing/internal/metrics"
)

type statsResponse struct {
	Output       string `json:"output,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// handleIndex serves the listing page. With ?cloc it answers the stats
// request as JSON instead.
func (s *Server) handleIndex(c *gin.Context) {
	relative := c.Query("dir")
	if _, ok := c.GetQuery("cloc"); ok {
		s.handleStats(c, relative)
		return
	}

	_, dirStat := c.GetQuery("dir_stat")
	urlPath := c.Request.URL.Path
	data := indexPageData{
		Title:        s.title,
		RootHref:     urlPath,
		StatsCommand: s.stats.Command(),
		DirStat:      dirStat,
		StatsURL:     urlPath + "?cloc&dir=" + url.QueryEscape(relative),
		DirStatHref:  urlPath + "?dir=" + url.QueryEscape(relative) + "&dir_stat",
	}

	view, err := browse.Build(s.root, relative)
	if err != nil {
		if !errors.Is(err, browse.ErrInvalidDirectory) {
			s.respondError(c, err)
			return
		}

		metrics.ObserveListing("invalid_path")
		data.Error = err.Error()
		c.HTML(http.StatusOK, "index", data)
		return
	}

	metrics.ObserveListing("ok")
	data.Breadcrumbs = buildBreadcrumbViews(view.Breadcrumbs)
	data.Directories = buildDirectoryViews(view)
	data.Files = buildFileViews(view)
	data.DirectoryCount = view.Listing.DirectoryCount()
	data.FileCount = view.Listing.FileCount()

	c.HTML(http.StatusOK, "index", data)
}

// handleStats keeps the original envelope: a rejected path is a 200 with an
// error_message, a tool that produced nothing is a 500.
func (s *Server) handleStats(c *gin.Context, relative string) {
	ctx := c.Request.Context()
	if s.statsTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.statsTimeout)
		defer cancel()
	}

	start := time.Now()
	result := s.stats.Invoke(ctx, s.root, relative)
	metrics.ObserveStats(result.Status.String(), result.Status != browse.StatsInvalidPath, time.Since(start))

	switch result.Status {
	case browse.StatsOK:
		c.JSON(http.StatusOK, statsResponse{Output: result.Output})
	case browse.StatsInvalidPath:
		c.JSON(http.StatusOK, statsResponse{ErrorMessage: result.Message})
	default:
		log.Printf("stats error: %v", result.Cause)
		c.JSON(http.StatusInternalServerError, statsResponse{ErrorMessage: result.Message})
	}
}

func (s *Server) serveStaticFile(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.AbortWithStatus(http.StatusMethodNotAllowed)
		return
	}

	absolutePath, err := browse.ResolveFile(s.root, c.Request.URL.Path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) && !errors.Is(err, browse.ErrInvalidDirectory) {
			log.Printf("static file %q: %v", c.Request.URL.Path, err)
		}

		s.respondError(c, errFileNotFound)
		return
	}

	c.File(absolutePath)
}

func buildBreadcrumbViews(crumbs []browse.BreadcrumbSegment) []linkView {
	views := make([]linkView, 0, len(crumbs))
	for _, crumb := range crumbs {
		view := linkView{Name: crumb.Name}
		if crumb.Linked {
			view.Href = "?dir=" + url.QueryEscape(crumb.Path)
		}

		views = append(views, view)
	}

	return views
}

func buildDirectoryViews(view browse.View) []linkView {
	views := make([]linkView, 0, len(view.Listing.Directories))
	for _, name := range view.Listing.Directories {
		views = append(views, linkView{
			Name: name,
			Href: "?dir=" + url.QueryEscape(joinRelative(view.Relative, name)),
		})
	}

	return views
}

func buildFileViews(view browse.View) []linkView {
	views := make([]linkView, 0, len(view.Listing.Files))
	for _, name := range view.Listing.Files {
		views = append(views, linkView{
			Name: name,
			Href: buildFileHref(joinRelative(view.Relative, name)),
		})
	}

	return views
}

func joinRelative(relative, name string) string {
	if relative == "" {
		return name
	}

	return relative + "/" + name
}

func buildFileHref(relative string) string {
	clean := strings.TrimPrefix(relative, "/")
	if clean == "" {
		return "/"
	}

	parts := strings.Split(clean, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}

	return "/" + strings.Join(parts, "/")
}

// respondError writes err as plain text. Only *httpError values choose their
// own status; anything else is logged and reported as a 500.
func (s *Server) respondError(c *gin.Context, err error) {
	var httpErr *httpError
	if errors.As(err, &httpErr) {
		if httpErr.Status >= http.StatusInternalServerError {
			log.Printf("server error: %v", err)
		}

		c.String(httpErr.Status, httpErr.Message)
		return
	}

	log.Printf("unexpected error: %v", err)
	c.String(http.StatusInternalServerError, "internal server error")
}
