package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"index-listing/internal/browse"
	"index-listing/internal/config"
	"index-listing/internal/server"
)

type globalFlags struct {
	configPath string
	root       string
	listenAddr string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:          "indexlisting",
		Short:        "Browse a directory tree over HTTP",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(flags)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "config.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flags.root, "root", "", "directory to expose (overrides config and env)")
	rootCmd.PersistentFlags().StringVar(&flags.listenAddr, "listen", "", "listen address (overrides config and env)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(flags)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "stats [dir]",
		Short: "Run the stats tool on a directory under the root and print its output",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			relative := ""
			if len(args) == 1 {
				relative = args[0]
			}
			return runStats(cmd, flags, relative)
		},
	})

	return rootCmd
}

func loadConfig(flags *globalFlags) (*config.Config, browse.Root, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, browse.Root{}, fmt.Errorf("load config: %w", err)
	}
	if flags.root != "" {
		cfg.Root = flags.root
	}
	if flags.listenAddr != "" {
		cfg.ListenAddr = flags.listenAddr
	}

	root, err := browse.NewRoot(cfg.Root)
	if err != nil {
		return nil, browse.Root{}, err
	}

	return cfg, root, nil
}

func runServe(flags *globalFlags) error {
	cfg, root, err := loadConfig(flags)
	if err != nil {
		return err
	}

	opts := server.Options{
		Title:        cfg.Title,
		StatsTimeout: cfg.Stats.Timeout,
	}
	if cfg.Metrics.IsEnabled() {
		opts.MetricsPath = cfg.Metrics.Path
	}

	srv, err := server.New(root, browse.NewStatsInvoker(cfg.Stats.Command, nil), opts)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("serving %s on %s", root.Path(), cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-done:
	}

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

func runStats(cmd *cobra.Command, flags *globalFlags, relative string) error {
	cfg, root, err := loadConfig(flags)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Stats.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Stats.Timeout)
		defer cancel()
	}

	result := browse.NewStatsInvoker(cfg.Stats.Command, nil).Invoke(ctx, root, relative)
	if result.Status != browse.StatsOK {
		if result.Cause != nil && result.Status == browse.StatsUnavailable {
			log.Printf("stats error: %v", result.Cause)
		}
		return errors.New(result.Message)
	}

	fmt.Fprint(cmd.OutOrStdout(), result.Output)
	return nil
}
