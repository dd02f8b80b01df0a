package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/microlens-data/ulens/internal/api"
	"github.com/microlens-data/ulens/internal/catalog"
	"github.com/microlens-data/ulens/internal/config"
	"github.com/microlens-data/ulens/internal/ephem"
	"github.com/microlens-data/ulens/internal/frames"
	"github.com/microlens-data/ulens/internal/monitoring"
	"github.com/microlens-data/ulens/internal/version"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion HTTP API",
		Run:   runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (overrides ULENS_ADDR)")
	cmd.Flags().String("db", "", "Catalog database path (overrides ULENS_DB)")
	cmd.Flags().String("config", "", "Path to a JSON config file")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := config.FromEnv()
	if err != nil {
		exitErr("load configuration", err)
	}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		f, err := config.LoadFile(path)
		if err != nil {
			exitErr("load configuration", err)
		}
		cfg = f.Apply(cfg)
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.DBPath = db
	}
	if cfg.Verbose {
		monitoring.SetVerbose(true)
	}

	src, err := ephemSource(cfg.Ephemeris)
	if err != nil {
		exitErr("configure ephemeris", err)
	}

	cat, err := catalog.Open(cfg.DBPath)
	if err != nil {
		exitErr("open catalog", err)
	}
	defer cat.Close()
	if err := cat.MigrateUp(); err != nil {
		exitErr("migrate catalog", err)
	}

	s := api.NewServer(frames.NewProjector(src), cat)
	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: s.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in a goroutine so it doesn't block
	go func() {
		log.Printf("ulens %s listening on %s", version.Version, cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for context cancellation to shut down server
	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
}

// ephemSource resolves a configured ephemeris source name.
func ephemSource(name string) (ephem.Source, error) {
	switch name {
	case "", "meeus":
		return ephem.Meeus{}, nil
	default:
		return nil, fmt.Errorf("unknown ephemeris source %q", name)
	}
}
