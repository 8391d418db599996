package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spatialbench/spatialbench-go/internal/api"
	"github.com/spatialbench/spatialbench-go/internal/results"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve benchmark results over HTTP",
		Long:  "Serve the results directory and run archive as a small JSON API with a rendered markdown summary.",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().Int("port", 0, "Server port (defaults to config)")
	cmd.Flags().String("results-dir", "", "Directory containing *_results.json files")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	if dir, _ := cmd.Flags().GetString("results-dir"); dir != "" {
		cfg.Server.ResultsDir = dir
	}

	var archive *results.Store
	if cfg.MongoDB.URI != "" {
		archive, err = results.NewStore(cfg.MongoDB.URI, cfg.MongoDB.Database)
		if err != nil {
			return fmt.Errorf("connect to MongoDB: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			archive.Close(ctx)
		}()
		log.Printf("Connected to MongoDB: %s", cfg.MongoDB.Database)
	}

	server := api.NewServer(cfg, archive)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Serving results from %s on port %d", cfg.Server.ResultsDir, cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}
