package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/spatialbench/spatialbench-go/internal/events"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the progress of a running benchmark",
		Long:  "Subscribe to the Redis event channel and print query results as a run produces them.",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}

	cmd.Flags().String("redis", "", "Redis address (defaults to config)")

	return cmd
}

// printHandler writes each query event as one console line.
type printHandler struct{}

func (printHandler) HandleQueryEvent(ctx context.Context, event events.QueryEvent) error {
	switch event.Status {
	case "success":
		seconds := 0.0
		if event.TimeSeconds != nil {
			seconds = *event.TimeSeconds
		}
		rows := int64(0)
		if event.RowCount != nil {
			rows = *event.RowCount
		}
		fmt.Printf("[%s] %s %s: %.2fs (%d rows, %d runs)\n",
			event.RunID, event.Engine, event.Query, seconds, rows, event.Attempts)
	default:
		fmt.Printf("[%s] %s %s: %s %s\n",
			event.RunID, event.Engine, event.Query, event.Status, event.ErrorMessage)
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("redis")
	if addr == "" {
		addr = cfg.Redis.Addr
	}
	if addr == "" {
		return fmt.Errorf("no redis address configured")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	subscriber := events.NewSubscriber(client)
	subscriber.AddHandler(printHandler{})
	return subscriber.Start(cmd.Context())
}
