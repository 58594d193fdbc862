package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/eo-datahub/eodh-workflows/internal/config"
	"github.com/eo-datahub/eodh-workflows/pkg/ades"
)

func main() {
	cmd := &cli.Command{
		Name:  "jobs-tui",
		Usage: "Monitor execution service jobs",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Job list refresh interval",
				Value:   10 * time.Second,
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}
	if err := settings.RequireADES(); err != nil {
		return err
	}
	client, err := ades.NewClient(settings.ADES.URL, settings.ADES.Token)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tui := NewTUI(ctx, client, cmd.Duration("interval"))
	go func() {
		<-ctx.Done()
		tui.Stop()
	}()

	return tui.Run()
}
