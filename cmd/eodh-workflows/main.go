package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/eo-datahub/eodh-workflows/internal/config"
	"github.com/eo-datahub/eodh-workflows/pkg/raster"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	raster.Register()

	cmd := &cli.Command{
		Name:  "eodh-workflows",
		Usage: "Earth observation processing workflows",
		Commands: []*cli.Command{
			newRasterCommand(),
			newWaterCommand(),
			newLULCCommand(),
			newStacCommand(),
			newAdesCommand(),
			newCWLCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadSettings() (*config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return settings, nil
}

// outputDirOrDefault resolves the output directory flag against the
// configured default.
func outputDirOrDefault(cmd *cli.Command, settings *config.Settings) string {
	if dir := cmd.String("output_dir"); dir != "" {
		return dir
	}
	return settings.OutputDir
}
