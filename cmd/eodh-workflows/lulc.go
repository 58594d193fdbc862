package main

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/eo-datahub/eodh-workflows/internal/lulc"
	"github.com/eo-datahub/eodh-workflows/internal/workflow"
)

func newLULCCommand() *cli.Command {
	return &cli.Command{
		Name:  "lulc",
		Usage: "Land use and land cover analysis",
		Commands: []*cli.Command{
			{
				Name:  "change",
				Usage: "Summarise land cover classes over the AOI",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "source",
						Usage:    "Source dataset to use: " + strings.Join(lulc.SourceNames(), ", "),
						Required: true,
					},
					&cli.StringFlag{
						Name:     "aoi",
						Usage:    "Area of interest as GeoJSON in EPSG:4326",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "date_start",
						Usage:    "Start date in ISO 8601 used to search input data",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "date_end",
						Usage:    "End date in ISO 8601 used to search input data",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "output_dir",
						Usage: "Path to the output directory",
					},
				},
				Action: lulcChangeAction,
			},
		},
	}
}

func lulcChangeAction(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	source, err := lulc.SourceByName(cmd.String("source"))
	if err != nil {
		return err
	}
	deps, err := lulcDeps(settings, source)
	if err != nil {
		return err
	}

	return workflow.LULCChange(ctx, deps, workflow.LULCChangeParams{
		Source:    source.Name,
		AOI:       cmd.String("aoi"),
		DateStart: cmd.String("date_start"),
		DateEnd:   cmd.String("date_end"),
		OutputDir: outputDirOrDefault(cmd, settings),
	})
}
