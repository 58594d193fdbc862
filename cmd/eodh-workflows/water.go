package main

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/eo-datahub/eodh-workflows/internal/workflow"
)

func newWaterCommand() *cli.Command {
	return &cli.Command{
		Name:  "water",
		Usage: "Water analysis",
		Commands: []*cli.Command{
			{
				Name:  "quality",
				Usage: "Calculate water quality indices over the AOI",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "stac_collection",
						Usage:    "The STAC collection to use",
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
						Name:  "date_end",
						Usage: "End date in ISO 8601 used to search input data",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Max number of items to process",
						Value: 50,
					},
					&cli.StringFlag{
						Name:  "clip",
						Usage: "Crop the data to the AOI: True or False",
						Value: "False",
					},
					&cli.StringFlag{
						Name:  "output_dir",
						Usage: "Path to the output directory",
					},
				},
				Action: waterQualityAction,
			},
		},
	}
}

func waterQualityAction(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	deps, err := catalogDeps(settings)
	if err != nil {
		return err
	}

	return workflow.WaterQuality(ctx, deps, workflow.WaterQualityParams{
		Collection: cmd.String("stac_collection"),
		AOI:        cmd.String("aoi"),
		DateStart:  cmd.String("date_start"),
		DateEnd:    cmd.String("date_end"),
		Limit:      int(cmd.Int("limit")),
		Clip:       strings.EqualFold(cmd.String("clip"), "true"),
		OutputDir:  outputDirOrDefault(cmd, settings),
	})
}
