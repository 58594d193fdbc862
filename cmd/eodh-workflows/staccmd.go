package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/eo-datahub/eodh-workflows/internal/workflow"
)

func newStacCommand() *cli.Command {
	return &cli.Command{
		Name:  "stac",
		Usage: "Local STAC catalogue manipulation",
		Commands: []*cli.Command{
			{
				Name:  "clip",
				Usage: "Clip rasters of a local catalogue to the AOI",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input_stac",
						Usage:    "Path to the local STAC folder",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "area",
						Usage:    "Area of interest as GeoJSON in EPSG:4326",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "output_dir",
						Usage: "Path to the output directory",
					},
				},
				Action: stacClipAction,
			},
			{
				Name:  "join",
				Usage: "Join two local catalogues into one",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "stac_catalog_dir_1",
						Usage:    "Path to the first STAC catalog directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "stac_catalog_dir_2",
						Usage:    "Path to the second STAC catalog directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "output_dir",
						Usage: "Path to the output directory",
					},
				},
				Action: stacJoinAction,
			},
		},
	}
}

func stacClipAction(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	return workflow.ClipCatalog(ctx, workflowDeps(), workflow.ClipCatalogParams{
		InputDir:  cmd.String("input_stac"),
		Area:      cmd.String("area"),
		OutputDir: outputDirOrDefault(cmd, settings),
	})
}

func stacJoinAction(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	return workflow.JoinCatalogs(workflowDeps(), workflow.JoinCatalogsParams{
		CatalogDir1: cmd.String("stac_catalog_dir_1"),
		CatalogDir2: cmd.String("stac_catalog_dir_2"),
		OutputDir:   outputDirOrDefault(cmd, settings),
	})
}
