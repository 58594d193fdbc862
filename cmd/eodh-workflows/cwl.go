package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/eo-datahub/eodh-workflows/internal/cwl"
)

var pipelineTemplates = map[string]func(cwl.TemplateParams) *cwl.Document{
	"raster-calculate":  cwl.RasterCalculate,
	"water-quality":     cwl.WaterQuality,
	"land-cover-change": cwl.LULCChange,
}

func newCWLCommand() *cli.Command {
	return &cli.Command{
		Name:  "cwl",
		Usage: "Render pipeline CWL documents",
		Commands: []*cli.Command{
			{
				Name:      "render",
				Usage:     "Render a pipeline document to stdout",
				ArgsUsage: "<raster-calculate|water-quality|land-cover-change>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "image",
						Usage:    "Container image holding this binary",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "ram",
						Usage: "Minimum RAM per step in MiB",
						Value: 1024,
					},
					&cli.IntFlag{
						Name:  "cores",
						Usage: "Minimum CPU cores per step",
						Value: 1,
					},
				},
				Action: cwlRenderAction,
			},
		},
	}
}

func cwlRenderAction(ctx context.Context, cmd *cli.Command) error {
	name, err := singleArg(cmd, "pipeline name")
	if err != nil {
		return err
	}
	template, ok := pipelineTemplates[name]
	if !ok {
		return fmt.Errorf("unknown pipeline %q", name)
	}

	doc := template(cwl.TemplateParams{
		Image:    cmd.String("image"),
		RAMMin:   int(cmd.Int("ram")),
		CoresMin: int(cmd.Int("cores")),
	})
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
