package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/eo-datahub/eodh-workflows/internal/config"
	"github.com/eo-datahub/eodh-workflows/internal/lulc"
	"github.com/eo-datahub/eodh-workflows/internal/workflow"
	"github.com/eo-datahub/eodh-workflows/pkg/auth"
	"github.com/eo-datahub/eodh-workflows/pkg/client"
)

// workflowDeps builds dependencies for pipelines that only touch local
// files.
func workflowDeps() workflow.Deps {
	return workflow.Deps{Logger: slog.Default()}
}

// catalogDeps builds workflow dependencies against the resource
// catalogue configured in settings.
func catalogDeps(settings *config.Settings) (workflow.Deps, error) {
	opts := []client.ClientOption{
		client.WithLogger(slog.Default()),
		client.WithTimeout(60 * time.Second),
	}
	if settings.ADES.Token != "" {
		opts = append(opts, client.WithMiddleware(client.BearerMiddleware(settings.ADES.Token)))
	}

	catalog, err := client.NewClient(settings.STACURL, opts...)
	if err != nil {
		return workflow.Deps{}, err
	}
	return workflow.Deps{Catalog: catalog, Logger: slog.Default()}, nil
}

// lulcDeps builds workflow dependencies for a land cover source: the
// source's own catalogue plus, for Sentinel-Hub backed sources, an
// authenticated Process API client.
func lulcDeps(settings *config.Settings, source lulc.DataSource) (workflow.Deps, error) {
	deps := workflow.Deps{Logger: slog.Default()}

	var httpClient *http.Client
	if source.SentinelHub() {
		if err := settings.RequireSentinelHub(); err != nil {
			return workflow.Deps{}, err
		}
		tokens := auth.ClientCredentialsSource(
			settings.SentinelHub.ClientID,
			settings.SentinelHub.ClientSecret,
			settings.SentinelHub.TokenURL,
		)
		httpClient = &http.Client{
			Transport: &auth.TokenSourceTransport{Source: tokens},
			Timeout:   60 * time.Second,
		}
	}

	opts := []client.ClientOption{client.WithLogger(slog.Default())}
	if httpClient != nil {
		opts = append(opts, client.WithHTTPClient(httpClient))
	} else {
		opts = append(opts, client.WithTimeout(60*time.Second))
	}

	catalog, err := client.NewClient(source.Catalog, opts...)
	if err != nil {
		return workflow.Deps{}, err
	}
	deps.Catalog = catalog

	if source.SentinelHub() {
		process, err := lulc.NewProcessClient(lulc.SentinelHubProcessEndpoint, opts...)
		if err != nil {
			return workflow.Deps{}, err
		}
		deps.Process = process
	}
	return deps, nil
}
