package lulc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eo-datahub/eodh-workflows/pkg/client"
)

const evalscriptCorine = `
    function setup() {
        return {
            input: ["CLC"],
            output: {
                bands: 1,
                sampleType: "UINT16"
            }
        };
    }

    function evaluatePixel(sample) {
        return [sample.CLC];
    }
`

const evalscriptWaterBodies = `
    function setup() {
        return {
            input: ["WB"],
            output: {
                bands: 1,
                sampleType: "UINT8"
            }
        };
    }

    function evaluatePixel(sample) {
        return [sample.WB];
    }
`

var evalscripts = map[string]string{
	SourceCorineLC:    evalscriptCorine,
	SourceWaterBodies: evalscriptWaterBodies,
}

// ProcessClient renders classified rasters through the Sentinel-Hub
// Process API for collections that expose no downloadable assets.
type ProcessClient struct {
	api *client.Client
}

// NewProcessClient builds a ProcessClient against the given Process API
// endpoint. The caller supplies authentication as client middleware or
// through an authenticating http.Client.
func NewProcessClient(endpoint string, opts ...client.ClientOption) (*ProcessClient, error) {
	api, err := client.NewClient(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return &ProcessClient{api: api}, nil
}

// FetchCoverage renders the source collection over bbox at the given
// acquisition time and returns the resulting GeoTIFF bytes.
func (p *ProcessClient) FetchCoverage(ctx context.Context, source DataSource, bbox [4]float64, acquired time.Time) ([]byte, error) {
	evalscript, ok := evalscripts[source.Name]
	if !ok {
		return nil, fmt.Errorf("no evalscript for source %q", source.Name)
	}

	payload := map[string]any{
		"input": map[string]any{
			"bounds": map[string]any{
				"bbox":       bbox[:],
				"properties": map[string]any{"crs": "http://www.opengis.net/def/crs/EPSG/0/4326"},
			},
			"data": []map[string]any{{
				"type": source.Collection,
				"dataFilter": map[string]any{
					"timeRange": map[string]any{
						"from": acquired.Format(time.RFC3339),
						"to":   acquired.Format(time.RFC3339),
					},
				},
			}},
		},
		"evalscript": evalscript,
		"output": map[string]any{
			"responses": []map[string]any{{
				"identifier": "default",
				"format": map[string]any{
					"type":       "image/tiff",
					"parameters": map[string]any{"compression": "LZW", "cog": true},
				},
			}},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding process request: %w", err)
	}

	headers := make(http.Header)
	headers.Set("Accept", "image/tiff")
	resp, err := p.api.Do(ctx, client.RequestSpec{
		Method:      http.MethodPost,
		URL:         p.api.Resolve(""),
		ContentType: "application/json",
		Body:        body,
		Headers:     headers,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering %s coverage: %w", source.Name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading coverage response: %w", err)
	}
	return data, nil
}
