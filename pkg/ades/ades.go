// Package ades is a client for the Application Deployment and Execution
// Service, the OGC API - Processes backend the workflows are deployed to.
// It covers the surface the platform notebooks exercise: deploy a CWL
// application package, list and inspect processes, execute asynchronously,
// poll job status, fetch results, and dismiss jobs.
package ades

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/eo-datahub/eodh-workflows/pkg/client"
)

// ContentTypeCWL is the media type for CWL application packages.
const ContentTypeCWL = "application/cwl+yaml"

// ErrNoLocation is returned when an async execution response carries no
// job URL in the Location header.
var ErrNoLocation = errors.New("ades: execution response missing Location header")

// Client talks to one ADES deployment, scoped to a user workspace.
type Client struct {
	http *client.Client
}

// NewClient builds an ADES client. The base URL is the workspace-scoped
// prefix, e.g. https://ades.example.com/<username>/ogc-api/. A bearer
// token, when provided, is attached to every request.
func NewClient(baseURL, token string, opts ...client.ClientOption) (*Client, error) {
	if token != "" {
		opts = append(opts, client.WithMiddleware(client.BearerMiddleware(token)))
	}
	httpClient, err := client.NewClient(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{http: httpClient}, nil
}

// DeployProcess registers a CWL application package. The service derives
// the process ID from the workflow identifier inside the package.
func (c *Client) DeployProcess(ctx context.Context, cwl []byte) error {
	return c.sendCWL(ctx, http.MethodPost, c.http.Resolve("processes"), cwl)
}

// UpdateProcess replaces the CWL package of a deployed process.
func (c *Client) UpdateProcess(ctx context.Context, processID string, cwl []byte) error {
	endpoint := c.http.Resolve("processes/" + url.PathEscape(processID))
	return c.sendCWL(ctx, http.MethodPut, endpoint, cwl)
}

func (c *Client) sendCWL(ctx context.Context, method, endpoint string, cwl []byte) error {
	resp, err := c.http.Do(ctx, client.RequestSpec{
		Method:      method,
		URL:         endpoint,
		ContentType: ContentTypeCWL,
		Body:        cwl,
	})
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// ListProcesses returns the processes deployed in the workspace.
func (c *Client) ListProcesses(ctx context.Context) ([]ProcessSummary, error) {
	var list processList
	if err := c.http.DoJSON(ctx, http.MethodGet, c.http.Resolve("processes"), nil, &list); err != nil {
		return nil, err
	}
	return list.Processes, nil
}

// GetProcess returns the full description of a deployed process.
func (c *Client) GetProcess(ctx context.Context, processID string) (*Process, error) {
	endpoint := c.http.Resolve("processes/" + url.PathEscape(processID))
	var process Process
	if err := c.http.DoJSON(ctx, http.MethodGet, endpoint, nil, &process); err != nil {
		return nil, err
	}
	return &process, nil
}

// Undeploy removes a deployed process.
func (c *Client) Undeploy(ctx context.Context, processID string) error {
	endpoint := c.http.Resolve("processes/" + url.PathEscape(processID))
	return c.http.DoJSON(ctx, http.MethodDelete, endpoint, nil, nil)
}

// Execute starts an asynchronous execution and returns the created job.
// The job ID is taken from the Location header per OGC API - Processes.
func (c *Client) Execute(ctx context.Context, processID string, req ExecuteRequest) (*Job, error) {
	endpoint := c.http.Resolve("processes/" + url.PathEscape(processID) + "/execution")
	payload, err := encodeJSON(req)
	if err != nil {
		return nil, err
	}

	headers := http.Header{}
	headers.Set("Prefer", "respond-async")

	resp, err := c.http.Do(ctx, client.RequestSpec{
		Method:  http.MethodPost,
		URL:     endpoint,
		Body:    payload,
		Headers: headers,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	location := resp.Header.Get("Location")
	if location == "" {
		return nil, ErrNoLocation
	}
	jobURL, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("ades: invalid job location %q: %w", location, err)
	}

	// Some deployments return the job body inline; prefer it when present.
	var job Job
	if decodeErr := decodeJSON(resp.Body, &job); decodeErr == nil && job.JobID != "" {
		return &job, nil
	}
	return c.getJobByURL(ctx, c.http.Resolve(jobURL.String()))
}

// ListJobs returns the jobs visible in the workspace.
func (c *Client) ListJobs(ctx context.Context) ([]Job, error) {
	var list jobList
	if err := c.http.DoJSON(ctx, http.MethodGet, c.http.Resolve("jobs"), nil, &list); err != nil {
		return nil, err
	}
	return list.Jobs, nil
}

// GetJob returns the current status of a job.
func (c *Client) GetJob(ctx context.Context, jobID string) (*Job, error) {
	return c.getJobByURL(ctx, c.http.Resolve("jobs/"+url.PathEscape(jobID)))
}

func (c *Client) getJobByURL(ctx context.Context, jobURL string) (*Job, error) {
	var job Job
	if err := c.http.DoJSON(ctx, http.MethodGet, jobURL, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// DismissJob cancels a running job or removes a finished one.
func (c *Client) DismissJob(ctx context.Context, jobID string) error {
	endpoint := c.http.Resolve("jobs/" + url.PathEscape(jobID))
	return c.http.DoJSON(ctx, http.MethodDelete, endpoint, nil, nil)
}

// JobResults fetches the outputs of a successful job.
func (c *Client) JobResults(ctx context.Context, jobID string) (Results, error) {
	endpoint := c.http.Resolve("jobs/" + url.PathEscape(jobID) + "/results")
	var results Results
	if err := c.http.DoJSON(ctx, http.MethodGet, endpoint, nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// WaitForJob polls the job until it reaches a terminal status or the
// context is cancelled. The returned job carries the final status.
func (c *Client) WaitForJob(ctx context.Context, jobID string, interval time.Duration) (*Job, error) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		job, err := c.GetJob(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if job.Status.Terminal() {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-ticker.C:
		}
	}
}
