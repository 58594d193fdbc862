package ades

import "time"

// JobStatus is an OGC API - Processes job status code.
type JobStatus string

// Job status values defined by OGC API - Processes.
const (
	StatusAccepted   JobStatus = "accepted"
	StatusRunning    JobStatus = "running"
	StatusSuccessful JobStatus = "successful"
	StatusFailed     JobStatus = "failed"
	StatusDismissed  JobStatus = "dismissed"
)

// Terminal reports whether a job in this status will not change again.
func (s JobStatus) Terminal() bool {
	switch s {
	case StatusSuccessful, StatusFailed, StatusDismissed:
		return true
	default:
		return false
	}
}

// Link is an OGC API link object.
type Link struct {
	Href  string `json:"href"`
	Rel   string `json:"rel,omitempty"`
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
}

// ProcessSummary is a deployed process as returned by GET /processes.
type ProcessSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Version     string   `json:"version,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Links       []Link   `json:"links,omitempty"`
}

// Process is the full process description from GET /processes/{id}.
type Process struct {
	ProcessSummary
	Inputs  map[string]any `json:"inputs,omitempty"`
	Outputs map[string]any `json:"outputs,omitempty"`
}

type processList struct {
	Processes []ProcessSummary `json:"processes"`
	Links     []Link           `json:"links,omitempty"`
}

// Job describes an execution on the service.
type Job struct {
	JobID     string     `json:"jobID"`
	ProcessID string     `json:"processID,omitempty"`
	Type      string     `json:"type,omitempty"`
	Status    JobStatus  `json:"status"`
	Message   string     `json:"message,omitempty"`
	Progress  int        `json:"progress,omitempty"`
	Created   *time.Time `json:"created,omitempty"`
	Started   *time.Time `json:"started,omitempty"`
	Finished  *time.Time `json:"finished,omitempty"`
	Updated   *time.Time `json:"updated,omitempty"`
	Links     []Link     `json:"links,omitempty"`
}

type jobList struct {
	Jobs  []Job  `json:"jobs"`
	Links []Link `json:"links,omitempty"`
}

// ExecuteRequest is the POST /processes/{id}/execution payload.
type ExecuteRequest struct {
	Inputs   map[string]any `json:"inputs"`
	Outputs  map[string]any `json:"outputs,omitempty"`
	Response string         `json:"response,omitempty"`
}

// Results holds the outputs of a successful job. Values are either inline
// JSON or objects with an href, depending on the output transmission mode.
type Results map[string]any
