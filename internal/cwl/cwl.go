// Package cwl models the Common Workflow Language documents deployed to
// the execution service. Only the subset used by the processing
// pipelines is represented: packed documents holding one Workflow and
// its CommandLineTools.
package cwl

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	Version              = "v1.0"
	ClassWorkflow        = "Workflow"
	ClassCommandLineTool = "CommandLineTool"
)

// Binding places an input on the generated command line.
type Binding struct {
	Prefix   string `yaml:"prefix,omitempty"`
	Position int    `yaml:"position,omitempty"`
}

// OutputBinding collects tool outputs by glob.
type OutputBinding struct {
	Glob string `yaml:"glob"`
}

// Parameter is an input or output of a tool or workflow.
type Parameter struct {
	ID            string         `yaml:"id"`
	Type          string         `yaml:"type"`
	Label         string         `yaml:"label,omitempty"`
	Doc           string         `yaml:"doc,omitempty"`
	Default       any            `yaml:"default,omitempty"`
	InputBinding  *Binding       `yaml:"inputBinding,omitempty"`
	OutputBinding *OutputBinding `yaml:"outputBinding,omitempty"`
	OutputSource  string         `yaml:"outputSource,omitempty"`
}

// Step wires workflow inputs into a tool run. Scatter names the input
// the step fans out over; it requires a ScatterFeatureRequirement entry
// on the workflow.
type Step struct {
	ID      string            `yaml:"id"`
	Run     string            `yaml:"run"`
	In      map[string]string `yaml:"in"`
	Out     []string          `yaml:"out"`
	Scatter string            `yaml:"scatter,omitempty"`
}

// Requirements carries the requirement map verbatim; the execution
// service interprets DockerRequirement, ResourceRequirement and
// NetworkAccess entries.
type Requirements map[string]map[string]any

// CommandLineTool is a single containerised CLI invocation.
type CommandLineTool struct {
	Class        string       `yaml:"class"`
	ID           string       `yaml:"id"`
	BaseCommand  []string     `yaml:"baseCommand"`
	Inputs       []Parameter  `yaml:"inputs"`
	Outputs      []Parameter  `yaml:"outputs"`
	Requirements Requirements `yaml:"requirements,omitempty"`
}

// Workflow chains tools and exposes the pipeline parameter surface.
type Workflow struct {
	Class        string       `yaml:"class"`
	ID           string       `yaml:"id"`
	Label        string       `yaml:"label,omitempty"`
	Doc          string       `yaml:"doc,omitempty"`
	Inputs       []Parameter  `yaml:"inputs"`
	Outputs      []Parameter  `yaml:"outputs"`
	Steps        []Step       `yaml:"steps"`
	Requirements Requirements `yaml:"requirements,omitempty"`
}

// Document is a packed CWL document: one workflow plus its tools under
// $graph.
type Document struct {
	CWLVersion string `yaml:"cwlVersion"`
	Graph      []any  `yaml:"$graph"`
}

// NewDocument packs a workflow and its tools.
func NewDocument(wf *Workflow, tools ...*CommandLineTool) *Document {
	graph := make([]any, 0, len(tools)+1)
	graph = append(graph, wf)
	for _, t := range tools {
		graph = append(graph, t)
	}
	return &Document{CWLVersion: Version, Graph: graph}
}

// Marshal renders the document as YAML, the content type the execution
// service expects on deployment.
func (d *Document) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("cwl: encoding document: %w", err)
	}
	return data, nil
}

// rawNode is the minimally typed form used when parsing documents whose
// graph entries must be inspected before their class is known.
type rawNode struct {
	Class string `yaml:"class"`
	ID    string `yaml:"id"`
}

// WorkflowID returns the id of the workflow node of a packed document.
// Deployment and update calls address processes by this id.
func WorkflowID(data []byte) (string, error) {
	var doc struct {
		CWLVersion string      `yaml:"cwlVersion"`
		Graph      []yaml.Node `yaml:"$graph"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("cwl: parsing document: %w", err)
	}
	if doc.CWLVersion == "" {
		return "", fmt.Errorf("cwl: document has no cwlVersion")
	}
	for _, node := range doc.Graph {
		var raw rawNode
		if err := node.Decode(&raw); err != nil {
			continue
		}
		if raw.Class == ClassWorkflow {
			return raw.ID, nil
		}
	}
	return "", fmt.Errorf("cwl: document has no workflow node")
}
