package cwl

// TemplateParams parameterise the generated pipeline documents.
type TemplateParams struct {
	// Image is the container image holding the eodh-workflows binary.
	Image string
	// RAMMin is the minimum RAM in mebibytes requested per step.
	RAMMin int
	// CoresMin is the minimum CPU cores requested per step.
	CoresMin int
}

func (p TemplateParams) requirements() Requirements {
	req := Requirements{
		"DockerRequirement": {"dockerPull": p.Image},
		"NetworkAccess":     {"networkAccess": true},
	}
	resources := map[string]any{}
	if p.RAMMin > 0 {
		resources["ramMin"] = p.RAMMin
	}
	if p.CoresMin > 0 {
		resources["coresMin"] = p.CoresMin
	}
	if len(resources) > 0 {
		req["ResourceRequirement"] = resources
	}
	return req
}

func stacDirOutput() Parameter {
	return Parameter{
		ID:            "results",
		Type:          "Directory",
		OutputBinding: &OutputBinding{Glob: "stac-output"},
	}
}

func stringInput(id, doc, prefix string) Parameter {
	return Parameter{
		ID:           id,
		Type:         "string",
		Doc:          doc,
		InputBinding: &Binding{Prefix: prefix},
	}
}

// RasterCalculate builds the spectral-index pipeline document.
func RasterCalculate(p TemplateParams) *Document {
	inputs := []Parameter{
		stringInput("stac_collection", "The STAC collection to use", "--stac_collection"),
		stringInput("aoi", "Area of interest as GeoJSON in EPSG:4326", "--aoi"),
		stringInput("date_start", "Start date in ISO 8601", "--date_start"),
		stringInput("date_end", "End date in ISO 8601", "--date_end"),
		stringInput("index", "Spectral index to calculate", "--index"),
		{
			ID:           "limit",
			Type:         "string",
			Doc:          "Max number of items to process",
			Default:      "10",
			InputBinding: &Binding{Prefix: "--limit"},
		},
		{
			ID:           "clip",
			Type:         "string",
			Doc:          "Clip rasters to the AOI footprint",
			Default:      "True",
			InputBinding: &Binding{Prefix: "--clip"},
		},
	}
	return pipeline("raster-calculate", "Raster calculator", []string{"eodh-workflows", "raster", "calculate"}, inputs, p)
}

// WaterQuality builds the water-quality pipeline document.
func WaterQuality(p TemplateParams) *Document {
	inputs := []Parameter{
		stringInput("stac_collection", "The STAC collection to use", "--stac_collection"),
		stringInput("aoi", "Area of interest as GeoJSON in EPSG:4326", "--aoi"),
		stringInput("date_start", "Start date in ISO 8601", "--date_start"),
		stringInput("date_end", "End date in ISO 8601", "--date_end"),
		{
			ID:           "limit",
			Type:         "string",
			Doc:          "Max number of items to process",
			Default:      "10",
			InputBinding: &Binding{Prefix: "--limit"},
		},
		{
			ID:           "clip",
			Type:         "string",
			Doc:          "Clip rasters to the AOI footprint",
			Default:      "True",
			InputBinding: &Binding{Prefix: "--clip"},
		},
	}
	return pipeline("water-quality", "Water quality analysis", []string{"eodh-workflows", "water", "quality"}, inputs, p)
}

// LULCChange builds the land-cover-change pipeline document.
func LULCChange(p TemplateParams) *Document {
	inputs := []Parameter{
		stringInput("source", "Land cover dataset to use", "--source"),
		stringInput("aoi", "Area of interest as GeoJSON in EPSG:4326", "--aoi"),
		stringInput("date_start", "Start date in ISO 8601", "--date_start"),
		stringInput("date_end", "End date in ISO 8601", "--date_end"),
	}
	return pipeline("land-cover-change", "Land cover change", []string{"eodh-workflows", "lulc", "change"}, inputs, p)
}

func pipeline(id, label string, baseCommand []string, inputs []Parameter, p TemplateParams) *Document {
	toolID := id + "-tool"

	toolInputs := make([]Parameter, len(inputs))
	copy(toolInputs, inputs)

	stepIn := make(map[string]string, len(inputs))
	for _, in := range inputs {
		stepIn[in.ID] = in.ID
	}

	tool := &CommandLineTool{
		Class:        ClassCommandLineTool,
		ID:           toolID,
		BaseCommand:  baseCommand,
		Inputs:       toolInputs,
		Outputs:      []Parameter{stacDirOutput()},
		Requirements: p.requirements(),
	}

	wfInputs := make([]Parameter, len(inputs))
	for i, in := range inputs {
		in.InputBinding = nil
		wfInputs[i] = in
	}

	wf := &Workflow{
		Class:  ClassWorkflow,
		ID:     id,
		Label:  label,
		Doc:    label + " pipeline",
		Inputs: wfInputs,
		Outputs: []Parameter{{
			ID:           "results",
			Type:         "Directory",
			OutputSource: "process/results",
		}},
		Steps: []Step{{
			ID:  "process",
			Run: "#" + toolID,
			In:  stepIn,
			Out: []string{"results"},
		}},
	}

	return NewDocument(wf, tool)
}
