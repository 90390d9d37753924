package loader

// Document is the YAML form of a layout tree.
type Document struct {
	Main      string                  `yaml:"main"`
	Filters   map[string]FilterSpec   `yaml:"filters,omitempty"`
	Pipelines map[string]PipelineSpec `yaml:"pipelines,omitempty"`
}

type FormatSpec struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Pixel  string `yaml:"pixel"`
}

type FilterSpec struct {
	Format  FormatSpec `yaml:"format,flow"`
	Shader  string     `yaml:"shader,omitempty"`
	Code    string     `yaml:"code,omitempty"`
	Inputs  []string   `yaml:"inputs,flow,omitempty"`
	Outputs []string   `yaml:"outputs,flow"`
}

type PipelineSpec struct {
	Inputs      []string         `yaml:"inputs,flow,omitempty"`
	Outputs     []string         `yaml:"outputs,flow"`
	Elements    []ElementSpec    `yaml:"elements"`
	Connections []ConnectionSpec `yaml:"connections"`
}

type ElementSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type ConnectionSpec struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}
