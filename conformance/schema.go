package conformance

// Suite is one YAML file of cases.
type Suite struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	// Setup is prepended to the source of every case in the suite.
	Setup string `yaml:"setup,omitempty"`
	Cases []Case `yaml:"tests"`
}

type Case struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Skip        any         `yaml:"skip,omitempty"` // bool or reason
	Source      string      `yaml:"source"`
	MaxFrames   int         `yaml:"max_frames,omitempty"`
	Expect      Expectation `yaml:"expect"`
}

type Expectation struct {
	Output *string `yaml:"output,omitempty"` // exact stdout
	Match  string  `yaml:"match,omitempty"`  // regexp over stdout
	Kind   string  `yaml:"kind,omitempty"`   // compile|runtime
	Error  string  `yaml:"error,omitempty"`  // exact error text
}

const (
	KindCompile = "compile"
	KindRuntime = "runtime"
)

func (c *Case) IsSkipped() (bool, string) {
	switch v := c.Skip.(type) {
	case bool:
		if v {
			return true, "skipped"
		}
	case string:
		return true, v
	}
	return false, ""
}
