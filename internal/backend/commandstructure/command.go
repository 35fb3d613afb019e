package commandstructure

// Command transforms encoded image bytes into new encoded image bytes.
type Command interface {
	Name() string
	Execute(imageData []byte) ([]byte, error)
}

// CommandFactory creates a command from its configuration parameters.
type CommandFactory func(params map[string]any) (Command, error)

// CommandConfig names a registered command and carries its parameters inline.
type CommandConfig struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:",inline"`
}
