package commandstructure

import (
	"fmt"
	"log/slog"
)

// CommandInvoker runs commands in order, feeding each output into the next command.
type CommandInvoker struct {
	commands []Command
}

func NewCommandInvoker(commands []Command) *CommandInvoker {
	return &CommandInvoker{commands: commands}
}

// NewCommandInvokerFromConfigs builds every configured command up front so
// configuration errors surface at startup rather than on the first request.
func NewCommandInvokerFromConfigs(registry *CommandRegistry, configs []CommandConfig) (*CommandInvoker, error) {
	commands := make([]Command, 0, len(configs))
	for i, config := range configs {
		command, err := registry.Create(config.Name, config.Params)
		if err != nil {
			return nil, fmt.Errorf("command at index %d: %w", i, err)
		}
		commands = append(commands, command)
	}
	return NewCommandInvoker(commands), nil
}

func (i *CommandInvoker) Execute(imageData []byte) ([]byte, error) {
	current := imageData
	for index, command := range i.commands {
		slog.Debug("executing command", "index", index, "command", command.Name(), "input_size_bytes", len(current))
		result, err := command.Execute(current)
		if err != nil {
			return nil, fmt.Errorf("command %s failed: %w", command.Name(), err)
		}
		current = result
	}
	return current, nil
}

// Len returns the number of commands in the chain.
func (i *CommandInvoker) Len() int {
	return len(i.commands)
}
