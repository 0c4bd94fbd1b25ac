package bot

import (
	"context"
	"fmt"
	"sort"

	"github.com/cory-johannsen/phoenix/internal/game/session"
)

// OptionKind is the type of a command option.
type OptionKind int

const (
	// OptionUser takes a chat user.
	OptionUser OptionKind = iota + 1
)

// Option declares one command option.
type Option struct {
	Name        string
	Description string
	Kind        OptionKind
	Required    bool
}

// HandlerFunc runs a command for one interaction.
type HandlerFunc func(ctx context.Context, in Interaction) error

// Command defines a slash command.
type Command struct {
	// Name is the command name users type.
	Name        string
	Description string
	Options     []Option
	// RequiresCharacter rejects users who have not run start.
	RequiresCharacter bool
	// OwnerOnly restricts the command to configured owners.
	OwnerOnly bool
	// Activity, when set, marks the author busy while the command runs.
	Activity session.Activity
	Run      HandlerFunc
}

// Registry maps command names to Command definitions.
type Registry struct {
	commands map[string]*Command
}

// NewRegistry creates a Registry populated with the given commands.
//
// Precondition: No two commands may share a name; every command needs a Run.
// Postcondition: Returns a Registry or an error describing the first conflict.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{commands: make(map[string]*Command, len(cmds))}
	for i := range cmds {
		cmd := &cmds[i]
		if cmd.Name == "" {
			return nil, fmt.Errorf("command %d has no name", i)
		}
		if cmd.Run == nil {
			return nil, fmt.Errorf("command %q has no handler", cmd.Name)
		}
		if _, exists := r.commands[cmd.Name]; exists {
			return nil, fmt.Errorf("duplicate command name: %q", cmd.Name)
		}
		r.commands[cmd.Name] = cmd
	}
	return r, nil
}

// Resolve looks up a command by name.
func (r *Registry) Resolve(name string) (*Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Commands returns all registered commands sorted by name.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
