// Package commands dispatches subcommands, each with its own flag set.
package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"slices"
)

// ErrUsage is returned when the arguments name no known command.
var ErrUsage = errors.New("usage")

// Command is a subcommand with its own flags and a Run function.
// Flags are defined on FlagSet; Run is called after Parse with the positional arguments.
type Command struct {
	Name    string
	Summary string
	FlagSet *flag.FlagSet
	Run     func(args []string) error
}

// Registry holds subcommands by name. Add commands with Register; run with Execute.
type Registry struct {
	cmds map[string]*Command
}

// NewRegistry returns an empty command registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]*Command)}
}

// Register adds a subcommand. run is called after fs.Parse succeeds, with fs.Args().
func (r *Registry) Register(name, summary string, fs *flag.FlagSet, run func(args []string) error) {
	r.cmds[name] = &Command{Name: name, Summary: summary, FlagSet: fs, Run: run}
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.cmds))
}

// Usage writes one line per command.
func (r *Registry) Usage(w io.Writer) {
	for _, name := range r.Names() {
		fmt.Fprintf(w, "  %-10s %s\n", name, r.cmds[name].Summary)
	}
}

// Execute runs the subcommand in args[0] with args[1:] as flag/positional arguments.
// Returns an error for unknown command, parse error, or from Run().
func (r *Registry) Execute(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing subcommand", ErrUsage)
	}
	name := args[0]
	cmd, ok := r.cmds[name]
	if !ok {
		return fmt.Errorf("%w: unknown command: %s", ErrUsage, name)
	}
	if err := cmd.FlagSet.Parse(args[1:]); err != nil {
		return err
	}
	return cmd.Run(cmd.FlagSet.Args())
}
