// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"mytodo/internal/config"
	"mytodo/internal/exitcode"
	"mytodo/internal/output"
	"mytodo/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsService returns true if the command talks to the server.
	// Commands like help and version return false.
	NeedsService() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, server, logger).
	// svc is nil if NeedsService() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}

// listView picks the view that receives re-rendered task lists.
// In quiet mode the list is fetched but not shown.
func listView(cfg *config.Config, out io.Writer) *output.TextView {
	if cfg.Quiet {
		return &output.TextView{W: io.Discard}
	}
	return &output.TextView{W: out}
}

// navigator reports redirects on out unless quiet.
func navigator(cfg *config.Config, out io.Writer) *output.Navigator {
	return &output.Navigator{W: out, Quiet: cfg.Quiet}
}

// backendError reports an error that the components did not already
// alert, and returns its exit code.
func backendError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.For(err)
}

// singleArg extracts the one positional argument a command expects.
func singleArg(args []string, what string) (string, error) {
	switch len(args) {
	case 0:
		return "", fmt.Errorf("%s required", what)
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("too many arguments: expected one %s", what)
	}
}

// alerted reports whether err was already shown to the user by a
// component's alert: local validation and server rejections are, transport
// failures are not.
func alerted(err error) bool {
	var validation *service.ValidationError
	var apiErr *service.APIError
	return errors.As(err, &validation) || errors.As(err, &apiErr)
}
