// Package plugins runs external logcatparse-<command> binaries for
// subcommands that logcatparse does not define itself, the way git and
// kubectl do.
package plugins

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Prefix is prepended to a subcommand name to form the plugin binary name.
const Prefix = "logcatparse-"

// ErrPluginNotFound is returned when no plugin binary can be located.
var ErrPluginNotFound = errors.New("plugin not found")

// Finder locates plugin binaries.
type Finder struct {
	// Dirs are searched in order.
	Dirs []string

	// SearchPath enables a final lookup in $PATH.
	SearchPath bool
}

// DefaultFinder searches the executable's directory, then
// ~/.logcatparse/plugins, then $PATH.
func DefaultFinder() *Finder {
	f := &Finder{SearchPath: true}
	if execPath, err := os.Executable(); err == nil {
		f.Dirs = append(f.Dirs, filepath.Dir(execPath))
	}
	if home, err := os.UserHomeDir(); err == nil {
		f.Dirs = append(f.Dirs, filepath.Join(home, ".logcatparse", "plugins"))
	}
	return f
}

// Find returns the path of the plugin implementing command.
func (f *Finder) Find(command string) (string, error) {
	if command == "" || strings.ContainsAny(command, `/\`) {
		return "", ErrPluginNotFound
	}
	name := Prefix + command

	for _, dir := range f.Dirs {
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if f.SearchPath {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	return "", ErrPluginNotFound
}

// Stdio holds the streams handed to a plugin process.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run executes a plugin and returns its exit code. Failures to start the
// process are reported on stdio.Err and yield exit code 2.
func Run(ctx context.Context, pluginPath string, args []string, stdio Stdio) int {
	cmd := exec.CommandContext(ctx, pluginPath, args...) // #nosec G204 -- plugin path comes from Find
	cmd.Stdin = stdio.In
	cmd.Stdout = stdio.Out
	cmd.Stderr = stdio.Err

	slog.Debug("running plugin", "path", pluginPath, "args", args)

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		return exitErr.ExitCode()
	default:
		_, _ = fmt.Fprintf(stdio.Err, "Error: executing plugin %s: %v\n", pluginPath, err)
		return 2
	}
}

// NotFoundMessage explains where a plugin for command would be looked up.
func NotFoundMessage(command string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "unknown command %q for \"logcatparse\"\n\n", command)
	sb.WriteString("If this is a plugin, install the binary as one of:\n")
	fmt.Fprintf(&sb, "  - %s%s in the same directory as logcatparse\n", Prefix, command)
	fmt.Fprintf(&sb, "  - ~/.logcatparse/plugins/%s%s\n", Prefix, command)
	fmt.Fprintf(&sb, "  - %s%s anywhere in your PATH\n", Prefix, command)
	sb.WriteString("\nRun 'logcatparse --help' for usage.")
	return sb.String()
}

// isExecutable checks if path is a regular file with an execute bit set.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode()&0111 != 0
}
