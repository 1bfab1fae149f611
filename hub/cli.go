/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package hub

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/nabbar/foundation/errors"
)

// Process exit codes for CLI runs.
const (
	ExitOK        = 0
	ExitError     = 1
	ExitMisuse    = 2
	ExitCancelled = 130
)

// ExitCode maps a command's error to the process exit code contract:
// 0 success, 2 misuse (validation failures), 130 cancellation, 1 anything
// else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.IsKind(err, errors.KindValidation):
		return ExitMisuse
	case errors.As(err) != nil && errors.As(err).Code() == errors.CodeCancelled:
		return ExitCancelled
	default:
		return ExitError
	}
}

// CommandSpec is one entry in the command dimension: a dotted Name (e.g.
// "cluster.init" becomes the "init" subcommand of "cluster") plus the
// metadata BuildCLI and any introspecting caller needs.
type CommandSpec struct {
	// Name is dot-separated; each segment becomes one level of nested
	// cobra subcommand, the same shape cuemby-warren's rootCmd/clusterCmd/
	// clusterInitCmd tree builds by hand with AddCommand calls.
	Name     string
	Short    string
	Aliases  []string
	Hidden   bool
	Category string
	Run      func(args []string) error
}

// RegisterCommand stores spec in the command dimension under spec.Name,
// emitting "command.registered" on the bus (picked up as a debug log record
// once the foundation is initialized, see subscribeBuiltinHandlers).
func (h *Hub) RegisterCommand(spec CommandSpec) error {
	if spec.Name == "" {
		return errors.ValidationError("hub.command.name", "command name must not be empty")
	}
	metadata := map[string]any{
		"short":    spec.Short,
		"hidden":   spec.Hidden,
		"category": spec.Category,
	}
	return h.reg.Register(DimensionCommand, spec.Name, spec, spec.Aliases, metadata)
}

// GetCommand resolves name (canonical or alias) in the command dimension.
func (h *Hub) GetCommand(name string) (CommandSpec, bool) {
	v, ok := h.reg.Get(DimensionCommand, name)
	if !ok {
		return CommandSpec{}, false
	}
	spec, ok := v.(CommandSpec)
	return spec, ok
}

// BuildCLI assembles every registered CommandSpec into a cobra command
// tree rooted at a command named name, with version wired to cobra's
// built-in --version flag. The returned *cobra.Command is handed back as an
// opaque node: callers call Execute() on it (or AddCommand more subcommands
// before doing so); flag parsing itself stays cobra's job, an external
// collaborator the Hub never reaches into.
func (h *Hub) BuildCLI(name, version string) *cobra.Command {
	root := &cobra.Command{
		Use:     name,
		Short:   name,
		Version: version,
	}

	nodes := map[string]*cobra.Command{"": root}

	entries := h.reg.ListDimension(DimensionCommand)
	for _, e := range entries {
		spec, ok := e.Value.(CommandSpec)
		if !ok {
			continue
		}
		h.attachCommand(nodes, spec)
	}

	return root
}

// attachCommand walks spec.Name's dotted segments, creating and caching any
// intermediate parent nodes nodes doesn't have yet, then installs spec as
// the leaf.
func (h *Hub) attachCommand(nodes map[string]*cobra.Command, spec CommandSpec) {
	segments := strings.Split(spec.Name, ".")

	path := ""
	for i, seg := range segments {
		parentPath := path
		if path == "" {
			path = seg
		} else {
			path = path + "." + seg
		}

		cmd, exists := nodes[path]
		if !exists {
			cmd = &cobra.Command{Use: seg}
			nodes[parentPath].AddCommand(cmd)
			nodes[path] = cmd
		}

		if i == len(segments)-1 {
			cmd.Short = spec.Short
			cmd.Aliases = spec.Aliases
			cmd.Hidden = spec.Hidden
			if spec.Run != nil {
				run := spec.Run
				cmd.RunE = func(_ *cobra.Command, args []string) error { return run(args) }
			}
		}
	}
}
