package webhook

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CommandRunner executes one dispatched command line.
type CommandRunner interface {
	Run(ctx context.Context, args []string) error
}

// ExecRunner runs dispatched commands as child processes of the current
// binary, so every webhook action goes through the same CLI surface as
// an operator would.
type ExecRunner struct {
	// Binary overrides the executable path; empty means the running
	// binary.
	Binary string
}

func (r ExecRunner) Run(ctx context.Context, args []string) error {
	binary := r.Binary
	if binary == "" {
		path, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolve executable: %w", err)
		}
		binary = path
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s %s: %w", binary, strings.Join(args, " "), err)
	}
	return nil
}

// ExpandCommand splits a configured command template into arguments and
// substitutes ${placeholder} values per argument, so substituted titles
// with spaces stay a single argument.
func ExpandCommand(template string, values map[string]string) []string {
	fields := strings.Fields(template)
	args := make([]string, 0, len(fields))
	for _, field := range fields {
		args = append(args, expandField(field, values))
	}
	return args
}

func expandField(field string, values map[string]string) string {
	var out strings.Builder
	for {
		start := strings.Index(field, "${")
		if start < 0 {
			out.WriteString(field)
			return out.String()
		}
		end := strings.Index(field[start:], "}")
		if end < 0 {
			out.WriteString(field)
			return out.String()
		}
		end += start
		out.WriteString(field[:start])
		name := field[start+2 : end]
		if value, ok := values[name]; ok {
			out.WriteString(value)
		}
		field = field[end+1:]
	}
}
