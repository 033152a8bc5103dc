package pdf

import (
	"context"
	"os/exec"

	"github.com/floorwise/floorwise-cli/internal/core/ports/driven"
)

// Ensure ExecRunner implements the interface.
var _ driven.CommandRunner = (*ExecRunner)(nil)

// ExecRunner executes external commands on the host.
type ExecRunner struct{}

// NewExecRunner creates a command runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the named command and returns its combined output.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}
