package actions

import (
	"bytes"
	"context"
	"os/exec"
)

// CommandRunner executes one external command and returns its output.
// Injected into Client so tests can fake the GitHub CLI.
type CommandRunner func(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)

// runCommand is the real runner. A non-zero exit surfaces as err; the
// captured stderr is returned either way so callers can attach it.
func runCommand(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	return outBuf.String(), errBuf.String(), err
}
