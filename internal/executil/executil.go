// internal/executil/executil.go
package executil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrCommandFailed = errors.New("command failed")

// waitDelay bounds how long Run waits for output pipes after the process
// group has been killed.
const waitDelay = 2 * time.Second

// Cmd describes one process invocation.
type Cmd struct {
	Dir      string
	Name     string
	Args     []string
	ExtraEnv map[string]string
	DryRun   bool

	Stdout io.Writer // defaults to os.Stdout
	Stderr io.Writer // defaults to os.Stderr
}

// String is the printable, shell-safe form of the command.
func (c Cmd) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + Quote(c.Args)
}

// Run executes c, or only prints it to Stdout when c.DryRun is set.
func Run(ctx context.Context, c Cmd) error {
	fullCmd := c.String()
	stdout, stderr := c.Stdout, c.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	if c.DryRun {
		if c.Dir != "" {
			fmt.Fprintf(stdout, "[DRY RUN in %s] %s\n", c.Dir, fullCmd)
		} else {
			fmt.Fprintf(stdout, "[DRY RUN] %s\n", fullCmd)
		}
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	// cancellation kills everything the command started, not only its root
	killGroupOnCancel(cmd)
	cmd.WaitDelay = waitDelay
	cmd.Env = os.Environ()
	for k, v := range c.ExtraEnv {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	log.WithField("dir", c.Dir).Debugf("running: %s", fullCmd)
	if err := cmd.Run(); err != nil {
		// context cancellations/timeouts show clearly
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %s: %w", ErrCommandFailed, fullCmd, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
				return fmt.Errorf("%w (exit=%d): %s", ErrCommandFailed, status.ExitStatus(), fullCmd)
			}
		}
		return fmt.Errorf("%w: %s: %w", ErrCommandFailed, fullCmd, err)
	}
	return nil
}

// Quote returns a printable, shell-safe representation of args.
func Quote(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\n\"'`$\\*?[]{}()<>|&;") {
			a = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		}
		quoted[i] = a
	}
	return strings.Join(quoted, " ")
}
