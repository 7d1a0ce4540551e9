package engines

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// gracePeriod is how long a timed-out subprocess gets between the
// interrupt signal and the kill.
const gracePeriod = 100 * time.Millisecond

// errTimeout marks a subprocess that ran past its deadline.
var errTimeout = errors.New("subprocess timed out")

// runCommand executes name with args and returns its stdout. The process is
// interrupted when ctx is done or timeout elapses, and killed if it does not
// exit within the grace period.
func runCommand(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader("")
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = gracePeriod

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		log.Debug("Subprocess failed", "command", name, "duration", elapsed, "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%s: %w after %s", name, errTimeout, timeout)
			}
			return nil, fmt.Errorf("%s: %w", name, ctxErr)
		}
		return nil, fmt.Errorf("%s failed: %w, stderr: %s", name, err, strings.TrimSpace(stderr.String()))
	}

	log.Debug("Subprocess executed", "command", name, "duration", elapsed, "bytes", stdout.Len())
	return stdout.Bytes(), nil
}

// checkBinary verifies that binary is on PATH and runs with helpArg.
func checkBinary(binary, helpArg string) error {
	path, err := exec.LookPath(binary)
	if err != nil {
		return fmt.Errorf("%s not found in PATH: %w", binary, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := exec.CommandContext(ctx, path, helpArg).Run(); err != nil {
		return fmt.Errorf("cannot execute %s: %w", binary, err)
	}
	return nil
}
