package imaging

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

const stderrLogCap = 8 << 10

// execRunner shells out to the rasterizer binary and logs each invocation.
type execRunner struct {
	logger *slog.Logger
}

func newExecRunner(logger *slog.Logger) execRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return execRunner{logger: logger}
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()

	if err != nil {
		r.logger.Error("exec.failed",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
			"stderr", truncateStderr(errb.String(), stderrLogCap),
		)
		return out.Bytes(), errb.Bytes(), err
	}

	r.logger.Debug("exec.done",
		"cmd", name,
		"args", strings.Join(args, " "),
		"duration_ms", time.Since(start).Milliseconds(),
		"stdout_bytes", out.Len(),
	)
	return out.Bytes(), errb.Bytes(), nil
}

func truncateStderr(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
