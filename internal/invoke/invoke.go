package invoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/lydakis/homemcp/internal/command"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultShell interprets serialized command lines.
	DefaultShell = "/bin/sh"
	// DefaultMaxOutput is the per-stream capture ceiling (50 MiB).
	DefaultMaxOutput int64 = 50 << 20

	waitDelay = 2 * time.Second
)

// Outcome is the result of one external invocation. When Failed is set,
// Diagnostic carries the subprocess error stream or a generic message.
type Outcome struct {
	Stdout     string
	Failed     bool
	Diagnostic string
}

// Runner executes a command line to completion.
type Runner interface {
	Run(ctx context.Context, line command.Line) Outcome
}

// Options configures an Invoker. Zero values select the defaults.
type Options struct {
	Shell     string
	MaxOutput int64
	Timeout   time.Duration
}

// Invoker runs command lines through a POSIX shell, one attempt each.
type Invoker struct {
	shell     string
	maxOutput int64
	timeout   time.Duration
}

// New creates an Invoker.
func New(opts Options) *Invoker {
	if strings.TrimSpace(opts.Shell) == "" {
		opts.Shell = DefaultShell
	}
	if opts.MaxOutput <= 0 {
		opts.MaxOutput = DefaultMaxOutput
	}
	return &Invoker{
		shell:     opts.Shell,
		maxOutput: opts.MaxOutput,
		timeout:   opts.Timeout,
	}
}

// Run blocks until the program exits, the output ceiling is crossed, the
// timeout fires, or ctx is canceled. The last three kill the process group.
func (i *Invoker) Run(ctx context.Context, line command.Line) Outcome {
	runCtx := ctx
	if i.timeout > 0 {
		var cancelTimeout context.CancelFunc
		runCtx, cancelTimeout = context.WithTimeout(ctx, i.timeout)
		defer cancelTimeout()
	}
	killCtx, kill := context.WithCancel(runCtx)
	defer kill()

	text := line.String()
	cmd := exec.CommandContext(killCtx, i.shell, "-c", text)
	setProcessGroup(cmd)
	cmd.Cancel = func() error { return killProcessGroup(cmd) }
	cmd.WaitDelay = waitDelay

	stdout := &cappedBuffer{limit: i.maxOutput, onExceed: kill}
	stderr := &cappedBuffer{limit: i.maxOutput, onExceed: kill}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	outcome := i.classify(runCtx, err, stdout, stderr)

	log.Debug().
		Str("command", text).
		Bool("failed", outcome.Failed).
		Int("exit_code", exitCode(err)).
		Dur("duration", duration).
		Msg("external command finished")

	return outcome
}

func (i *Invoker) classify(runCtx context.Context, err error, stdout, stderr *cappedBuffer) Outcome {
	if stdout.exceeded || stderr.exceeded {
		return Outcome{
			Failed:     true,
			Diagnostic: fmt.Sprintf("output exceeded %d bytes", i.maxOutput),
		}
	}
	if err == nil {
		return Outcome{Stdout: decodeText(stdout.buf.Bytes())}
	}

	if diag := strings.TrimSpace(decodeText(stderr.buf.Bytes())); diag != "" {
		return Outcome{Failed: true, Diagnostic: diag}
	}

	switch {
	case i.timeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return Outcome{Failed: true, Diagnostic: fmt.Sprintf("command timed out after %s", i.timeout)}
	case runCtx.Err() != nil:
		return Outcome{Failed: true, Diagnostic: fmt.Sprintf("command canceled: %v", runCtx.Err())}
	default:
		return Outcome{Failed: true, Diagnostic: fmt.Sprintf("command failed: %v", err)}
	}
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func decodeText(raw []byte) string {
	return strings.ToValidUTF8(string(raw), "\uFFFD")
}

// cappedBuffer keeps at most limit bytes. Past the limit it calls onExceed
// once and keeps draining so the writer never blocks on a full pipe.
type cappedBuffer struct {
	buf      bytes.Buffer
	limit    int64
	exceeded bool
	onExceed func()
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if b.exceeded {
		return len(p), nil
	}
	if b.limit > 0 && int64(b.buf.Len())+int64(len(p)) > b.limit {
		b.exceeded = true
		if b.onExceed != nil {
			b.onExceed()
		}
		return len(p), nil
	}
	return b.buf.Write(p)
}
