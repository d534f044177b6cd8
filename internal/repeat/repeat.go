// Package repeat runs a command over and over with a wait between runs,
// for refreshing a sign without a cron job.
package repeat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/matheuskafuri/ticker/internal/apperr"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const clock = "15:04:05"

// ExecFunc runs argv to completion. err is set only when the command could
// not be run at all; otherwise code is its exit status.
type ExecFunc func(ctx context.Context, argv []string) (code int, err error)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Runner struct {
	Out   io.Writer
	Exec  ExecFunc
	Sleep SleepFunc
	Now   func() time.Time

	// Schedule replaces the fixed delay when set. Spec is its text for
	// status lines.
	Schedule cron.Schedule
	Spec     string

	log zerolog.Logger
}

// New returns a Runner that executes real subprocesses, writing status
// lines and the command's output to out.
func New(out io.Writer, log zerolog.Logger) *Runner {
	r := &Runner{
		Out:   out,
		Sleep: Sleep,
		Now:   time.Now,
		log:   log.With().Str("component", "repeat").Logger(),
	}
	r.Exec = r.execCommand
	return r
}

// WithSchedule parses a standard five-field cron spec (or a descriptor
// such as "@hourly") and uses it instead of the fixed delay.
func (r *Runner) WithSchedule(spec string) error {
	s, err := cron.ParseStandard(spec)
	if err != nil {
		return apperr.Argumentf("bad schedule %q: %v", spec, err)
	}
	r.Schedule, r.Spec = s, spec
	return nil
}

// Run executes argv, then waits delay minutes (or until the next scheduled
// time) and repeats. It stops with a nil error when the command exits
// non-zero or ctx is cancelled, and with a SubprocessError when the command
// cannot be started.
func (r *Runner) Run(ctx context.Context, delay int, argv []string) error {
	if len(argv) == 0 {
		return apperr.Argumentf("no command given")
	}
	if delay < 0 {
		return apperr.Argumentf("delay must not be negative, got %d", delay)
	}
	cmd := strings.Join(argv, " ")

	schedule := r.Schedule
	if schedule == nil {
		schedule = cron.Every(time.Duration(delay) * time.Minute)
		r.printf("Running \"%s\" every %d minutes, starting NOW\n", cmd, delay)
	} else {
		r.printf("Running \"%s\" on schedule \"%s\", starting NOW\n", cmd, r.Spec)
	}

	for {
		r.printf("\n%s Executing %s\n", r.stamp(), cmd)
		code, err := r.Exec(ctx, argv)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			r.printf("Got exception: %v\n", err)
			r.printf("Aborting!\n")
			return &apperr.SubprocessError{Argv: argv, ExitCode: -1, Err: err}
		}
		if code != 0 {
			r.printf("%s Command failed (return code %d)\n", r.stamp(), code)
			return nil
		}
		r.printf("%s Command successful (return code %d)\n", r.stamp(), code)

		now := r.Now()
		next := schedule.Next(now)
		if r.Schedule == nil {
			r.printf("%s Waiting %d minutes...\n", r.stamp(), delay)
		} else {
			r.printf("%s Waiting until %s...\n", r.stamp(), next.Format(clock))
		}
		r.log.Debug().Time("next", next).Msg("sleeping")
		if err := r.Sleep(ctx, next.Sub(now)); err != nil {
			return nil
		}
	}
}

func (r *Runner) stamp() string {
	return r.Now().Format(clock)
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.Out, format, args...)
}

func (r *Runner) execCommand(ctx context.Context, argv []string) (int, error) {
	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Stdin = os.Stdin
	c.Stdout = r.Out
	c.Stderr = os.Stderr
	err := c.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// Sleep waits for d unless ctx is done first.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
