package quote

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/matheuskafuri/ticker/internal/apperr"
	"github.com/matheuskafuri/ticker/internal/markup"
)

// OutputFunc runs argv and returns its standard output.
type OutputFunc func(ctx context.Context, argv []string) ([]byte, error)

// ExecOutput runs argv as a subprocess. Failures are SubprocessErrors.
func ExecOutput(ctx context.Context, argv []string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).Output()
	if err == nil {
		return out, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil, &apperr.SubprocessError{Argv: argv, ExitCode: exitErr.ExitCode(), Err: err}
	}
	return nil, &apperr.SubprocessError{Argv: argv, ExitCode: -1, Err: err}
}

// FortuneArgv builds "command -s set set ...". No sets means any fortune.
func FortuneArgv(command string, sets []string) []string {
	argv := []string{command, "-s"}
	return append(argv, sets...)
}

// Fortune runs the fortune command and collapses its output onto one line.
func Fortune(ctx context.Context, run OutputFunc, command string, sets []string) (string, error) {
	argv := FortuneArgv(command, sets)
	out, err := run(ctx, argv)
	if err != nil {
		return "", err
	}
	text := strings.Join(strings.Fields(string(out)), " ")
	if text == "" {
		return "", &apperr.ParseError{Source: command, Err: errors.New("empty output")}
	}
	return text, nil
}

// FormatFortune renders text in a single color.
func FormatFortune(text string, color markup.Color) string {
	return markup.Fg(color) + text
}
