// Package commands contains CLI command implementations for the application.
package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"golang.org/x/term"

	"github.com/allisson/wemakepass/internal/app"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// readTerminalPassword is swapped in tests to avoid touching the terminal.
var readTerminalPassword = term.ReadPassword

// promptSecret prints prompt and reads one value. Input from a terminal is not echoed;
// any other reader is consumed line by line through lines, which must wrap streams.Reader.
func promptSecret(streams IOTuple, lines *bufio.Reader, prompt string) (string, error) {
	if _, err := fmt.Fprint(streams.Writer, prompt); err != nil {
		return "", err
	}

	if f, ok := streams.Reader.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := readTerminalPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(streams.Writer)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(secret), nil
	}

	line, err := lines.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}
