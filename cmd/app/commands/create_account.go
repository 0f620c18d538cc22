package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	userUseCase "github.com/allisson/wemakepass/internal/user/usecase"
)

// AccountFlags carries the non-secret attributes of a new account.
type AccountFlags struct {
	UserID    string
	Email     string
	Nickname  string
	Role      string
	Certified bool
}

type accountOutput struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Nickname     string    `json:"nickname"`
	Role         string    `json:"role"`
	Certified    bool      `json:"certified"`
	RegisteredAt time.Time `json:"registered_at"`
}

// RunCreateAccount prompts for a password (twice) and creates an account.
//
// Requirements: Database must be migrated and accessible.
func RunCreateAccount(
	ctx context.Context,
	useCase userUseCase.UseCase,
	logger *slog.Logger,
	flags AccountFlags,
	format string,
	streams IOTuple,
) error {
	logger.Info("creating new account", slog.String("user_id", flags.UserID))

	lines := bufio.NewReader(streams.Reader)
	password, err := promptSecret(streams, lines, "Password: ")
	if err != nil {
		return err
	}
	confirmation, err := promptSecret(streams, lines, "Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirmation {
		return fmt.Errorf("passwords do not match")
	}

	account, err := useCase.CreateAccount(ctx, userUseCase.CreateAccountInput{
		UserID:    flags.UserID,
		Password:  password,
		Email:     flags.Email,
		Nickname:  flags.Nickname,
		Role:      flags.Role,
		Certified: flags.Certified,
	})
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	output := accountOutput{
		UserID:       account.ID,
		Email:        account.Email,
		Nickname:     account.Nickname,
		Role:         account.Role,
		Certified:    account.Certified,
		RegisteredAt: account.RegisteredAt,
	}
	if format == "json" {
		writeAccountJSON(output, streams.Writer)
	} else {
		writeAccountText(output, streams.Writer)
	}

	logger.Info("account created successfully",
		slog.String("user_id", account.ID),
		slog.Bool("certified", account.Certified),
	)
	return nil
}

func writeAccountJSON(output accountOutput, writer io.Writer) {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(output)
}

func writeAccountText(output accountOutput, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "Account created successfully!")
	_, _ = fmt.Fprintf(writer, "User ID:   %s\n", output.UserID)
	_, _ = fmt.Fprintf(writer, "Email:     %s\n", output.Email)
	_, _ = fmt.Fprintf(writer, "Nickname:  %s\n", output.Nickname)
	_, _ = fmt.Fprintf(writer, "Role:      %s\n", output.Role)
	_, _ = fmt.Fprintf(writer, "Certified: %t\n", output.Certified)
}
