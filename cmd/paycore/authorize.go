package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/benx421/payment-gateway/paycore/internal/app"
	"github.com/benx421/payment-gateway/paycore/internal/config"
	"github.com/benx421/payment-gateway/paycore/internal/models"
	"github.com/benx421/payment-gateway/paycore/internal/service"
)

const commandTimeout = 30 * time.Second

type errorOutput struct {
	Error   string       `json:"error"`
	Kind    service.Kind `json:"kind,omitempty"`
	Message string       `json:"message"`
}

func runAuthorizeCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("authorize", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		req           models.AuthorizationRequest
		operation     string
		executionDate string
	)
	cmd.StringVar(&req.ClientID, "client", "", "Client (TPP) identifier (REQUIRED)")
	cmd.StringVar(&req.ConsentID, "consent", "", "Consent identifier (REQUIRED)")
	cmd.StringVar(&req.IdempotencyKey, "key", "", "Idempotency key (REQUIRED)")
	cmd.Int64Var(&req.AmountCents, "amount", 0, "Amount in minor units (REQUIRED)")
	cmd.StringVar(&req.Currency, "currency", "", "ISO 4217 currency code (REQUIRED)")
	cmd.StringVar(&operation, "operation", string(models.OperationPayment), "payment or collection")
	cmd.StringVar(&executionDate, "execution-date", "", "Requested execution date, YYYY-MM-DD")
	cmd.StringVar(&req.InteractionID, "interaction", "", "Interaction identifier echoed in the result")

	if err := cmd.Parse(args); err != nil {
		return 2
	}

	req.Operation = models.Operation(operation)
	if executionDate != "" {
		d, err := time.Parse(time.DateOnly, executionDate)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: invalid -execution-date %q: %v\n", executionDate, err)
			return 2
		}
		req.RequestedExecutionDate = &d
	}

	return withApp(stdout, stderr, func(ctx context.Context, a *app.App) (any, error) {
		return a.Service.Authorize(ctx, &req)
	})
}

func runGetCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("get", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var clientID, paymentID string
	cmd.StringVar(&clientID, "client", "", "Client (TPP) identifier (REQUIRED)")
	cmd.StringVar(&paymentID, "id", "", "Payment identifier, pay_<uuid> (REQUIRED)")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if clientID == "" || paymentID == "" {
		_, _ = fmt.Fprintln(stderr, "Error: -client and -id are required")
		return 2
	}

	return withApp(stdout, stderr, func(ctx context.Context, a *app.App) (any, error) {
		return a.Service.GetByID(ctx, clientID, paymentID)
	})
}

// withApp builds the application, runs fn and prints its result or error as JSON
func withApp(stdout, stderr io.Writer, fn func(context.Context, *app.App) (any, error)) int {
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	logger := cfg.Logger.NewLoggerTo(stderr)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("failed to release resources", "error", err)
		}
	}()

	out, err := fn(ctx, a)
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err != nil {
		_ = enc.Encode(toErrorOutput(err))
		return 1
	}
	if err := enc.Encode(out); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: cannot encode result: %v\n", err)
		return 2
	}
	return 0
}

func toErrorOutput(err error) errorOutput {
	var svcErr *service.ServiceError
	if errors.As(err, &svcErr) {
		return errorOutput{Error: svcErr.Code, Kind: svcErr.Kind, Message: svcErr.Message}
	}
	return errorOutput{Error: service.ErrCodeInternalError, Kind: service.KindSystem, Message: err.Error()}
}
