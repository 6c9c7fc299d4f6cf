package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"billbridge/internal/application/dto"
	"billbridge/internal/infrastructure/di"
	apperrors "billbridge/internal/shared_kernel/errors"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var nowUTC = func() time.Time { return time.Now().UTC() }

func paymentCmd(load containerLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Create or inspect bill payments",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create [domain] [reference]",
		Short: "Create or reuse an invoice for a bill",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, _, release, err := load()
			if err != nil {
				return err
			}
			defer release()

			resource, appErr := container.CreatePaymentUseCase.Execute(cmd.Context(), dto.CreatePaymentCommand{
				Domain:    args[0],
				Reference: args[1],
			})
			if appErr != nil {
				return commandError(appErr)
			}
			return printJSON(cmd.OutOrStdout(), resource)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get [domain] [period] [reference]",
		Short: "Show a stored bill payment",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, _, release, err := load()
			if err != nil {
				return err
			}
			defer release()

			resource, appErr := container.GetPaymentUseCase.Execute(cmd.Context(), dto.GetPaymentQuery{
				Domain:    args[0],
				Period:    args[1],
				Reference: args[2],
			})
			if appErr != nil {
				return commandError(appErr)
			}
			return printJSON(cmd.OutOrStdout(), resource)
		},
	})

	return cmd
}

func sweepCmd(load containerLoader) *cobra.Command {
	var batchSize int

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one reconcile pass over pending payments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, cfg, release, err := load()
			if err != nil {
				return err
			}
			defer release()

			if batchSize <= 0 {
				batchSize = cfg.ReconcilerBatchSize
			}
			output, appErr := container.ReconcilePaymentsUseCase.Execute(cmd.Context(), dto.ReconcilePaymentsCommand{
				Now:       nowUTC(),
				BatchSize: batchSize,
				RunID:     uuid.NewString(),
			})
			if appErr != nil {
				return commandError(appErr)
			}
			return printJSON(cmd.OutOrStdout(), output)
		},
	}

	cmd.Flags().IntVarP(&batchSize, "batch-size", "n", 0, "records per page (defaults to RECONCILER_BATCH_SIZE)")

	return cmd
}

func issuerCmd(load containerLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issuer",
		Short: "Inspect configured bill issuers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "resolve [domain]",
		Short: "Resolve the settings of a bill issuer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, _, release, err := load()
			if err != nil {
				return err
			}
			defer release()

			resource, appErr := container.ResolveSettingsUseCase.Execute(cmd.Context(), dto.ResolveSettingsQuery{Domain: args[0]})
			if appErr != nil {
				return commandError(appErr)
			}
			return printJSON(cmd.OutOrStdout(), resource)
		},
	})

	return cmd
}

func migrateCmd(load containerLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Wait for the store and apply schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, cfg, release, err := load()
			if err != nil {
				return err
			}
			defer release()

			if appErr := container.InitializePersistenceUseCase.Execute(cmd.Context(), di.PersistenceCommand(cfg)); appErr != nil {
				return commandError(appErr)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "store ready db_type=%s target=%s\n", cfg.DBType, cfg.DatabaseTarget)
			return nil
		},
	}
}

func commandError(appErr *apperrors.AppError) error {
	return fmt.Errorf("%s: %s", appErr.Code, appErr.Message)
}

func printJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
