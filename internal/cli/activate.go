package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Very1Fake/sdp.wildberries/internal/activation"
)

// NewActivateCmd создаёт команды управления лицензией.
// Активация идёт напрямую в сервис лицензий, минуя API движка.
func NewActivateCmd(serviceFn func() (*activation.Service, error), tokenPathFn func() string, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "license",
		Short: "Manage the license activation",
	}

	cmd.AddCommand(
		newLicenseActivateCmd(serviceFn, tokenPathFn, outputFn),
		newLicenseStatusCmd(serviceFn, tokenPathFn, outputFn),
		newLicenseDeactivateCmd(serviceFn, tokenPathFn, outputFn),
	)

	return cmd
}

func newLicenseActivateCmd(serviceFn func() (*activation.Service, error), tokenPathFn func() string, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "activate KEY",
		Short: "Activate a license key on this machine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			key := args[0]
			if !activation.ValidateKey(key) {
				return fmt.Errorf("malformed license key")
			}

			service, err := serviceFn()
			if err != nil {
				return err
			}

			claims, token, err := service.Activate(cmd.Context(), key)
			if err != nil {
				return err
			}

			if err := activation.SaveToken(tokenPathFn(), token); err != nil {
				return fmt.Errorf("save activation token: %w", err)
			}

			out.Success(fmt.Sprintf("License activated for %s", claims.Name))
			return nil
		},
	}
}

func newLicenseStatusCmd(serviceFn func() (*activation.Service, error), tokenPathFn func() string, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current activation",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			token := activation.LoadToken(tokenPathFn())
			if token == "" {
				return fmt.Errorf("no activation token, run \"license activate\" first")
			}

			service, err := serviceFn()
			if err != nil {
				return err
			}

			claims, err := service.ParseToken(token)
			if err != nil {
				return err
			}

			status := "valid"
			if claims.Suspended {
				status = "suspended"
			}
			if claims.Expired(time.Now()) {
				status = "expired"
			}

			expires := ""
			if claims.ExpiresAt != nil {
				expires = claims.ExpiresAt.Format(time.RFC3339)
			}

			out.Print(
				[]string{"NAME", "EMAIL", "COMPANY", "STATUS", "EXPIRES"},
				[][]string{{claims.Name, claims.Email, claims.Company, status, expires}},
				claims,
			)
			return nil
		},
	}
}

func newLicenseDeactivateCmd(serviceFn func() (*activation.Service, error), tokenPathFn func() string, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate",
		Short: "Release the activation on this machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			tokenPath := tokenPathFn()
			token := activation.LoadToken(tokenPath)
			if token == "" {
				return fmt.Errorf("no activation token")
			}

			service, err := serviceFn()
			if err != nil {
				return err
			}

			claims, err := service.ParseToken(token)
			if err != nil {
				return err
			}

			if err := service.Deactivate(cmd.Context(), claims.ActivationID); err != nil {
				return err
			}
			if err := activation.SaveToken(tokenPath, ""); err != nil {
				return fmt.Errorf("clear activation token: %w", err)
			}

			out.Success("License deactivated")
			return nil
		},
	}
}
