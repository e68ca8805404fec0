package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Very1Fake/sdp.wildberries/internal/validate"
)

// NewAccountCmd создаёт группу команд для управления аккаунтами.
func NewAccountCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}

	cmd.AddCommand(
		newAccountListCmd(clientFn, outputFn),
		newAccountAddCmd(clientFn, outputFn),
		newAccountRemoveCmd(clientFn, outputFn),
	)

	return cmd
}

func newAccountListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			accounts, err := client.ListAccounts()
			if err != nil {
				return err
			}

			headers := []string{"PHONE", "ACTIVE"}
			rows := make([][]string, len(accounts))
			for i, a := range accounts {
				rows[i] = []string{a.Phone, strconv.FormatBool(a.Active)}
			}

			out.Print(headers, rows, accounts)
			return nil
		},
	}
}

func newAccountAddCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var token string
	var inactive bool

	cmd := &cobra.Command{
		Use:   "add PHONE",
		Short: "Add an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			phone := args[0]
			if !validate.Phone(phone) {
				return fmt.Errorf("invalid phone %q, expected +7(XXX)XXX-XX-XX", phone)
			}

			accounts, err := client.ListAccounts()
			if err != nil {
				return err
			}
			for _, a := range accounts {
				if a.Phone == phone {
					return fmt.Errorf("account %s already exists", phone)
				}
			}

			accounts = append(accounts, AccountResponse{
				Phone:  phone,
				Token:  token,
				Active: !inactive,
			})
			if err := client.PutAccounts(accounts); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Account added: %s", phone))
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Session token (required)")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "Add the account as inactive")
	cmd.MarkFlagRequired("token")

	return cmd
}

func newAccountRemoveCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PHONE",
		Short: "Remove an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			accounts, err := client.ListAccounts()
			if err != nil {
				return err
			}

			kept := accounts[:0]
			for _, a := range accounts {
				if a.Phone != args[0] {
					kept = append(kept, a)
				}
			}
			if len(kept) == len(accounts) {
				return fmt.Errorf("account %s not found", args[0])
			}

			if err := client.PutAccounts(kept); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Account removed: %s", args[0]))
			return nil
		},
	}
}

// NewProxyCmd создаёт группу команд для управления прокси.
func NewProxyCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Manage proxies",
	}

	cmd.AddCommand(
		newProxyListCmd(clientFn, outputFn),
		newProxyAddCmd(clientFn, outputFn),
		newProxyRemoveCmd(clientFn, outputFn),
	)

	return cmd
}

func newProxyListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List proxies",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			proxies, err := client.ListProxies()
			if err != nil {
				return err
			}

			headers := []string{"ADDRESS", "ACTIVE"}
			rows := make([][]string, len(proxies))
			for i, p := range proxies {
				rows[i] = []string{p.Address, strconv.FormatBool(p.Active)}
			}

			out.Print(headers, rows, proxies)
			return nil
		},
	}
}

func newProxyAddCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var inactive bool

	cmd := &cobra.Command{
		Use:   "add ADDRESS",
		Short: "Add a proxy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			proxies, err := client.ListProxies()
			if err != nil {
				return err
			}
			for _, p := range proxies {
				if p.Address == args[0] {
					return fmt.Errorf("proxy %s already exists", args[0])
				}
			}

			proxies = append(proxies, ProxyResponse{Address: args[0], Active: !inactive})
			if err := client.PutProxies(proxies); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Proxy added: %s", args[0]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&inactive, "inactive", false, "Add the proxy as inactive")

	return cmd
}

func newProxyRemoveCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ADDRESS",
		Short: "Remove a proxy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			proxies, err := client.ListProxies()
			if err != nil {
				return err
			}

			kept := proxies[:0]
			for _, p := range proxies {
				if p.Address != args[0] {
					kept = append(kept, p)
				}
			}
			if len(kept) == len(proxies) {
				return fmt.Errorf("proxy %s not found", args[0])
			}

			if err := client.PutProxies(kept); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Proxy removed: %s", args[0]))
			return nil
		},
	}
}

// NewSettingsCmd создаёт группу команд для настроек движка.
func NewSettingsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage engine settings",
	}

	cmd.AddCommand(
		newSettingsShowCmd(clientFn, outputFn),
		newSettingsSetCmd(clientFn, outputFn),
	)

	return cmd
}

func newSettingsShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			settings, err := client.GetSettings()
			if err != nil {
				return err
			}

			out.Print(
				[]string{"PROXY_MODE", "LIMITER", "FORCE", "CHECKER", "WEBHOOK_ID"},
				[][]string{{
					settings.ProxyMode,
					strconv.FormatBool(settings.Limiter),
					strconv.FormatBool(settings.Force),
					strconv.FormatBool(settings.Checker),
					strconv.FormatUint(settings.Webhook.ID, 10),
				}},
				settings,
			)
			return nil
		},
	}
}

func newSettingsSetCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var proxyMode string
	var limiter, force, checker bool
	var webhookID uint64
	var webhookToken string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update settings, unchanged flags keep their current value",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			settings, err := client.GetSettings()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("proxy-mode") {
				settings.ProxyMode = proxyMode
			}
			if cmd.Flags().Changed("limiter") {
				settings.Limiter = limiter
			}
			if cmd.Flags().Changed("force") {
				settings.Force = force
			}
			if cmd.Flags().Changed("checker") {
				settings.Checker = checker
			}
			if cmd.Flags().Changed("webhook-id") {
				settings.Webhook.ID = webhookID
			}
			if cmd.Flags().Changed("webhook-token") {
				settings.Webhook.Token = webhookToken
			}

			if err := client.PutSettings(*settings); err != nil {
				return err
			}

			out.Success("Settings updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&proxyMode, "proxy-mode", "", "Proxy mode (Off, Repeat, Moderate, Strict)")
	cmd.Flags().BoolVar(&limiter, "limiter", false, "Delay between request attempts")
	cmd.Flags().BoolVar(&force, "force", false, "Clear dirty carts instead of failing")
	cmd.Flags().BoolVar(&checker, "checker", false, "Monitor order appearance after checkout")
	cmd.Flags().Uint64Var(&webhookID, "webhook-id", 0, "Discord webhook ID")
	cmd.Flags().StringVar(&webhookToken, "webhook-token", "", "Discord webhook token")

	return cmd
}
