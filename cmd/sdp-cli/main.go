// SDP CLI — инструмент командной строки для управления движком
// покупок через HTTP API и лицензией через сервис активаций.
//
// Использование:
//
//	sdp [--api-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	task      Управление задачами
//	account   Управление аккаунтами
//	proxy     Управление прокси
//	settings  Настройки движка
//	license   Активация лицензии
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Very1Fake/sdp.wildberries/internal/activation"
	"github.com/Very1Fake/sdp.wildberries/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

// licensePublicKey — публичный ключ сервиса активаций.
const licensePublicKey = `-----BEGIN PUBLIC KEY-----
MIIBIjANBgkqhkiG9w0BAQEFAAOCAQ8AMIIBCgKCAQEAkAprFrijXEUpPBegb3id
C6ehgMOpESSS58tGRbPlJfBar5cniPzq9NfbKjmFXnNO3mTgh1jbheJ098218nnT
kbOvx0F9aedTQ2s4h4cUfSct6kKWbcEKldGit2ZSHU0bj0XKeXQCx7eMaw/oCiPG
RX13yoLn4sg8+xPe6fjj7DenZHxCsuz0QdhcGRf2+9Y/j4fHYPsuCmi/c+6t39H1
8TKCM7hf4sZbyUIwWXHy9E0gdoHtJp2/jypC5Mc+aFE2NSv4wd4d2U5pXRTHDGyz
MfRn9cp0DupUrH1ymgC1Q0MzLJQXOuTKGO/WPeDBqyBMkhFbEMB3Q7533KUQs/s2
AwIDAQAB
-----END PUBLIC KEY-----`

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "sdp",
		Short:         "SDP CLI — checkout automation tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "Engine API URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	serviceFn := func() (*activation.Service, error) {
		return activation.NewService(activation.Config{
			PublicKeyPEM: []byte(licensePublicKey),
			Version:      version,
		})
	}
	tokenPathFn := func() string {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		return filepath.Join(dir, "sdp", "activation.token")
	}

	rootCmd.AddCommand(
		cli.NewTaskCmd(clientFn, outputFn),
		cli.NewAccountCmd(clientFn, outputFn),
		cli.NewProxyCmd(clientFn, outputFn),
		cli.NewSettingsCmd(clientFn, outputFn),
		cli.NewActivateCmd(serviceFn, tokenPathFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
