package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"happ-seller-bot/internal/cli"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "sellerbot",
		Short:         "Happ subscription seller bot",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		cli.NewServeCommand(),
		cli.NewProvisionCommand(),
		cli.NewSetWebhookCommand(),
		cli.NewHashPasswordCommand(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
