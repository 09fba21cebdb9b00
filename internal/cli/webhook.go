package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"happ-seller-bot/internal/config"
	"happ-seller-bot/internal/telegram"
)

// NewSetWebhookCommand registers the bot's webhook URL with the
// platform, attaching the configured secret token if any.
func NewSetWebhookCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-webhook <url>",
		Short: "Register the webhook URL with the platform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadEnv()
			if err != nil {
				return err
			}

			tg := telegram.NewClient("", cfg.BotToken)
			if err := tg.SetWebhook(cmd.Context(), args[0], cfg.WebhookSecret); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "webhook set to %s\n", args[0])
			return nil
		},
	}
	return cmd
}
