package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"happ-seller-bot/internal/config"
	"happ-seller-bot/internal/happ"
	"happ-seller-bot/internal/infra"
	"happ-seller-bot/internal/marzban"
	"happ-seller-bot/internal/model"
	"happ-seller-bot/internal/provision"
	"happ-seller-bot/internal/repository"
	"happ-seller-bot/internal/settings"
)

// NewProvisionCommand runs one provisioning cycle from the terminal
// and prints the encoded code, without touching the messaging
// platform.
func NewProvisionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Provision the shared account and print its code",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadEnv()
			if err != nil {
				return err
			}

			db, err := infra.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			if err := db.AutoMigrate(&model.Setting{}); err != nil {
				return err
			}

			store := settings.NewStore(repository.NewGormRepository(db))
			provisioner := provision.New(marzban.NewClient(store))

			subURL, err := provisioner.Provision(cmd.Context(), provision.AccountID)
			if err != nil {
				return err
			}

			code := happ.NewEncoder("").Encode(cmd.Context(), subURL)
			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		},
	}
	return cmd
}
