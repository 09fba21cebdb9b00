package cli

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"happ-seller-bot/internal/bot"
	"happ-seller-bot/internal/broadcast"
	"happ-seller-bot/internal/config"
	apiHandler "happ-seller-bot/internal/handler/api"
	"happ-seller-bot/internal/happ"
	"happ-seller-bot/internal/infra"
	"happ-seller-bot/internal/marzban"
	"happ-seller-bot/internal/model"
	"happ-seller-bot/internal/provision"
	"happ-seller-bot/internal/repository"
	"happ-seller-bot/internal/service"
	"happ-seller-bot/internal/settings"
	"happ-seller-bot/internal/telegram"
)

func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadEnv()
			if err != nil {
				return err
			}
			if cfg.AdminEnabled() {
				service.InitJWT(cfg.JWTSecret)
			}

			db, err := infra.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			if err := db.AutoMigrate(&model.Setting{}, &model.Delivery{}); err != nil {
				return err
			}

			repo := repository.NewGormRepository(db)
			store := settings.NewStore(repo)
			panel := marzban.NewClient(store)
			provisioner := provision.New(panel)
			encoder := happ.NewEncoder("")
			tg := telegram.NewClient("", cfg.BotToken)
			dispatcher := broadcast.NewDispatcher(tg, store, repo)
			orchestrator := bot.New(provisioner, encoder, dispatcher)

			h := apiHandler.NewHandler(orchestrator, store, repo, cfg)

			r := chi.NewRouter()
			r.Use(chimw.RequestID)
			r.Use(chimw.RealIP)
			r.Use(chimw.Logger)
			r.Use(chimw.Recoverer)

			r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})

			h.RegisterRoutes(r)

			log.Printf("sellerbot listening on %s", cfg.ListenAddr)
			return http.ListenAndServe(cfg.ListenAddr, r)
		},
	}
	return cmd
}
