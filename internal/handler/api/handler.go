package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"happ-seller-bot/internal/bot"
	"happ-seller-bot/internal/config"
	"happ-seller-bot/internal/middleware"
	"happ-seller-bot/internal/model"
	"happ-seller-bot/internal/repository"
	"happ-seller-bot/internal/service"
	"happ-seller-bot/internal/settings"
)

type UpdateHandler interface {
	HandleUpdate(ctx context.Context, u bot.Update) error
}

type Handler struct {
	orchestrator UpdateHandler
	store        *settings.Store
	repo         repository.Repository
	cfg          config.Env
}

func NewHandler(orchestrator UpdateHandler, store *settings.Store, repo repository.Repository, cfg config.Env) *Handler {
	return &Handler{orchestrator: orchestrator, store: store, repo: repo, cfg: cfg}
}

// --- Request/Response types ---

// WebhookInput takes the update as a raw body: the platform sends far
// more fields than the bot reads, so the payload is decoded leniently
// instead of schema-validated.
type WebhookInput struct {
	SecretToken string `header:"X-Telegram-Bot-Api-Secret-Token"`
	RawBody     []byte
}

type StatusOutput struct {
	Body struct {
		Status string `json:"status"`
	}
}

type LoginInput struct {
	Body struct {
		Username string `json:"username" required:"true"`
		Password string `json:"password" required:"true"`
	}
}

type LoginOutput struct {
	Body struct {
		Token string `json:"token"`
	}
}

type SettingInput struct {
	Key string `path:"key"`
}

type UpdateSettingInput struct {
	Key  string `path:"key"`
	Body struct {
		Value string `json:"value" required:"true"`
	}
}

type SettingOutput struct {
	Body model.Setting
}

type ChannelsOutput struct {
	Body struct {
		Channels []string `json:"channels"`
	}
}

type UpdateChannelsInput struct {
	Body struct {
		Channels []string `json:"channels" required:"true"`
	}
}

type ListDeliveriesInput struct {
	Limit int `query:"limit" default:"50" minimum:"1" maximum:"500"`
}

type DeliveriesOutput struct {
	Body []model.Delivery
}

// --- Register routes ---

func (h *Handler) RegisterRoutes(r chi.Router) {
	// Public endpoints
	r.Group(func(r chi.Router) {
		api := humachi.New(r, huma.DefaultConfig("Happ Seller Bot API", "1.0.0"))
		huma.Register(api, huma.Operation{
			OperationID: "telegram-webhook",
			Method:      http.MethodPost,
			Path:        "/webhook",
			Summary:     "Receive a bot update",
		}, h.webhook)
		if h.cfg.AdminEnabled() {
			huma.Register(api, huma.Operation{
				OperationID: "admin-login",
				Method:      http.MethodPost,
				Path:        "/api/admin/login",
				Summary:     "Admin login",
			}, h.adminLogin)
		}
	})

	if !h.cfg.AdminEnabled() {
		return
	}

	// Admin endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminTokenAuth)
		api := humachi.New(r, huma.DefaultConfig("Happ Seller Bot API", "1.0.0"))
		huma.Register(api, huma.Operation{
			OperationID: "get-setting",
			Method:      http.MethodGet,
			Path:        "/api/admin/settings/{key}",
			Summary:     "Read a panel setting",
		}, h.getSetting)
		huma.Register(api, huma.Operation{
			OperationID: "update-setting",
			Method:      http.MethodPut,
			Path:        "/api/admin/settings/{key}",
			Summary:     "Overwrite a panel setting",
		}, h.updateSetting)
		huma.Register(api, huma.Operation{
			OperationID: "get-channels",
			Method:      http.MethodGet,
			Path:        "/api/admin/channels",
			Summary:     "Read the broadcast channel list",
		}, h.getChannels)
		huma.Register(api, huma.Operation{
			OperationID: "update-channels",
			Method:      http.MethodPut,
			Path:        "/api/admin/channels",
			Summary:     "Replace the broadcast channel list",
		}, h.updateChannels)
		huma.Register(api, huma.Operation{
			OperationID: "list-deliveries",
			Method:      http.MethodGet,
			Path:        "/api/admin/deliveries",
			Summary:     "List recent delivery attempts",
		}, h.listDeliveries)
	})
}

// --- Handlers ---

func (h *Handler) webhook(ctx context.Context, input *WebhookInput) (*StatusOutput, error) {
	if h.cfg.WebhookSecret != "" &&
		subtle.ConstantTimeCompare([]byte(input.SecretToken), []byte(h.cfg.WebhookSecret)) != 1 {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	var update bot.Update
	if err := json.Unmarshal(input.RawBody, &update); err != nil {
		return nil, huma.Error400BadRequest("malformed update")
	}
	if err := h.orchestrator.HandleUpdate(ctx, update); err != nil {
		return nil, huma.Error500InternalServerError(err.Error())
	}

	resp := &StatusOutput{}
	resp.Body.Status = "ok"
	return resp, nil
}

func (h *Handler) adminLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	token, err := service.AdminLogin(input.Body.Username, input.Body.Password, h.cfg.AdminUser, h.cfg.AdminPassHash)
	if err != nil {
		return nil, toHumaError(err)
	}
	resp := &LoginOutput{}
	resp.Body.Token = token
	return resp, nil
}

func (h *Handler) getSetting(ctx context.Context, input *SettingInput) (*SettingOutput, error) {
	value, err := h.store.Scalar(ctx, input.Key)
	if err != nil {
		return nil, huma.Error404NotFound("not found")
	}
	return &SettingOutput{Body: model.Setting{Key: input.Key, Value: value}}, nil
}

func (h *Handler) updateSetting(ctx context.Context, input *UpdateSettingInput) (*StatusOutput, error) {
	if err := service.UpdateSetting(ctx, h.store, input.Key, input.Body.Value); err != nil {
		return nil, toHumaError(err)
	}
	resp := &StatusOutput{}
	resp.Body.Status = "ok"
	return resp, nil
}

func (h *Handler) getChannels(ctx context.Context, input *struct{}) (*ChannelsOutput, error) {
	channels, err := h.store.Channels(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}
	resp := &ChannelsOutput{}
	resp.Body.Channels = channels
	return resp, nil
}

func (h *Handler) updateChannels(ctx context.Context, input *UpdateChannelsInput) (*StatusOutput, error) {
	if err := service.UpdateChannels(ctx, h.store, input.Body.Channels); err != nil {
		return nil, toHumaError(err)
	}
	resp := &StatusOutput{}
	resp.Body.Status = "ok"
	return resp, nil
}

func (h *Handler) listDeliveries(ctx context.Context, input *ListDeliveriesInput) (*DeliveriesOutput, error) {
	deliveries, err := h.repo.ListDeliveries(ctx, input.Limit)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &DeliveriesOutput{Body: deliveries}, nil
}

func toHumaError(err error) error {
	if service.IsValidation(err) {
		return huma.Error400BadRequest(err.Error())
	}
	if service.IsNotFound(err) {
		return huma.Error404NotFound("not found")
	}
	if service.IsAuth(err) {
		return huma.Error401Unauthorized("unauthorized")
	}
	return huma.Error500InternalServerError(err.Error())
}
