package service

import (
	"context"

	"github.com/go-playground/validator/v10"

	"happ-seller-bot/internal/settings"
)

var validate = validator.New()

type updateSettingRequest struct {
	Key   string `validate:"required,oneof=marzban_url admin_user admin_pass"`
	Value string `validate:"required"`
}

type updateChannelsRequest struct {
	Channels []string `validate:"required,min=1,dive,required,startswith=@"`
}

// UpdateSetting overwrites one of the scalar panel settings.
func UpdateSetting(ctx context.Context, store *settings.Store, key, value string) error {
	req := updateSettingRequest{Key: key, Value: value}
	if err := validate.Struct(req); err != nil {
		return ValidationError{Msg: err.Error()}
	}
	if key == settings.KeyPanelURL {
		if err := validate.Var(value, "url"); err != nil {
			return ValidationError{Msg: "marzban_url must be a URL"}
		}
	}
	return store.Put(ctx, key, value)
}

// UpdateChannels replaces the broadcast channel list. Order is
// preserved as given.
func UpdateChannels(ctx context.Context, store *settings.Store, channels []string) error {
	req := updateChannelsRequest{Channels: channels}
	if err := validate.Struct(req); err != nil {
		return ValidationError{Msg: err.Error()}
	}
	return store.PutChannels(ctx, channels)
}
