// Package settings exposes the bot's persisted configuration
// namespace. Every read carries a built-in default: a missing key is
// seeded with the default and persisted immediately, so the store is
// usable on a completely empty database.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"happ-seller-bot/internal/model"
	"happ-seller-bot/internal/repository"
)

// Setting keys.
const (
	KeyPanelURL  = "marzban_url"
	KeyPanelUser = "admin_user"
	KeyPanelPass = "admin_pass"
	KeyChannels  = "channels"
)

// Built-in defaults, seeded on first read.
const (
	DefaultPanelURL  = "http://89.23.97.127:3286"
	DefaultPanelUser = "05"
	DefaultPanelPass = "05"
)

var DefaultChannels = []string{"@HappService", "@MasakoffVpns"}

var scalarDefaults = map[string]string{
	KeyPanelURL:  DefaultPanelURL,
	KeyPanelUser: DefaultPanelUser,
	KeyPanelPass: DefaultPanelPass,
}

type Store struct {
	repo repository.Repository
}

func NewStore(repo repository.Repository) *Store {
	return &Store{repo: repo}
}

// String returns the persisted value for key, seeding and returning
// def if the key has never been written.
func (s *Store) String(ctx context.Context, key, def string) (string, error) {
	setting, err := s.repo.GetSetting(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		seed := model.Setting{Key: key, Value: def}
		if err := s.repo.PutSetting(ctx, &seed); err != nil {
			return "", fmt.Errorf("seed setting %s: %w", key, err)
		}
		return def, nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return setting.Value, nil
}

// StringList reads a JSON-array setting, seeding def on first access.
// Element order is preserved.
func (s *Store) StringList(ctx context.Context, key string, def []string) ([]string, error) {
	encoded, err := json.Marshal(def)
	if err != nil {
		return nil, err
	}
	raw, err := s.String(ctx, key, string(encoded))
	if err != nil {
		return nil, err
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("setting %s: %w", key, err)
	}
	return out, nil
}

// Scalar reads one of the known scalar settings with its built-in
// default.
func (s *Store) Scalar(ctx context.Context, key string) (string, error) {
	def, ok := scalarDefaults[key]
	if !ok {
		return "", fmt.Errorf("unknown setting %q", key)
	}
	return s.String(ctx, key, def)
}

func (s *Store) PanelURL(ctx context.Context) (string, error) {
	return s.String(ctx, KeyPanelURL, DefaultPanelURL)
}

func (s *Store) PanelAdminUser(ctx context.Context) (string, error) {
	return s.String(ctx, KeyPanelUser, DefaultPanelUser)
}

func (s *Store) PanelAdminPass(ctx context.Context) (string, error) {
	return s.String(ctx, KeyPanelPass, DefaultPanelPass)
}

func (s *Store) Channels(ctx context.Context) ([]string, error) {
	return s.StringList(ctx, KeyChannels, DefaultChannels)
}

// Put overwrites a setting. Used by the administrative API only; the
// provisioning flow never writes except to seed defaults.
func (s *Store) Put(ctx context.Context, key, value string) error {
	return s.repo.PutSetting(ctx, &model.Setting{Key: key, Value: value})
}

// PutChannels overwrites the broadcast channel list.
func (s *Store) PutChannels(ctx context.Context, channels []string) error {
	encoded, err := json.Marshal(channels)
	if err != nil {
		return err
	}
	return s.Put(ctx, KeyChannels, string(encoded))
}
