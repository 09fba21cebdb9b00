package repository

import (
	"context"
	"errors"

	"happ-seller-bot/internal/model"
)

var ErrNotFound = errors.New("not found")

type Repository interface {
	GetSetting(ctx context.Context, key string) (model.Setting, error)
	PutSetting(ctx context.Context, s *model.Setting) error

	CreateDelivery(ctx context.Context, d *model.Delivery) error
	ListDeliveries(ctx context.Context, limit int) ([]model.Delivery, error)
}
