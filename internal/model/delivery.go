package model

import (
	"time"

	"github.com/google/uuid"
)

// Delivery kinds.
const (
	DeliveryPrivate = "private"
	DeliveryChannel = "channel"
)

// Delivery is an audit record of one outbound message attempt.
type Delivery struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Kind      string    `gorm:"column:kind;index" json:"kind"`
	Recipient string    `gorm:"column:recipient;index" json:"recipient"`
	OK        bool      `gorm:"column:ok" json:"ok"`
	Error     string    `gorm:"column:error" json:"error,omitempty"`
	Timestamp time.Time `gorm:"column:timestamp;index" json:"timestamp"`
}

func NewDelivery(kind, recipient string, sendErr error) Delivery {
	d := Delivery{
		ID:        uuid.NewString(),
		Kind:      kind,
		Recipient: recipient,
		OK:        sendErr == nil,
		Timestamp: time.Now(),
	}
	if sendErr != nil {
		d.Error = sendErr.Error()
	}
	return d
}

func (Delivery) TableName() string {
	return "deliveries"
}
