// Package bot sequences one trigger: provision the shared account,
// encode its subscription URL, distribute the result.
package bot

import (
	"context"
	"log"
	"strconv"

	"happ-seller-bot/internal/provision"
)

const (
	startCommand    = "/start"
	chatTypePrivate = "private"
)

// Update is the inbound webhook payload, reduced to the fields the
// bot acts on.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

type Message struct {
	Text string `json:"text"`
	Chat Chat   `json:"chat"`
}

type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

type Provisioner interface {
	Provision(ctx context.Context, accountID string) (string, error)
}

type Encoder interface {
	Encode(ctx context.Context, subURL string) string
}

type Dispatcher interface {
	SendAck(ctx context.Context, chatID string) error
	SendFailure(ctx context.Context, chatID string) error
	SendPrivate(ctx context.Context, chatID, artifact string) error
	SendToChannels(ctx context.Context, artifact string) error
}

type Orchestrator struct {
	provisioner Provisioner
	encoder     Encoder
	dispatcher  Dispatcher
}

func New(provisioner Provisioner, encoder Encoder, dispatcher Dispatcher) *Orchestrator {
	return &Orchestrator{
		provisioner: provisioner,
		encoder:     encoder,
		dispatcher:  dispatcher,
	}
}

// HandleUpdate processes one inbound update. Anything that is not a
// "/start" message is dropped without side effects. Private chats get
// acknowledgement and result messages; channel broadcast happens for
// every trigger regardless of where it came from.
func (o *Orchestrator) HandleUpdate(ctx context.Context, u Update) error {
	if u.Message == nil || u.Message.Text != startCommand {
		return nil
	}

	chatID := strconv.FormatInt(u.Message.Chat.ID, 10)
	isPrivate := u.Message.Chat.Type == chatTypePrivate

	if isPrivate {
		if err := o.dispatcher.SendAck(ctx, chatID); err != nil {
			log.Printf("ack to %s: %v", chatID, err)
		}
	}

	subURL, err := o.provisioner.Provision(ctx, provision.AccountID)
	if err != nil {
		// Terminal for this trigger: no encoding, no broadcast.
		log.Printf("provision: %v", err)
		if isPrivate {
			if err := o.dispatcher.SendFailure(ctx, chatID); err != nil {
				log.Printf("failure notice to %s: %v", chatID, err)
			}
		}
		return nil
	}

	artifact := o.encoder.Encode(ctx, subURL)

	if isPrivate {
		if err := o.dispatcher.SendPrivate(ctx, chatID, artifact); err != nil {
			log.Printf("private reply to %s: %v", chatID, err)
		}
	}

	return o.dispatcher.SendToChannels(ctx, artifact)
}
