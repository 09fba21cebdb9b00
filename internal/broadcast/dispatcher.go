// Package broadcast delivers the encoded subscription code to the
// private requester and to the configured public channels.
package broadcast

import (
	"context"
	"fmt"
	"log"

	"happ-seller-bot/internal/model"
	"happ-seller-bot/internal/repository"
	"happ-seller-bot/internal/telegram"
)

type Messenger interface {
	SendMessage(ctx context.Context, msg telegram.Message) error
}

// ChannelSettings supplies the ordered broadcast destination list.
type ChannelSettings interface {
	Channels(ctx context.Context) ([]string, error)
}

type Dispatcher struct {
	tg       Messenger
	settings ChannelSettings
	repo     repository.Repository
}

func NewDispatcher(tg Messenger, settings ChannelSettings, repo repository.Repository) *Dispatcher {
	return &Dispatcher{tg: tg, settings: settings, repo: repo}
}

// SendAck tells the private requester that provisioning has started.
func (d *Dispatcher) SendAck(ctx context.Context, chatID string) error {
	return d.tg.SendMessage(ctx, telegram.Message{
		ChatID:                chatID,
		Text:                  "⏳ Creating subscription...",
		DisableWebPagePreview: true,
	})
}

// SendFailure tells the private requester that provisioning failed.
func (d *Dispatcher) SendFailure(ctx context.Context, chatID string) error {
	return d.tg.SendMessage(ctx, telegram.Message{
		ChatID:                chatID,
		Text:                  "❌ Error",
		DisableWebPagePreview: true,
	})
}

// SendPrivate delivers the code to the requester.
func (d *Dispatcher) SendPrivate(ctx context.Context, chatID, artifact string) error {
	msg := telegram.Message{
		ChatID:                chatID,
		Text:                  "✅ Subscription ready\n\n<pre>" + telegram.EscapeHTML(artifact) + "</pre>",
		ParseMode:             telegram.ParseModeHTML,
		DisableWebPagePreview: true,
	}
	err := d.tg.SendMessage(ctx, msg)
	d.record(ctx, model.DeliveryPrivate, chatID, err)
	return err
}

// SendToChannels fans the code out to every configured channel in
// list order. Each send is isolated: a failed channel is logged and
// recorded, and the remaining channels are still attempted. Only a
// settings-store failure aborts the fan-out.
func (d *Dispatcher) SendToChannels(ctx context.Context, artifact string) error {
	channels, err := d.settings.Channels(ctx)
	if err != nil {
		return fmt.Errorf("broadcast channels: %w", err)
	}
	for _, channel := range channels {
		sendErr := d.tg.SendMessage(ctx, channelMessage(channel, artifact))
		if sendErr != nil {
			log.Printf("broadcast to %s: %v", channel, sendErr)
		}
		d.record(ctx, model.DeliveryChannel, channel, sendErr)
	}
	return nil
}

func channelMessage(channel, artifact string) telegram.Message {
	text := fmt.Sprintf(`
<pre>%s</pre>

<b>😎 Happ VPN</b>
<b>💻 Device:</b> Android 📱 | iOS 🌟
<b>☄️ Ping:</b> 100–300 ms

<pre>Спасибо ❤️
Поделитесь кодом с друзьями 👑</pre>

<b>✈️ %s</b>
`, telegram.EscapeHTML(artifact), telegram.EscapeHTML(channel))
	return telegram.Message{
		ChatID:                channel,
		Text:                  text,
		ParseMode:             telegram.ParseModeHTML,
		DisableWebPagePreview: true,
	}
}

func (d *Dispatcher) record(ctx context.Context, kind, recipient string, sendErr error) {
	entry := model.NewDelivery(kind, recipient, sendErr)
	if err := d.repo.CreateDelivery(ctx, &entry); err != nil {
		log.Printf("record delivery to %s: %v", recipient, err)
	}
}
