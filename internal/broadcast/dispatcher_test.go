package broadcast

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"happ-seller-bot/internal/infra"
	"happ-seller-bot/internal/model"
	"happ-seller-bot/internal/repository"
	"happ-seller-bot/internal/telegram"
)

type fakeMessenger struct {
	sent    []telegram.Message
	failFor map[string]error
}

func (f *fakeMessenger) SendMessage(_ context.Context, msg telegram.Message) error {
	f.sent = append(f.sent, msg)
	return f.failFor[msg.ChatID]
}

type staticChannels []string

func (s staticChannels) Channels(context.Context) ([]string, error) {
	return s, nil
}

func newTestRepo(t *testing.T) repository.Repository {
	t.Helper()
	db, err := infra.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Delivery{}))
	return repository.NewGormRepository(db)
}

func TestFanOutIsolation(t *testing.T) {
	tg := &fakeMessenger{failFor: map[string]error{"@B": errors.New("blocked")}}
	repo := newTestRepo(t)
	d := NewDispatcher(tg, staticChannels{"@A", "@B", "@C"}, repo)

	err := d.SendToChannels(context.Background(), "happ://xyz")
	require.NoError(t, err, "a failed channel must not fail the fan-out")

	var recipients []string
	for _, msg := range tg.sent {
		recipients = append(recipients, msg.ChatID)
	}
	assert.Equal(t, []string{"@A", "@B", "@C"}, recipients)

	deliveries, err := repo.ListDeliveries(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, deliveries, 3)
	failed := 0
	for _, del := range deliveries {
		assert.Equal(t, model.DeliveryChannel, del.Kind)
		if !del.OK {
			failed++
			assert.Equal(t, "@B", del.Recipient)
			assert.Contains(t, del.Error, "blocked")
		}
	}
	assert.Equal(t, 1, failed)
}

func TestChannelMessageEscapesArtifact(t *testing.T) {
	tg := &fakeMessenger{}
	d := NewDispatcher(tg, staticChannels{"@chan"}, newTestRepo(t))

	require.NoError(t, d.SendToChannels(context.Background(), "<script>&</script>"))

	require.Len(t, tg.sent, 1)
	msg := tg.sent[0]
	assert.Equal(t, telegram.ParseModeHTML, msg.ParseMode)
	assert.Contains(t, msg.Text, "&lt;script&gt;&amp;&lt;/script&gt;")
	assert.NotContains(t, msg.Text, "<script>")
	assert.Contains(t, msg.Text, "@chan")
	assert.True(t, msg.DisableWebPagePreview)
}

func TestSendPrivate(t *testing.T) {
	tg := &fakeMessenger{}
	repo := newTestRepo(t)
	d := NewDispatcher(tg, staticChannels{}, repo)

	require.NoError(t, d.SendPrivate(context.Background(), "42", "happ://a&b"))

	require.Len(t, tg.sent, 1)
	assert.Equal(t, "42", tg.sent[0].ChatID)
	assert.Contains(t, tg.sent[0].Text, "<pre>happ://a&amp;b</pre>")

	deliveries, err := repo.ListDeliveries(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, model.DeliveryPrivate, deliveries[0].Kind)
	assert.True(t, deliveries[0].OK)
}
