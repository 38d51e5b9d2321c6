package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	messages []Message
	err      error
}

func (r *recorder) Notify(_ context.Context, msg Message) error {
	r.messages = append(r.messages, msg)
	return r.err
}

type fakeBot struct {
	chatID, text string
	err          error
}

func (b *fakeBot) SendMessage(_ context.Context, chatID, text string) error {
	b.chatID, b.text = chatID, text
	return b.err
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	err := NewLogNotifier(logger).Notify(context.Background(), Message{
		Kind:      KindReminder,
		Recipient: "student@asu.edu",
		Subject:   "Reminder: Lemonade Day Concert",
		Body:      "Lemonade Day Concert on 2023-11-15",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"kind":"reminder"`)
	assert.Contains(t, buf.String(), "student@asu.edu")
}

func TestMultiDeliversToAll(t *testing.T) {
	ok := &recorder{}
	failing := &recorder{err: errors.New("boom")}

	err := Multi{failing, ok}.Notify(context.Background(), Message{Kind: KindRSVP, Body: "joined"})
	assert.ErrorContains(t, err, "boom")
	assert.Len(t, ok.messages, 1)
	assert.Len(t, failing.messages, 1)

	assert.NoError(t, Multi{}.Notify(context.Background(), Message{}))
}

func TestTelegramNotifier(t *testing.T) {
	bot := &fakeBot{}
	n := NewTelegramNotifier(bot, "chat-1")

	require.NoError(t, n.Notify(context.Background(), Message{Subject: "RSVP Confirmed!", Body: "You're registered."}))
	assert.Equal(t, "chat-1", bot.chatID)
	assert.Equal(t, "RSVP Confirmed!\n\nYou're registered.", bot.text)

	bot.err = errors.New("down")
	assert.ErrorContains(t, n.Notify(context.Background(), Message{Body: "x"}), "telegram notification failed")
}
