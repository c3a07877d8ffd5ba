package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/invmis/internal/config"
	"github.com/mamadbah2/invmis/internal/domain/models"
	"github.com/mamadbah2/invmis/internal/service/commands"
)

type stubDispatcher struct {
	reply string
	err   error
	seen  []models.Command
}

func (s *stubDispatcher) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.seen = append(s.seen, cmd)
	return s.reply, s.err
}

type stubClient struct {
	to, body string
	calls    int
	err      error
}

func (s *stubClient) SendText(ctx context.Context, to, body string) (string, error) {
	s.calls++
	s.to, s.body = to, body
	return "wamid.1", s.err
}

func payload(messages ...models.InboundMessage) models.WebhookPayload {
	return models.WebhookPayload{Entry: []models.WebhookEntry{{
		Changes: []models.WebhookChange{{Value: models.WebhookValue{Messages: messages}}},
	}}}
}

func textMessage(from, body string) models.InboundMessage {
	return models.InboundMessage{From: from, ID: "m-" + from, Type: "text", Text: &models.TextContent{Body: body}}
}

func TestVerifyWebhookToken(t *testing.T) {
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{VerifyToken: "secret"}, &stubClient{}, &stubDispatcher{}, nil)

	challenge, err := svc.VerifyWebhookToken("subscribe", "secret", "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", challenge)

	_, err = svc.VerifyWebhookToken("", "secret", "abc")
	assert.Error(t, err)
	_, err = svc.VerifyWebhookToken("unsubscribe", "secret", "abc")
	assert.Error(t, err)
	_, err = svc.VerifyWebhookToken("subscribe", "nope", "abc")
	assert.Error(t, err)
}

func TestHandleWebhook_RepliesToSender(t *testing.T) {
	client := &stubClient{}
	dispatcher := &stubDispatcher{reply: "Stock levels"}
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{}, client, dispatcher, nil)

	require.NoError(t, svc.HandleWebhook(context.Background(), payload(textMessage("92300", "levels"))))

	require.Len(t, dispatcher.seen, 1)
	assert.Equal(t, models.CommandLevels, dispatcher.seen[0].Type)
	assert.Equal(t, "92300", client.to)
	assert.Equal(t, "Stock levels", client.body)
}

func TestHandleWebhook_InvalidArgumentsEchoed(t *testing.T) {
	client := &stubClient{}
	dispatcher := &stubDispatcher{err: fmt.Errorf("%w: status needs an item code", commands.ErrInvalidArguments)}
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{}, client, dispatcher, nil)

	require.NoError(t, svc.HandleWebhook(context.Background(), payload(textMessage("92300", "status"))))
	assert.Equal(t, "invalid command arguments: status needs an item code", client.body)
}

func TestHandleWebhook_SourceFailureGetsFallback(t *testing.T) {
	client := &stubClient{}
	dispatcher := &stubDispatcher{err: errors.New("list stock: timeout")}
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{}, client, dispatcher, nil)

	require.NoError(t, svc.HandleWebhook(context.Background(), payload(textMessage("92300", "alerts"))))
	assert.Equal(t, fallbackReply, client.body)
}

func TestHandleWebhook_SkipsNonTextAndReportsSendFailure(t *testing.T) {
	client := &stubClient{err: errors.New("rate limited")}
	dispatcher := &stubDispatcher{reply: "ok"}
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{}, client, dispatcher, nil)

	image := models.InboundMessage{From: "1", ID: "img", Type: "image"}
	err := svc.HandleWebhook(context.Background(), payload(image, textMessage("2", "help"), textMessage("3", "help")))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reply to 2")
	assert.Equal(t, 2, client.calls)
	assert.Len(t, dispatcher.seen, 2)
}
