package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/invmis/internal/config"
)

func newClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.WhatsAppConfig{
		AccessToken:   "token",
		PhoneNumberID: "1234",
		BaseURL:       srv.URL + "/",
		APIVersion:    "v20.0",
	})
}

func TestSendText(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v20.0/1234/messages", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		var payload textMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "whatsapp", payload.MessagingProduct)
		assert.Equal(t, "923001234567", payload.To)
		assert.Equal(t, "stock digest", payload.Text.Body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.abc"}]}`))
	})

	id, err := client.SendText(context.Background(), "923001234567", "stock digest")
	require.NoError(t, err)
	assert.Equal(t, "wamid.abc", id)
}

func TestSendText_TruncatesLongBody(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		var payload textMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Len(t, []rune(payload.Text.Body), maxBodyLength)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[]}`))
	})

	_, err := client.SendText(context.Background(), "1", strings.Repeat("x", maxBodyLength+50))
	require.NoError(t, err)
}

func TestSendText_APIError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid parameter","code":100}}`))
	})

	_, err := client.SendText(context.Background(), "1", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code=100")
	assert.Contains(t, err.Error(), "Invalid parameter")
}

func TestSendText_RequiresRecipient(t *testing.T) {
	client := NewClient(config.WhatsAppConfig{BaseURL: "http://unused", APIVersion: "v20.0"})
	_, err := client.SendText(context.Background(), "", "hi")
	assert.Error(t, err)
}
