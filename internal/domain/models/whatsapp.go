package models

// WebhookPayload mirrors the structure sent by Meta's WhatsApp Cloud API webhook callbacks.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

// WebhookEntry represents one entry payload within the webhook body.
type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

// WebhookChange captures the actual notification contents.
type WebhookChange struct {
	Value WebhookValue `json:"value"`
	Field string       `json:"field"`
}

// WebhookValue carries the messages of one change. Delivery receipts arrive
// in the same envelope and are ignored.
type WebhookValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Messages         []InboundMessage `json:"messages"`
}

// InboundMessage is a message sent by a storekeeper.
type InboundMessage struct {
	From        string              `json:"from"`
	ID          string              `json:"id"`
	Type        string              `json:"type"`
	Text        *TextContent        `json:"text,omitempty"`
	Interactive *InteractiveContent `json:"interactive,omitempty"`
}

// TextContent contains text messages body.
type TextContent struct {
	Body string `json:"body"`
}

// InteractiveContent represents button/list replies.
type InteractiveContent struct {
	Type        string      `json:"type"`
	ButtonReply *ReplyValue `json:"button_reply,omitempty"`
	ListReply   *ReplyValue `json:"list_reply,omitempty"`
}

// ReplyValue is the id and title of a pressed button or chosen list row.
type ReplyValue struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Body returns the query text carried by the message, if any. Button and
// list replies answer with their id.
func (m InboundMessage) Body() string {
	if m.Text != nil {
		return m.Text.Body
	}
	if m.Interactive != nil {
		if m.Interactive.ButtonReply != nil {
			return m.Interactive.ButtonReply.ID
		}
		if m.Interactive.ListReply != nil {
			return m.Interactive.ListReply.ID
		}
	}
	return ""
}
