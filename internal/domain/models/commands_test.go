package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		message string
		want    CommandType
		args    []string
	}{
		{message: "/alerts critical", want: CommandAlerts, args: []string{"critical"}},
		{message: "Alert", want: CommandAlerts},
		{message: "levels low stock", want: CommandLevels, args: []string{"low", "stock"}},
		{message: "status INK-01", want: CommandStatus, args: []string{"INK-01"}},
		{message: "  help  ", want: CommandHelp},
		{message: "hello there", want: CommandUnknown, args: []string{"there"}},
		{message: "   ", want: CommandUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			cmd := ParseCommand(tt.message)
			assert.Equal(t, tt.want, cmd.Type)
			assert.Equal(t, tt.args, cmd.Args)
			assert.Equal(t, tt.message, cmd.Raw)
		})
	}
}

func TestInboundMessageBody(t *testing.T) {
	assert.Equal(t, "alerts", InboundMessage{Text: &TextContent{Body: "alerts"}}.Body())
	assert.Equal(t, "levels", InboundMessage{Interactive: &InteractiveContent{ButtonReply: &ReplyValue{ID: "levels"}}}.Body())
	assert.Equal(t, "help", InboundMessage{Interactive: &InteractiveContent{ListReply: &ReplyValue{ID: "help"}}}.Body())
	assert.Empty(t, InboundMessage{Type: "image"}.Body())
}
