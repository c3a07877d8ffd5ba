package models

import "strings"

// CommandType enumerates the stock queries accepted over chat.
type CommandType string

const (
	CommandAlerts  CommandType = "alerts"
	CommandLevels  CommandType = "levels"
	CommandStatus  CommandType = "status"
	CommandHelp    CommandType = "help"
	CommandUnknown CommandType = "unknown"
)

// Command represents a parsed query extracted from an inbound text message.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages.
// Arguments keep their original case so item codes survive.
func ParseCommand(message string) Command {
	tokens := strings.Fields(message)
	cmd := Command{Raw: message}

	if len(tokens) == 0 {
		cmd.Type = CommandUnknown
		return cmd
	}

	head := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	switch head {
	case string(CommandAlerts), "alert":
		cmd.Type = CommandAlerts
	case string(CommandLevels), "level":
		cmd.Type = CommandLevels
	case string(CommandStatus), "item":
		cmd.Type = CommandStatus
	case string(CommandHelp), "?":
		cmd.Type = CommandHelp
	default:
		cmd.Type = CommandUnknown
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
