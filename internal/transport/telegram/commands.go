package telegram

import (
	"github.com/NordCoder/Pingwatch/internal/services/registry"
)

const (
	usageWatch   = "Usage: /watch <up|down> <url>"
	usageUnwatch = "Usage: /unwatch <url>"
)

// parseCommand turns a slash command and its whitespace-split arguments into
// a registry command. When the arguments don't fit, it returns the usage
// line to send back instead.
func parseCommand(name string, args []string) (registry.Command, string) {
	switch name {
	case "help", "start":
		return registry.Help{}, ""
	case "watch":
		if len(args) != 2 {
			return nil, usageWatch
		}
		return registry.Watch{Status: args[0], URL: args[1]}, ""
	case "unwatch":
		if len(args) != 1 {
			return nil, usageUnwatch
		}
		return registry.Unwatch{URL: args[0]}, ""
	case "list":
		return registry.List{}, ""
	case "clear":
		return registry.Clear{}, ""
	default:
		return registry.Help{}, ""
	}
}
