package dispatch

import (
	"strings"

	"cmuxterm/internal/config"
)

// isAllowedV1 gates v1 verbs by access mode (spec §4.5): `off` refuses
// everything except the handshake `ping`; `notifications_only` additionally
// permits `help`, notification verbs and the read-only notification list;
// `full` permits everything.
func isAllowedV1(mode config.AccessMode, verb string) bool {
	switch mode {
	case config.AccessFull:
		return true
	case config.AccessNotificationsOnly:
		switch verb {
		case "ping", "help", "list_notifications", "clear_notifications", "claude_hook":
			return true
		}
		return strings.HasPrefix(verb, "notify")
	default: // AccessOff
		return verb == "ping"
	}
}

// isAllowedV2 gates v2 methods: the dotted namespace (system/window/
// workspace/pane/surface/browser) has no notification-only equivalent, so
// anything less than full access refuses every v2 call (spec §4.5).
func isAllowedV2(mode config.AccessMode) bool {
	return mode == config.AccessFull
}
