package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// runClaudeHook implements `cmux claude-hook <session-start|stop|notification>`
// (spec §4.9 step 5): it reads stdin, parses it as JSON best-effort, and
// forwards the event name plus raw payload as a single `claude_hook` v1 RPC
// rather than issuing the C8/status/notification calls itself (see
// DESIGN.md's "CLI claude-hook verb" decision — the classification and
// duplicate-suppression logic in internal/claudehook must run once, inside
// cmuxd, not be duplicated here).
func runClaudeHook(opts globalOpts, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "claude-hook requires an event: session-start, stop or notification")
		return 1
	}
	event := args[0]
	switch event {
	case "session-start", "stop", "notification":
	default:
		fmt.Fprintf(os.Stderr, "unknown claude-hook event %q\n", event)
		return 1
	}

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to read hook payload from stdin:", err)
		return 1
	}

	payload := string(raw)
	if payload == "" {
		payload = "{}"
	} else if !json.Valid(raw) {
		// Best-effort per spec §4.9: malformed stdin still forwards as an
		// empty object rather than failing the hook invocation.
		payload = "{}"
	}

	resp, err := sendLine(opts, "claude_hook "+event+" "+payload)
	if err != nil {
		fmt.Fprintln(os.Stderr, connectErrorMessage(opts, err))
		return 1
	}
	fmt.Println(resp)
	if len(resp) >= len("ERROR") && resp[:5] == "ERROR" {
		return 1
	}
	return 0
}
