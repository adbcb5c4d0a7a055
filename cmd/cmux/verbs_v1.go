package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// runV1 sends a thin v1 line built from verb + args and prints the raw
// response (spec §4.9 step 3: "thin verbs call v1 and print raw response").
func runV1(opts globalOpts, verb string, args []string) int {
	line := buildV1Line(verb, args)
	resp, err := sendLine(opts, line)
	if err != nil {
		fmt.Fprintln(os.Stderr, connectErrorMessage(opts, err))
		return 1
	}
	printV1Response(opts, resp)
	if strings.HasPrefix(resp, "ERROR") {
		return 1
	}
	return 0
}

func printV1Response(opts globalOpts, resp string) {
	if !opts.jsonOutput {
		fmt.Println(resp)
		return
	}
	out, err := json.Marshal(map[string]string{"result": resp})
	if err != nil {
		fmt.Println(resp)
		return
	}
	fmt.Println(string(out))
}

// buildV1Line reassembles a parsed verb + args back into one v1 wire line,
// applying the escaping the wire protocol requires for free-text payloads
// (spec §6: "Text uses \n \r \t \\ escapes"; spec §4.3: notify payloads
// escape a literal `|` as `¦` before reaching the wire).
func buildV1Line(verb string, args []string) string {
	switch verb {
	case "send", "send_key":
		return verb + " " + escapeText(strings.Join(args, " "))
	case "send_surface", "send_key_surface":
		if len(args) == 0 {
			return verb
		}
		handle := args[0]
		text := escapeText(strings.Join(args[1:], " "))
		return verb + " " + handle + " " + text
	case "notify":
		return verb + " " + sanitizePayload(args)
	case "notify_surface":
		if len(args) == 0 {
			return verb
		}
		return verb + " " + args[0] + " " + sanitizePayload(args[1:])
	case "notify_target":
		if len(args) < 2 {
			return verb + " " + strings.Join(args, " ")
		}
		return verb + " " + args[0] + " " + args[1] + " " + sanitizePayload(args[2:])
	default:
		return strings.TrimSpace(verb + " " + strings.Join(args, " "))
	}
}

// escapeText is the inverse of the dispatcher's unescapeText: it turns
// literal control characters a shell would pass through into the wire's
// backslash escapes.
func escapeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// sanitizePayload joins title/subtitle/body arguments into the `|`-delimited
// v1 payload, escaping any literal `|` inside a field as `¦` and collapsing
// embedded newlines, so the dispatcher's naive SplitN(payload, "|", 3)
// cannot be confused by user-supplied text (spec §4.3).
func sanitizePayload(fields []string) string {
	sanitized := make([]string, len(fields))
	for i, f := range fields {
		f = strings.ReplaceAll(f, "|", "¦")
		f = strings.Join(strings.Fields(f), " ")
		sanitized[i] = f
	}
	return strings.Join(sanitized, "|")
}
