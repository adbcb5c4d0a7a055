package dispatch

import (
	"fmt"
	"strings"

	"cmuxterm/internal/corerr"
)

// tokenizeArgsFlags splits rest into positional args and `--key=value` (or
// bare `--key`) flags, the minimal grammar used by every v1 verb that takes
// structured arguments (spec §6).
func tokenizeArgsFlags(rest string) (args []string, flags map[string]string) {
	flags = map[string]string{}
	for _, tok := range strings.Fields(rest) {
		if strings.HasPrefix(tok, "--") {
			kv := strings.TrimPrefix(tok, "--")
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				v = "true"
			}
			flags[k] = v
			continue
		}
		args = append(args, tok)
	}
	return args, flags
}

// unescapeText expands the `\n \r \t \\` escapes the line protocol defines
// for terminal input text (spec §6).
func unescapeText(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case 'r':
				b.WriteByte('\r')
				i++
				continue
			case 't':
				b.WriteByte('\t')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// splitPayload parses a `title|subtitle|body` v1 notification payload; a
// literal `|` inside a field is escaped by the CLI as `¦` before it reaches
// the wire (spec §4.3), so no further unescaping happens here.
func splitPayload(payload string) (title, subtitle, body string) {
	parts := strings.SplitN(payload, "|", 3)
	switch len(parts) {
	case 3:
		return parts[0], parts[1], parts[2]
	case 2:
		return parts[0], parts[1], ""
	case 1:
		return parts[0], "", ""
	default:
		return "", "", ""
	}
}

func okLine(id string) string {
	if id == "" {
		return "OK"
	}
	return "OK " + id
}

func errLine(err error) string {
	if corerr.Is(err, corerr.UnknownMethod) {
		return "ERROR: Unknown command"
	}
	return fmt.Sprintf("ERROR: %s", errMessage(err))
}

// errMessage strips the "<kind>: " prefix coreError.Error() adds, since the
// kind is implicit in the v1 "ERROR:" line and would otherwise be doubled.
func errMessage(err error) string {
	msg := err.Error()
	if kind := corerr.KindOf(err); kind != "" {
		msg = strings.TrimPrefix(msg, string(kind)+": ")
	}
	return msg
}

// listLines renders a generic `* <index>: <ref> <title>` listing (spec §6);
// empty listings render as `No <noun>`.
func listLines(noun string, focusedIndex int, rows []listRow) string {
	if len(rows) == 0 {
		return "No " + noun
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		marker := " "
		if i == focusedIndex {
			marker = "*"
		}
		title := r.title
		if title == "" {
			title = r.ref
		}
		lines[i] = fmt.Sprintf("%s %d: %s %s", marker, i, r.ref, title)
	}
	return strings.Join(lines, "\n")
}

type listRow struct {
	ref   string
	title string
}

func missingArg(msg string) error {
	return corerr.New(corerr.InvalidArgument, "%s", msg)
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// cutField splits off the first whitespace-delimited token from s, trimming
// the remainder; used by verbs whose second argument is free text (e.g.
// `send_surface <h> <text>`).
func cutField(s string) (field, rest string, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", false
	}
	field, rest, _ = strings.Cut(s, " ")
	return field, strings.TrimSpace(rest), true
}
