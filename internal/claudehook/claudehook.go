// Package claudehook implements the Claude Hook Flow (C4.10): classifying
// agent hook payloads into permission/error/waiting/attention, suppressing
// duplicate notifications, and driving the workspace status indicator and
// notification log from `session-start`/`stop`/`notification` hook events
// (spec §4.10). Status-update failures are suppressed per spec §7's
// recovery policy ("Claude hook status updates are issued with error
// suppression"); only I/O failures on the session store itself propagate.
package claudehook

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"cmuxterm/internal/hooksession"
	"cmuxterm/internal/notify"
	"cmuxterm/internal/topology"
)

// statusKey is the set_status key this flow owns; other integrations may
// use other keys on the same workspace without colliding.
const statusKey = "claude"

const notificationTitle = "Claude"

// Classification is the hook-payload bucket computed from signal fields
// (spec §4.10).
type Classification string

const (
	Permission Classification = "permission"
	ErrorClass Classification = "error"
	Waiting    Classification = "waiting"
	Attention  Classification = "attention"
)

// Actionable reports whether this classification should emit a
// notification; Attention only refreshes the "Running" status.
func (c Classification) Actionable() bool {
	switch c {
	case Permission, ErrorClass, Waiting:
		return true
	default:
		return false
	}
}

func (c Classification) label() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// statusFor returns the icon/color shown for classification's status
// indicator; unclassified/running states use a neutral "alive" signal.
func statusFor(c Classification) (value, icon, color string) {
	switch c {
	case Permission:
		return "Permission", "hand.raised", "#FF9500"
	case ErrorClass:
		return "Error", "exclamationmark.triangle", "#FF3B30"
	case Waiting:
		return "Waiting", "clock", "#FFCC00"
	default:
		return "Running", "bolt", "#34C759"
	}
}

// Engine wires the Claude hook flow to the topology (for status), the
// notification log, and the cross-process session store.
type Engine struct {
	topo       *topology.Store
	notifies   *notify.Store
	sessions   *hooksession.Store
	transcript func(path string) (string, bool)
}

// New creates an Engine over the given collaborators.
func New(topo *topology.Store, notifies *notify.Store, sessions *hooksession.Store) *Engine {
	return &Engine{topo: topo, notifies: notifies, sessions: sessions, transcript: lastAssistantMessage}
}

// SessionStart resolves (workspace, surface), upserts the session record,
// and sets the "Running" status indicator (spec §4.10 session-start).
func (e *Engine) SessionStart(workspaceID, surfaceID uuid.UUID, payload map[string]any) error {
	sessionID := hooksession.NormalizeSessionID(stringField(payload, "session_id"))
	cwd := stringField(payload, "cwd")
	if err := e.sessions.Upsert(sessionID, workspaceID, surfaceID, cwd, "", ""); err != nil {
		return err
	}
	e.setStatus(workspaceID, "Running", "bolt", "#34C759")
	return nil
}

// Stop consumes the session record, clears the status indicator, and emits
// a "Completed" notification whose body comes from the hook's transcript
// file when present, else a context-aware fallback (spec §4.10 stop).
func (e *Engine) Stop(workspaceID, surfaceID uuid.UUID, payload map[string]any) error {
	sessionID := hooksession.NormalizeSessionID(stringField(payload, "session_id"))
	rec, found, err := e.sessions.Consume(hooksession.ConsumeQuery{
		SessionID:   sessionID,
		WorkspaceID: workspaceID,
		SurfaceID:   surfaceID,
	})
	if err != nil {
		return err
	}
	e.clearStatus(workspaceID)

	body := fallbackStopBody(rec, found)
	if path := stringField(payload, "transcript_path"); path != "" {
		if text, ok := e.transcript(path); ok {
			body = truncate(collapseToSingleLine(text), 200)
		}
	}
	e.notifies.Add(workspaceID, surfaceID, notificationTitle, "Completed", body)
	return nil
}

// Notification classifies the hook payload, suppresses a repeat of the
// session's last (subtitle, body) pair, and otherwise emits a notification
// and updates the status indicator (spec §4.10 notification).
func (e *Engine) Notification(workspaceID, surfaceID uuid.UUID, payload map[string]any) error {
	sessionID := hooksession.NormalizeSessionID(stringField(payload, "session_id"))
	class := classify(payload)

	if !class.Actionable() {
		e.setStatus(workspaceID, "Running", "bolt", "#34C759")
		return nil
	}

	subtitle := class.label()
	body := normalizeBody(joinFields(payload, "message", "body", "text", "prompt", "error"), sessionID)

	if rec, found, _ := e.sessions.Lookup(sessionID); found && rec.LastSubtitle == subtitle && rec.LastBody == body {
		e.setStatus(workspaceID, "Running", "bolt", "#34C759")
		return nil
	}

	e.notifies.Add(workspaceID, surfaceID, notificationTitle, subtitle, body)
	value, icon, color := statusFor(class)
	e.setStatus(workspaceID, value, icon, color)

	cwd := stringField(payload, "cwd")
	return e.sessions.Upsert(sessionID, workspaceID, surfaceID, cwd, subtitle, body)
}

func (e *Engine) setStatus(workspaceID uuid.UUID, value, icon, color string) {
	if err := e.topo.SetStatus(workspaceID.String(), statusKey, value, icon, color); err != nil {
		slog.Warn("[claudehook] failed to set status", "workspace_id", workspaceID, "error", err)
	}
}

func (e *Engine) clearStatus(workspaceID uuid.UUID) {
	if err := e.topo.ClearStatus(workspaceID.String(), statusKey); err != nil {
		slog.Warn("[claudehook] failed to clear status", "workspace_id", workspaceID, "error", err)
	}
}

// classify buckets a hook payload per spec §4.10's signal rules: a
// case-insensitive substring match over event|type|reason joined with
// message|body|text|prompt|error.
func classify(payload map[string]any) Classification {
	signal := strings.ToLower(joinFields(payload, "event", "type", "reason", "message", "body", "text", "prompt", "error"))
	switch {
	case containsAny(signal, "permission", "approve", "approval"):
		return Permission
	case containsAny(signal, "error", "failed", "exception"):
		return ErrorClass
	case containsAny(signal, "idle", "wait", "input", "prompt"):
		return Waiting
	default:
		return Attention
	}
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func joinFields(payload map[string]any, keys ...string) string {
	var parts []string
	for _, k := range keys {
		if v := stringField(payload, k); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

func stringField(payload map[string]any, key string) string {
	if payload == nil {
		return ""
	}
	v, ok := payload[key].(string)
	if !ok {
		return ""
	}
	return v
}

// normalizeBody collapses raw to a single line, truncates to 180 chars,
// and suffixes the session's first 8 characters when known (spec §4.10).
func normalizeBody(raw, sessionID string) string {
	line := collapseToSingleLine(raw)
	suffix := ""
	if sessionID != "" && sessionID != "no session" {
		prefix := sessionID
		if len(prefix) > 8 {
			prefix = prefix[:8]
		}
		suffix = fmt.Sprintf(" [%s]", prefix)
	}
	budget := 180 - len(suffix)
	if budget < 0 {
		budget = 0
	}
	return truncate(line, budget) + suffix
}

func collapseToSingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func fallbackStopBody(rec hooksession.Record, found bool) string {
	if found && rec.Cwd != "" {
		return fmt.Sprintf("Claude session finished (%s)", rec.Cwd)
	}
	return "Claude session finished"
}

// transcriptEntry is one JSONL line of a Claude Code transcript file; only
// the fields needed to find the last assistant message are decoded.
type transcriptEntry struct {
	Type    string `json:"type"`
	Message struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

// lastAssistantMessage best-effort scans a transcript file for the text of
// its last assistant turn. Missing or malformed files are not an error;
// callers fall back to a context-aware message.
func lastAssistantMessage(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	var last string
	found := false
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var entry transcriptEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if entry.Type != "assistant" && entry.Message.Role != "assistant" {
			continue
		}
		if text := extractText(entry.Message.Content); text != "" {
			last, found = text, true
		}
	}
	return last, found
}

// extractText handles both `"content": "text"` and the block-array form
// `"content": [{"type":"text","text":"..."}]`.
func extractText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var blocks []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &blocks); err == nil {
		var parts []string
		for _, b := range blocks {
			if b.Type == "text" && b.Text != "" {
				parts = append(parts, b.Text)
			}
		}
		return strings.Join(parts, " ")
	}
	return ""
}
