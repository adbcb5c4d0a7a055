// Package noophost provides log-only stand-ins for the host collaborators
// spec §1 names as deliberately out of scope: the embedded web view and
// desktop notification delivery. cmuxd binds Browser as its BrowserHost, the
// way the teacher's app.go binds Wails runtime calls, even though there is
// no GUI shell behind it here; NotificationScheduler and AppActivity are not
// wired into cmuxd.
package noophost

import (
	"context"
	"log/slog"
	"time"
)

// Browser logs every call instead of driving a real web view.
type Browser struct {
	logs *slog.Logger
}

// NewBrowser creates a Browser. logs may be nil, in which case
// slog.Default() is used.
func NewBrowser(logs *slog.Logger) *Browser {
	if logs == nil {
		logs = slog.Default()
	}
	return &Browser{logs: logs}
}

func (b *Browser) Navigate(handle, url string) error {
	b.logs.Info("noophost: browser navigate", "handle", handle, "url", url)
	return nil
}

func (b *Browser) Back(handle string) error {
	b.logs.Info("noophost: browser back", "handle", handle)
	return nil
}

func (b *Browser) Forward(handle string) error {
	b.logs.Info("noophost: browser forward", "handle", handle)
	return nil
}

func (b *Browser) Reload(handle string) error {
	b.logs.Info("noophost: browser reload", "handle", handle)
	return nil
}

func (b *Browser) Eval(ctx context.Context, handle, script string) (any, error) {
	b.logs.Info("noophost: browser eval", "handle", handle, "scriptLen", len(script))
	return nil, nil
}

func (b *Browser) Screenshot(handle string) (string, error) {
	b.logs.Info("noophost: browser screenshot", "handle", handle)
	return "", nil
}

func (b *Browser) Close(handle string) error {
	b.logs.Info("noophost: browser close", "handle", handle)
	return nil
}

// NotificationScheduler logs the scheduling intent instead of delivering a
// real OS notification (spec §1 Non-goals: "OS-native desktop notifications
// delivery (only scheduling intent)").
type NotificationScheduler struct {
	logs *slog.Logger
}

func NewNotificationScheduler(logs *slog.Logger) *NotificationScheduler {
	if logs == nil {
		logs = slog.Default()
	}
	return &NotificationScheduler{logs: logs}
}

func (n *NotificationScheduler) Schedule(title, subtitle, body string, at time.Time) error {
	n.logs.Info("noophost: notification scheduled", "title", title, "subtitle", subtitle, "at", at)
	return nil
}

// AppActivity always reports the host application as active, since there is
// no window manager in this stand-in to report frontmost state.
type AppActivity struct{}

func (AppActivity) IsActive() bool { return true }
