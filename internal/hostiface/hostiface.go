// Package hostiface defines the abstract interfaces to the external
// collaborators named in spec §6/§9: the terminal emulator, the embedded
// web view, and the OS notification scheduler. The core never renders
// anything itself; it only calls through these interfaces, the way the
// teacher's internal/terminal.Terminal is only ever driven through
// SessionManager's PaneIO methods rather than owned by the router.
package hostiface

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TerminalHost is the rendering/process collaborator behind a terminal
// Surface. The core tracks only a Panel{Host} opaque handle; all actual
// I/O is delegated here.
type TerminalHost interface {
	Spawn(ctx context.Context, surfaceID uuid.UUID, cwd string) (handle string, err error)
	Write(handle string, data []byte) error
	Resize(handle string, cols, rows int) error
	Close(handle string) error
}

// BrowserHost is the embedded web-view collaborator behind a browser
// Surface, driven exclusively through internal/browser's method table.
type BrowserHost interface {
	Navigate(handle, url string) error
	Back(handle string) error
	Forward(handle string) error
	Reload(handle string) error
	Eval(ctx context.Context, handle, script string) (any, error)
	Screenshot(handle string) (pngBase64 string, err error)
	Close(handle string) error
}

// NotificationScheduler schedules an OS-native notification intent. Per the
// Non-goals (no real desktop delivery), implementations may no-op. No core
// package calls Schedule; internal/noophost provides a log-only
// implementation.
type NotificationScheduler interface {
	Schedule(title, subtitle, body string, at time.Time) error
}

// AppActivity reports whether the host application window is frontmost,
// the external signal referenced throughout spec §4.3 and §5 ("the app is
// active").
type AppActivity interface {
	IsActive() bool
}
