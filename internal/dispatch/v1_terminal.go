package dispatch

import (
	"context"

	"cmuxterm/internal/corerr"
)

// resolveTerminalHost resolves a surface handle to its Panel's opaque host
// handle, failing not_found when the surface has no live terminal session.
func (e *Engine) resolveTerminalHost(surfaceHandle string) (string, error) {
	panel, err := e.topo.PanelFor(surfaceHandle)
	if err != nil {
		return "", err
	}
	if panel.Host == "" {
		return "", corerr.New(corerr.NotFound, "surface has no active terminal session")
	}
	return panel.Host, nil
}

func v1Send(ctx context.Context, e *Engine, rest string) string {
	host, err := e.resolveTerminalHost("")
	if err != nil {
		return errLine(err)
	}
	if err := e.terminal.Write(host, []byte(unescapeText(rest))); err != nil {
		return errLine(corerr.Wrap(corerr.IOError, err, "send"))
	}
	return okLine("")
}

func v1SendKey(ctx context.Context, e *Engine, rest string) string {
	host, err := e.resolveTerminalHost("")
	if err != nil {
		return errLine(err)
	}
	if err := e.terminal.Write(host, translateKey(rest)); err != nil {
		return errLine(corerr.Wrap(corerr.IOError, err, "send_key"))
	}
	return okLine("")
}

func v1SendSurface(ctx context.Context, e *Engine, rest string) string {
	handle, text, ok := cutField(rest)
	if !ok {
		return errLine(missingArg("send_surface requires <h> <text>"))
	}
	host, err := e.resolveTerminalHost(handle)
	if err != nil {
		return errLine(err)
	}
	if err := e.terminal.Write(host, []byte(unescapeText(text))); err != nil {
		return errLine(corerr.Wrap(corerr.IOError, err, "send_surface"))
	}
	return okLine("")
}

func v1SendKeySurface(ctx context.Context, e *Engine, rest string) string {
	handle, key, ok := cutField(rest)
	if !ok {
		return errLine(missingArg("send_key_surface requires <h> <key>"))
	}
	host, err := e.resolveTerminalHost(handle)
	if err != nil {
		return errLine(err)
	}
	if err := e.terminal.Write(host, translateKey(key)); err != nil {
		return errLine(corerr.Wrap(corerr.IOError, err, "send_key_surface"))
	}
	return okLine("")
}
