package dispatch

import (
	"context"
)

func v1OpenBrowser(ctx context.Context, e *Engine, rest string) string {
	result, err := e.browser.Call(ctx, "open_split", "", map[string]any{"url": rest, "workspace": ""})
	if err != nil {
		return errLine(err)
	}
	ref, _ := result["surface_ref"].(string)
	return okLine(ref)
}

func v1Navigate(ctx context.Context, e *Engine, rest string) string {
	handle, url, ok := cutField(rest)
	if !ok {
		return errLine(missingArg("navigate requires <h> <url>"))
	}
	if _, err := e.browser.Call(ctx, "navigate", handle, map[string]any{"url": url}); err != nil {
		return errLine(err)
	}
	return okLine("")
}

func v1BrowserBack(ctx context.Context, e *Engine, rest string) string {
	return browserSimple(ctx, e, "back", rest)
}

func v1BrowserForward(ctx context.Context, e *Engine, rest string) string {
	return browserSimple(ctx, e, "forward", rest)
}

func v1BrowserReload(ctx context.Context, e *Engine, rest string) string {
	return browserSimple(ctx, e, "reload", rest)
}

func browserSimple(ctx context.Context, e *Engine, method, handle string) string {
	if _, err := e.browser.Call(ctx, method, handle, nil); err != nil {
		return errLine(err)
	}
	return okLine("")
}

func v1GetURL(ctx context.Context, e *Engine, rest string) string {
	result, err := e.browser.Call(ctx, "url.get", rest, nil)
	if err != nil {
		return errLine(err)
	}
	url, _ := result["url"].(string)
	return url
}
