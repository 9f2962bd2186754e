package main

import (
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

const windowBoundsKey = "window-bounds"

// Package-level hooks for testing. In production, these use the real
// Wails runtime calls.
var (
	windowSetPosition = wailsRuntime.WindowSetPosition
	windowSetSize     = wailsRuntime.WindowSetSize
	windowGetPosition = wailsRuntime.WindowGetPosition
	windowGetSize     = wailsRuntime.WindowGetSize
	windowShow        = wailsRuntime.WindowShow
)

// WindowBounds is the persisted main-window rectangle in screen-pixel
// coordinates.
type WindowBounds struct {
	X      int  `json:"x"`
	Y      int  `json:"y"`
	Width  uint `json:"width"`
	Height uint `json:"height"`
}

// restoreWindowBounds applies the saved window geometry, best-effort: a
// missing or malformed record leaves the window at its framework-default
// geometry. The window is shown (and focused) afterwards either way -
// restoration never blocks visibility.
func (a *App) restoreWindowBounds() {
	var b WindowBounds
	ok, err := a.store.Get(windowBoundsKey, &b)
	switch {
	case err != nil:
		a.logger.Warn().Err(err).Msg("saved window bounds unreadable, using defaults")
	case ok && b.Width > 0 && b.Height > 0:
		windowSetPosition(a.ctx, b.X, b.Y)
		windowSetSize(a.ctx, int(b.Width), int(b.Height))
	}

	windowShow(a.ctx)
}

// saveWindowBounds writes the current window geometry to the store,
// best-effort.
func (a *App) saveWindowBounds() {
	x, y := windowGetPosition(a.ctx)
	w, h := windowGetSize(a.ctx)
	if w <= 0 || h <= 0 {
		return
	}

	b := WindowBounds{X: x, Y: y, Width: uint(w), Height: uint(h)}
	if err := a.store.Set(windowBoundsKey, b); err != nil {
		a.logger.Warn().Err(err).Msg("could not save window bounds")
	}
}
