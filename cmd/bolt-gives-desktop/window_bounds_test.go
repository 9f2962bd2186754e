package main

import (
	"context"
	"testing"
)

// fakeWindow records the Wails runtime calls made against the main window.
type fakeWindow struct {
	x, y  int
	w, h  int
	calls []string
}

// setupWindowHooks installs a recording window and returns it with a
// cleanup function.
func setupWindowHooks(t *testing.T) (*fakeWindow, func()) {
	t.Helper()
	fw := &fakeWindow{w: 1024, h: 768}

	origSetPos := windowSetPosition
	origSetSize := windowSetSize
	origGetPos := windowGetPosition
	origGetSize := windowGetSize
	origShow := windowShow

	windowSetPosition = func(ctx context.Context, x, y int) {
		fw.x, fw.y = x, y
		fw.calls = append(fw.calls, "setPosition")
	}
	windowSetSize = func(ctx context.Context, w, h int) {
		fw.w, fw.h = w, h
		fw.calls = append(fw.calls, "setSize")
	}
	windowGetPosition = func(ctx context.Context) (int, int) { return fw.x, fw.y }
	windowGetSize = func(ctx context.Context) (int, int) { return fw.w, fw.h }
	windowShow = func(ctx context.Context) {
		fw.calls = append(fw.calls, "show")
	}

	return fw, func() {
		windowSetPosition = origSetPos
		windowSetSize = origSetSize
		windowGetPosition = origGetPos
		windowGetSize = origGetSize
		windowShow = origShow
	}
}

func (fw *fakeWindow) shown() bool {
	for _, c := range fw.calls {
		if c == "show" {
			return true
		}
	}
	return false
}

func TestRestoreWindowBounds_AppliesSavedGeometry(t *testing.T) {
	fw, cleanup := setupWindowHooks(t)
	defer cleanup()

	a := newTestApp(t)
	if err := a.store.Set(windowBoundsKey, WindowBounds{X: -10, Y: 42, Width: 1280, Height: 720}); err != nil {
		t.Fatal(err)
	}

	a.restoreWindowBounds()

	if fw.x != -10 || fw.y != 42 {
		t.Errorf("position = (%d, %d), want (-10, 42)", fw.x, fw.y)
	}
	if fw.w != 1280 || fw.h != 720 {
		t.Errorf("size = (%d, %d), want (1280, 720)", fw.w, fw.h)
	}

	// Position before size, window shown last.
	want := []string{"setPosition", "setSize", "show"}
	if len(fw.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", fw.calls, want)
	}
	for i := range want {
		if fw.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", fw.calls, want)
		}
	}
}

func TestRestoreWindowBounds_MissingRecordKeepsDefaults(t *testing.T) {
	fw, cleanup := setupWindowHooks(t)
	defer cleanup()

	a := newTestApp(t)
	a.restoreWindowBounds()

	if len(fw.calls) != 1 || fw.calls[0] != "show" {
		t.Errorf("calls = %v, want only the window to be shown", fw.calls)
	}
}

func TestRestoreWindowBounds_MalformedRecordKeepsDefaults(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
	}{
		{"wrong type entirely", "garbage"},
		{"wrong field types", map[string]string{"x": "a", "y": "b"}},
		{"negative dimensions", map[string]int{"x": 0, "y": 0, "width": -5, "height": -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fw, cleanup := setupWindowHooks(t)
			defer cleanup()

			a := newTestApp(t)
			if err := a.store.Set(windowBoundsKey, tt.value); err != nil {
				t.Fatal(err)
			}

			// Must not apply anything, must not fail, must still show.
			a.restoreWindowBounds()

			if len(fw.calls) != 1 || fw.calls[0] != "show" {
				t.Errorf("calls = %v, want only the window to be shown", fw.calls)
			}
		})
	}
}

func TestRestoreWindowBounds_ZeroSizeIgnored(t *testing.T) {
	fw, cleanup := setupWindowHooks(t)
	defer cleanup()

	a := newTestApp(t)
	if err := a.store.Set(windowBoundsKey, WindowBounds{X: 5, Y: 5}); err != nil {
		t.Fatal(err)
	}

	a.restoreWindowBounds()

	if len(fw.calls) != 1 || fw.calls[0] != "show" {
		t.Errorf("calls = %v, want zero-size bounds to be ignored", fw.calls)
	}
}

func TestSaveWindowBounds_WritesRuntimeGeometry(t *testing.T) {
	fw, cleanup := setupWindowHooks(t)
	defer cleanup()
	fw.x, fw.y, fw.w, fw.h = 100, 200, 1600, 900

	a := newTestApp(t)
	a.saveWindowBounds()

	var got WindowBounds
	ok, err := a.store.Get(windowBoundsKey, &got)
	if err != nil {
		t.Fatalf("Get(window-bounds) error = %v", err)
	}
	if !ok {
		t.Fatal("window-bounds not written to store")
	}
	want := WindowBounds{X: 100, Y: 200, Width: 1600, Height: 900}
	if got != want {
		t.Errorf("saved bounds = %+v, want %+v", got, want)
	}
}

func TestBeforeClose_SavesBoundsAndAllowsClose(t *testing.T) {
	fw, cleanup := setupWindowHooks(t)
	defer cleanup()
	fw.x, fw.y, fw.w, fw.h = 7, 8, 800, 600

	a := newTestApp(t)
	if prevent := a.beforeClose(context.Background()); prevent {
		t.Error("beforeClose() = true, closing must never be prevented")
	}
	if !a.store.Has(windowBoundsKey) {
		t.Error("beforeClose did not save window bounds")
	}
}

func TestSaveRestore_RoundTrip(t *testing.T) {
	fw, cleanup := setupWindowHooks(t)
	defer cleanup()
	fw.x, fw.y, fw.w, fw.h = -3, 14, 1440, 810

	a := newTestApp(t)
	a.saveWindowBounds()

	// Wipe the fake and restore into it.
	fw.x, fw.y, fw.w, fw.h = 0, 0, 0, 0
	fw.calls = nil
	a.restoreWindowBounds()

	if fw.x != -3 || fw.y != 14 || fw.w != 1440 || fw.h != 810 {
		t.Errorf("restored (%d,%d %dx%d), want (-3,14 1440x810)", fw.x, fw.y, fw.w, fw.h)
	}
	if !fw.shown() {
		t.Error("window not shown after restore")
	}
}
