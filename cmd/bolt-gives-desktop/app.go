package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/boltgives/bolt-gives/internal/config"
	"github.com/boltgives/bolt-gives/internal/store"
	"github.com/boltgives/bolt-gives/internal/update"
)

// Version is set at build time via ldflags.
var Version = "0.1.0-dev"

const devVersion = "0.1.0-dev"

const installIDKey = "install-id"

// Package-level hooks for testing. In production, these use the real
// implementations.
var (
	browserOpenURL = wailsRuntime.BrowserOpenURL
	quitApp        = wailsRuntime.Quit
)

// isDevBuild reports whether this is a development build. Dev builds never
// contact the update service.
func isDevBuild() bool {
	return Version == devVersion || os.Getenv("BOLTGIVES_DEV") != ""
}

// App struct holds the application state.
type App struct {
	ctx       context.Context
	cfg       *config.Config
	store     *store.Store
	logger    zerolog.Logger
	installID string
}

// NewApp creates a new App application struct.
func NewApp(cfg *config.Config, s *store.Store, logger zerolog.Logger) *App {
	return &App{
		cfg:    cfg,
		store:  s,
		logger: logger,
	}
}

// startup is called when the app starts. It restores the saved window
// geometry, reveals the window, and kicks off the background update poller
// in release builds.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.ensureInstallID()
	a.restoreWindowBounds()

	if isDevBuild() || a.cfg.Updater.Disabled {
		a.logger.Debug().Msg("update poller not started")
		return
	}
	update.SetCheckInterval(a.cfg.Updater.CheckIntervalHours)
	go a.runUpdatePoller()
}

// beforeClose saves the current window geometry. Closing is never
// prevented.
func (a *App) beforeClose(ctx context.Context) bool {
	a.saveWindowBounds()
	return false
}

// shutdown is called when the app is closing.
func (a *App) shutdown(ctx context.Context) {
	a.logger.Info().Msg("shutting down")
}

// ensureInstallID loads the per-install identifier from the store,
// generating and persisting one on first run. The update service uses it
// for staged rollouts.
func (a *App) ensureInstallID() {
	var id string
	if ok, err := a.store.Get(installIDKey, &id); err == nil && ok && id != "" {
		a.installID = id
		return
	}

	id = uuid.NewString()
	if err := a.store.Set(installIDKey, id); err != nil {
		a.logger.Warn().Err(err).Msg("could not persist install id")
	}
	a.installID = id
}

// GetAppVersion returns the application version.
func (a *App) GetAppVersion() string {
	return Version
}

// CheckForUpdates asks the update service whether a newer version exists.
// Development builds always report no update.
func (a *App) CheckForUpdates() (bool, error) {
	if isDevBuild() {
		return false, nil
	}

	info, err := checkForUpdate(context.Background(), a.cfg.Updater.Endpoint, Version, a.installID)
	if err != nil {
		return false, fmt.Errorf("update check failed: %w", err)
	}
	return info.Available, nil
}

// ShowUpdateDialog runs an immediate check-and-prompt cycle, the same one
// the background poller runs on each tick. Development builds do nothing.
func (a *App) ShowUpdateDialog() error {
	if isDevBuild() {
		return nil
	}

	info, err := checkForUpdate(context.Background(), a.cfg.Updater.Endpoint, Version, a.installID)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if !info.Available {
		return nil
	}
	a.promptAndInstall(info)
	return nil
}

// OpenExternal opens a link in the user's default browser.
func (a *App) OpenExternal(url string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("refusing to open non-http url %q", url)
	}
	browserOpenURL(a.ctx, url)
	return nil
}

// RunShellCommand executes a command and returns its combined output.
// Commands are killed after 30 seconds.
func (a *App) RunShellCommand(name string, args []string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("no command given")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a.logger.Debug().Str("command", name).Strs("args", args).Msg("running shell command")
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("command %s failed: %w", name, err)
	}
	return string(out), nil
}

// RestartApp relaunches the current executable and quits. Used after an
// update has been installed.
func (a *App) RestartApp() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}

	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("relaunch: %w", err)
	}

	quitApp(a.ctx)
	return nil
}

// QuitApp exits the application.
func (a *App) QuitApp() {
	quitApp(a.ctx)
}
