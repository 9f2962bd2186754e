package main

import (
	"context"
	"fmt"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/boltgives/bolt-gives/internal/update"
)

const (
	updateDialogTitle = "Application Update"
	updateButton      = "Update"
	laterButton       = "Later"
)

// Package-level hooks for testing. In production, these use the real
// implementations.
var (
	checkForUpdate     = update.CheckForUpdate
	downloadAndInstall = update.DownloadAndInstall
	messageDialog      = wailsRuntime.MessageDialog
)

// runUpdatePoller checks for updates immediately and then on every tick of
// the configured interval, for the life of the process. Failed checks are
// absorbed; the loop just waits for the next tick.
func (a *App) runUpdatePoller() {
	a.checkAndPrompt()

	ticker := time.NewTicker(update.Interval())
	for range ticker.C {
		a.checkAndPrompt()
	}
}

// checkAndPrompt runs one poll cycle: query the update service and, if a
// newer version exists, offer it to the user.
func (a *App) checkAndPrompt() {
	info, err := checkForUpdate(context.Background(), a.cfg.Updater.Endpoint, Version, a.installID)
	if err != nil {
		a.logger.Debug().Err(err).Msg("background update check failed")
		return
	}
	if !info.Available {
		return
	}
	a.promptAndInstall(info)
}

// promptAndInstall shows the update confirmation dialog and, on
// acceptance, kicks off a detached download-and-install. The install's
// outcome is logged, not surfaced; the user picks it up on next launch.
func (a *App) promptAndInstall(info update.Info) {
	choice, err := messageDialog(a.ctx, wailsRuntime.MessageDialogOptions{
		Type:          wailsRuntime.QuestionDialog,
		Title:         updateDialogTitle,
		Message:       fmt.Sprintf("Version %s is available. Would you like to update now?", info.LatestVersion),
		Buttons:       []string{updateButton, laterButton},
		DefaultButton: updateButton,
		CancelButton:  laterButton,
	})
	if err != nil {
		a.logger.Warn().Err(err).Msg("update dialog failed")
		return
	}
	if choice != updateButton {
		return
	}

	go func() {
		if err := downloadAndInstall(context.Background(), info); err != nil {
			a.logger.Error().Err(err).Str("version", info.LatestVersion).Msg("update install failed")
			return
		}
		a.logger.Info().Str("version", info.LatestVersion).Msg("update installed, restart to apply")
	}()
}
