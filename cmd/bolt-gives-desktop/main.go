package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"github.com/boltgives/bolt-gives/internal/config"
	"github.com/boltgives/bolt-gives/internal/logging"
	"github.com/boltgives/bolt-gives/internal/store"
	"github.com/boltgives/bolt-gives/internal/update"
)

//go:embed all:frontend/dist
var assets embed.FS

var rootCmd = &cobra.Command{
	Use:          "bolt-gives-desktop",
	Short:        "bolt-gives desktop application",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGUI()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the application version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version)
	},
}

var checkUpdateCmd = &cobra.Command{
	Use:   "check-update",
	Short: "Query the update service once and exit",
	RunE:  runCheckUpdate,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkUpdateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// dataDir returns ~/.bolt-gives, falling back to /tmp when the home
// directory is unavailable.
func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("/tmp", ".bolt-gives")
	}
	return filepath.Join(home, ".bolt-gives")
}

func runGUI() error {
	level := zerolog.InfoLevel
	logLevel := logger.INFO
	if isDevBuild() {
		level = zerolog.DebugLevel
		logLevel = logger.DEBUG
	}
	log := logging.New(level, filepath.Join(dataDir(), "logs"))

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		log.Warn().Err(err).Msg("could not read config, using defaults")
	}

	appStore := store.Open(filepath.Join(dataDir(), "app-data.json"))
	app := NewApp(cfg, appStore, log)

	// StartHidden: the window is revealed by startup once saved geometry
	// has been applied.
	return wails.Run(&options.App{
		Title:       "bolt-gives",
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		StartHidden: true,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup:        app.startup,
		OnBeforeClose:    app.beforeClose,
		OnShutdown:       app.shutdown,
		Bind: []interface{}{
			app,
		},
		LogLevel:           logLevel,
		LogLevelProduction: logger.ERROR,
		Debug: options.Debug{
			OpenInspectorOnStartup: isDevBuild(),
		},
	})
}

// runCheckUpdate is the terminal entry point mirroring the in-app manual
// check.
func runCheckUpdate(cmd *cobra.Command, args []string) error {
	if isDevBuild() {
		fmt.Println("development build, update checks disabled")
		return nil
	}

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	info, err := update.CheckForUpdate(cmd.Context(), cfg.Updater.Endpoint, Version, "")
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if info.Available {
		fmt.Printf("update available: %s (current %s)\n", info.LatestVersion, info.CurrentVersion)
	} else {
		fmt.Printf("up to date (current %s)\n", info.CurrentVersion)
	}
	return nil
}
