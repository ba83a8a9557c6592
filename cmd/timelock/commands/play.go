package commands

import (
	"fmt"
	"log"

	"github.com/decker502/timelock/pkg/app"
	"github.com/decker502/timelock/pkg/config"
	"github.com/decker502/timelock/pkg/metrics"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
)

func newPlayCommand() *cobra.Command {
	var (
		level       string
		watch       bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Open the game window",
		Long: `Open the game window at the main menu, or directly at a level with --level.

With --watch (requires --levels-dir) level files are reloaded when they change;
the new layout applies the next time the level is entered.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			catalog, err := loadCatalog()
			if err != nil {
				return err
			}

			if watch {
				if levelsDir == "" {
					return fmt.Errorf("--watch requires --levels-dir")
				}
				watcher, err := config.NewLevelWatcher(catalog, levelsDir)
				if err != nil {
					return err
				}
				watcher.Start(ctx)
			}

			m := metrics.New(metrics.Config{Enabled: metricsAddr != "", ListenAddress: metricsAddr})
			if m.Enabled() {
				go func() {
					if err := m.Serve(ctx); err != nil {
						log.Printf("[Metrics] Server error: %v", err)
					}
				}()
			}

			gameApp, err := app.NewApp(app.Config{
				Verbose: verbose,
				Level:   level,
				Session: sessionConfig(),
				Catalog: catalog,
				Metrics: m,
			})
			if err != nil {
				return fmt.Errorf("failed to start: %w", err)
			}

			ebiten.SetWindowSize(app.WindowWidth, app.WindowHeight)
			ebiten.SetWindowTitle("Timelock")
			ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
			ebiten.SetTPS(sessionConfig().TicksPerSecond)

			return ebiten.RunGame(gameApp)
		},
	}

	cmd.Flags().StringVarP(&level, "level", "l", "", "start directly at this level ID")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload level files from --levels-dir when they change")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")

	return cmd
}
