// Package commands 实现 timelock 命令行
package commands

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/decker502/timelock/pkg/config"
	"github.com/decker502/timelock/pkg/embedded"
	"github.com/spf13/cobra"
)

// 全局参数
var (
	levelsDir string
	verbose   bool
	maxLives  int
)

// Execute 执行根命令
func Execute(ctx context.Context, version, commit string) error {
	return newRootCommand(version, commit).ExecuteContext(ctx)
}

func newRootCommand(version, commit string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "timelock",
		Short: "Timelock - a puzzle game played against the clock",
		Long: `Timelock is a small puzzle game: every level runs on a countdown.
When the clock hits zero you lose a life and the level is reset to how you
found it. Run out of lives and it is back to the main menu.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(verbose)
		},
	}

	rootCmd.PersistentFlags().StringVar(&levelsDir, "levels-dir", "", "load levels from this directory instead of the built-in set")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().IntVar(&maxLives, "max-lives", config.DefaultSessionConfig().MaxLives, "lives per game")

	rootCmd.AddCommand(newPlayCommand())
	rootCmd.AddCommand(newSimulateCommand())
	rootCmd.AddCommand(newLevelsCommand())

	return rootCmd
}

// configureLogging 非 verbose 模式下丢弃日志
func configureLogging(verbose bool) {
	if verbose {
		log.SetOutput(os.Stderr)
		log.SetFlags(log.Ltime | log.Lmicroseconds)
		return
	}
	log.SetOutput(io.Discard)
	log.SetFlags(0)
}

// loadCatalog 加载关卡目录：指定 --levels-dir 时从磁盘加载，否则使用内置关卡
func loadCatalog() (*config.LevelCatalog, error) {
	if levelsDir != "" {
		return config.LoadLevelCatalog(os.DirFS(levelsDir), ".")
	}
	fsys, err := embedded.Sub("data/levels")
	if err != nil {
		return nil, fmt.Errorf("built-in levels: %w", err)
	}
	return config.LoadLevelCatalog(fsys, ".")
}

// sessionConfig 根据全局参数构造会话配置
func sessionConfig() config.SessionConfig {
	cfg := config.DefaultSessionConfig()
	cfg.MaxLives = maxLives
	return cfg
}
