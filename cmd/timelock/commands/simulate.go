package commands

import (
	"fmt"
	"io"

	"github.com/decker502/timelock/pkg/app"
	"github.com/decker502/timelock/pkg/event"
	"github.com/decker502/timelock/pkg/scenes"
	"github.com/decker502/timelock/pkg/systems"
	"github.com/spf13/cobra"
)

// simulateOptions 无头模拟参数
type simulateOptions struct {
	level  string
	ticks  int
	voidAt int
	retry  bool
}

func newSimulateCommand() *cobra.Command {
	opts := simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a level headless with a fixed time step and print session events",
		Example: `  timelock simulate --level bridge --ticks 6000 --retry
  timelock simulate --level bridge --ticks 300 --void-at 120`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.level, "level", "l", "", "level ID to simulate")
	cmd.Flags().IntVarP(&opts.ticks, "ticks", "n", 600, "number of frames to run")
	cmd.Flags().IntVar(&opts.voidAt, "void-at", -1, "drop the player into the void at this frame")
	cmd.Flags().BoolVar(&opts.retry, "retry", false, "confirm the retry prompt whenever it is offered")
	_ = cmd.MarkFlagRequired("level")

	return cmd
}

func runSimulate(out io.Writer, opts simulateOptions) error {
	if opts.ticks <= 0 {
		return fmt.Errorf("--ticks must be positive")
	}

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	lvl, err := catalog.Get(opts.level)
	if err != nil {
		return err
	}

	a, err := app.NewApp(app.Config{
		Verbose:  verbose,
		Level:    opts.level,
		Headless: true,
		Session:  sessionConfig(),
		Catalog:  catalog,
	})
	if err != nil {
		return err
	}

	frame := 0
	session := a.Session()
	printer := func(e event.Event) {
		if e.Type == event.ClockChanged {
			return
		}
		fmt.Fprintf(out, "%6d  %-24s %s\n", frame, e.Type, describe(e))
	}
	for _, t := range []event.Type{
		event.ClockExpired, event.LivesChanged, event.LivesDepleted, event.RetryOffered,
		event.RespawnPerformed, event.TerminalFailureShown, event.RecoveryFailed, event.ReturnToMenu,
	} {
		session.Bus.Subscribe(t, printer)
	}

	svc := a.Services()
	for frame = 0; frame < opts.ticks; frame++ {
		c := scenes.Controls{}
		if opts.retry && (svc.Prompt.State() == systems.PromptRetryOffered || svc.Terminal.IsShown()) {
			c.Confirm = true
		}
		if frame == opts.voidAt && lvl.VoidY > 0 {
			if level := svc.CurrentLevel(); level != nil {
				level.SetPlayerPosition(level.PlayerPosition().X, lvl.VoidY+1)
			}
		}
		a.Step(c)
	}

	fmt.Fprintf(out, "done after %d frames: lives=%d/%d clock=%s prompt=%s\n",
		opts.ticks, session.Lives.Current(), session.Lives.Max(),
		session.Clock.Remaining(), svc.Prompt.State())
	return nil
}

// describe 事件载荷的简短描述
func describe(e event.Event) string {
	switch e.Type {
	case event.ClockExpired, event.RespawnPerformed:
		return e.Label
	case event.LivesChanged, event.LivesDepleted, event.RetryOffered:
		return fmt.Sprintf("lives=%d", e.Lives)
	case event.TerminalFailureShown:
		return e.Message
	case event.RecoveryFailed:
		return fmt.Sprintf("#%d %s", e.Entity, e.Message)
	}
	return ""
}
