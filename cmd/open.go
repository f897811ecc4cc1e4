package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studydeck/internal/app"
	"github.com/abhisek/studydeck/internal/deck"
	"github.com/abhisek/studydeck/internal/screens/study"
)

var openCmd = &cobra.Command{
	Use:   "open <session-id>",
	Short: "Open a study session in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		return runStudy(e, args[0])
	},
}

func runStudy(e *env, sid string) error {
	e.log.Infow("opening session", "sid", sid)
	root := study.New(e.client, sid, study.Options{
		Slider: deck.SliderBounds{
			Min:  e.cfg.Duration.Min,
			Max:  e.cfg.Duration.Max,
			Step: e.cfg.Duration.Step,
		},
		Timeout: e.cfg.Timeout,
		Log:     e.log,
	})
	if err := app.Run(root); err != nil {
		return fmt.Errorf("run session %s: %w", sid, err)
	}
	return nil
}
