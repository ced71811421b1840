package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/storyling/internal/app"
	"github.com/abhisek/storyling/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a reading session",
	RunE:  runTUI,
}

func init() {
	playCmd.Flags().Bool("no-splash", false, "Skip the welcome screen")
}

// runTUI opens the store, builds the tutor and launches the TUI.
func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	gen, err := newTutor(ctx, st.EventRepo())
	if err != nil {
		return err
	}

	noSplash, _ := cmd.Flags().GetBool("no-splash")
	ctrl := session.New(gen, rt.log.Named("session"))
	return app.Run(ctx, app.Options{
		Controller:     ctrl,
		Themes:         rt.cfg.Themes,
		SurpriseThemes: rt.cfg.SurpriseThemes,
		Timeout:        rt.cfg.LLM.Timeout,
		Logger:         rt.log.Named("app"),
		SkipWelcome:    noSplash,
	})
}
