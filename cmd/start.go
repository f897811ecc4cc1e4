package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studydeck/internal/api"
)

var startCmd = &cobra.Command{
	Use:   "start --name NAME [flags] NOTES...",
	Short: "Create a session from notes files",
	Long: "Upload one or more notes files and let the server plan a session from them.\n" +
		"Prints the new session id; pass --open to study it right away.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			return fmt.Errorf("--name is required")
		}
		minutes, _ := cmd.Flags().GetInt("minutes")
		if minutes <= 0 {
			return fmt.Errorf("--minutes must be positive, got %d", minutes)
		}
		syllabus, _ := cmd.Flags().GetString("syllabus")
		bank, _ := cmd.Flags().GetString("question-bank")
		open, _ := cmd.Flags().GetBool("open")

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx, cancel := withTimeout(cmd, e)
		sid, err := e.client.StartSession(ctx, api.StartInput{
			Name:         name,
			Minutes:      minutes,
			Notes:        args,
			Syllabus:     syllabus,
			QuestionBank: bank,
		})
		cancel()
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), sid)
		if !open {
			return nil
		}
		return runStudy(e, sid)
	},
}

func init() {
	f := startCmd.Flags()
	f.String("name", "", "Session name (must be unique on the server)")
	f.Int("minutes", 60, "Planned session length in minutes")
	f.String("syllabus", "", "Optional syllabus file")
	f.String("question-bank", "", "Optional question bank file")
	f.Bool("open", false, "Open the session after creating it")
}
