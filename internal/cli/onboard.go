package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/studynotes/internal/store"
)

const welcome = `Welcome to studynotes.

  Capture   studynotes note add --title "Lecture 1" < notes.txt
  Organize  studynotes course add "Computer Science" --code CS101
  Analyze   studynotes note analyze <note-id>
  Ask       studynotes chat ask <note-id> "What is Big O?"
  Practice  studynotes quiz take <note-id> --topic "Sorting"

Set GEMINI_API_KEY (or ai.api_key in ~/.studynotes/config.yaml) to enable AI features.
Try "studynotes seed --yes" to load a sample library.`

func init() {
	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Show the getting-started tour and mark it seen",
		Run:   runOnboard,
	}

	cmd.Flags().Bool("reset", false, "Show the welcome hint again on the next run")

	RootCmd.AddCommand(cmd)
}

func runOnboard(cmd *cobra.Command, args []string) {
	reset, _ := cmd.Flags().GetBool("reset")

	a := openApp(cmd)
	defer a.Close()

	value := "true"
	if reset {
		value = "false"
	}
	if err := a.store.SetSetting(cmd.Context(), store.SettingOnboardingComplete, value); err != nil {
		exitErr("onboard", err)
	}
	if !reset {
		fmt.Fprintln(os.Stderr, welcome)
	}
	fmt.Printf(`{"ok":true,"onboarding_complete":%s}`+"\n", value)
}
