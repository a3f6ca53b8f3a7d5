package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/studynotes/internal/seed"
)

func init() {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the library with sample data",
		Long:  "Delete all courses, notes, chats and quizzes, then load the built-in sample library or a YAML file.",
		Run:   runSeed,
	}

	cmd.Flags().String("file", "", "YAML dataset to load instead of the built-in sample")
	cmd.Flags().Bool("yes", false, "Skip the confirmation check")

	RootCmd.AddCommand(cmd)
}

func runSeed(cmd *cobra.Command, args []string) {
	file, _ := cmd.Flags().GetString("file")
	yes, _ := cmd.Flags().GetBool("yes")

	if !yes {
		exitErr("seed", fmt.Errorf("this deletes every note; re-run with --yes to continue"))
	}

	var d *seed.Dataset
	var err error
	if file != "" {
		data, rerr := os.ReadFile(file)
		if rerr != nil {
			exitErr("read dataset", rerr)
		}
		d, err = seed.Parse(data)
	} else {
		d, err = seed.Sample()
	}
	if err != nil {
		exitErr("parse dataset", err)
	}

	a := openApp(cmd)
	defer a.Close()

	sum, err := seed.Load(cmd.Context(), a.store, d)
	if err != nil {
		exitErr("seed", err)
	}
	a.log.Info("library seeded", "courses", sum.Courses, "notes", sum.Notes)
	printJSON(sum)
}
