package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the whole library as JSON",
		Long:  "Export all courses, notes, chats and quizzes as one JSON document on stdout.",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	lib, err := a.store.ExportAll(cmd.Context())
	if err != nil {
		exitErr("export", err)
	}
	printJSON(lib)
}
