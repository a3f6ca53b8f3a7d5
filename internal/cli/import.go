package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/studynotes/internal/apperr"
	"github.com/rcliao/studynotes/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a library from JSON",
		Long:  "Import a library from JSON (file or stdin). Expects the format produced by export. Existing IDs are skipped.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	var data []byte
	var err error
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		exitErr("read input", err)
	}

	var lib store.Library
	if err := json.Unmarshal(data, &lib); err != nil {
		exitErr("parse json", fmt.Errorf("%w: %v", apperr.ErrValidation, err))
	}

	a := openApp(cmd)
	defer a.Close()

	res, err := a.store.Import(cmd.Context(), &lib)
	if err != nil {
		exitErr("import", err)
	}
	printJSON(map[string]interface{}{"ok": true, "imported": res})
}
