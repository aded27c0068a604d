package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soulkit/companion/internal/archive"
)

func init() {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Snapshot the heart into a SQLite archive",
		Long: "Write the heart's memories, traits, and emotional profile into a SQLite\n" +
			"database for offline analysis. The heart file stays the source of truth.",
		Run: runArchive,
	}

	cmd.Flags().String("db", "", "Archive database path (required)")
	cmd.MarkFlagRequired("db")

	RootCmd.AddCommand(cmd)
}

func runArchive(cmd *cobra.Command, args []string) {
	dbPath, _ := cmd.Flags().GetString("db")

	h := openHeart()
	w, err := archive.Open(dbPath)
	if err != nil {
		exitErr("open archive", err)
	}
	defer w.Close()

	id, err := w.WriteSnapshot(cmd.Context(), h)
	if err != nil {
		exitErr("archive", err)
	}
	fmt.Printf("snapshot %s written to %s\n", id, dbPath)
}
