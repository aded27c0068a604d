package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "compact",
		Short: "Summarize aged memories",
		Long: "For each eligible category with enough old entries, append one summary\n" +
			"memory. Originals are kept unless compaction.prune_originals is set.",
		Run: runCompact,
	}

	RootCmd.AddCommand(cmd)
}

func runCompact(cmd *cobra.Command, args []string) {
	h := openHeart()
	n, err := h.Compact()
	if err != nil {
		exitErr("compact", err)
	}
	fmt.Printf("wrote %d summaries\n", n)
}
