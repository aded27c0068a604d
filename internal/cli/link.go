package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "link [from-id] [to-id]",
		Short: "Relate two memories",
		Long:  "Record a bidirectional relation between two memory entries.",
		Args:  cobra.ExactArgs(2),
		Run:   runLink,
	}

	RootCmd.AddCommand(cmd)
}

func runLink(cmd *cobra.Command, args []string) {
	fromID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		exitErr("link", fmt.Errorf("invalid from-id %q", args[0]))
	}
	toID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		exitErr("link", fmt.Errorf("invalid to-id %q", args[1]))
	}

	h := openHeart()
	if err := h.LinkMemories(fromID, toID); err != nil {
		exitErr("link", err)
	}
	fmt.Printf("linked %d <-> %d\n", fromID, toID)
}
