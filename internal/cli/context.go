package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "context [query]",
		Short: "Assemble relevant memories within a budget",
		Long:  "Score matching memories by importance and recency and pack them into a character budget.",
		Args:  cobra.ExactArgs(1),
		Run:   runContext,
	}

	cmd.Flags().IntP("budget", "b", 4000, "Character budget")

	RootCmd.AddCommand(cmd)
}

func runContext(cmd *cobra.Command, args []string) {
	budget, _ := cmd.Flags().GetInt("budget")

	h := openHeart()
	result := h.RecallContext(args[0], budget)

	b, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(b))
}
