package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soulkit/companion/internal/heart"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search memory content",
		Long:  "Case-insensitive substring search over memory content, ranked by importance.",
		Args:  cobra.ExactArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().IntP("limit", "l", 5, "Maximum results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	h := openHeart()
	memories := h.SearchMemories(heart.SearchParams{Query: args[0], Limit: limit})

	if formatFlag == "text" {
		for _, m := range memories {
			fmt.Printf("[%d] (%s, %.2f) %s\n", m.ID, m.Category, m.Importance, m.Content)
		}
		return
	}
	b, _ := json.MarshalIndent(memories, "", "  ")
	fmt.Println(string(b))
}
