package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soulkit/companion/internal/heart"
)

func init() {
	cmd := &cobra.Command{
		Use:   "recall",
		Short: "Retrieve memories by category and tags",
		Long:  "Retrieve memories ordered by importance, most recent first on ties.",
		Run:   runRecall,
	}

	cmd.Flags().StringP("category", "c", "", "Filter by exact category")
	cmd.Flags().StringP("tags", "t", "", "Comma-separated tags (any match)")
	cmd.Flags().IntP("limit", "l", 10, "Maximum results")

	RootCmd.AddCommand(cmd)
}

func runRecall(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")
	tagsStr, _ := cmd.Flags().GetString("tags")
	limit, _ := cmd.Flags().GetInt("limit")

	h := openHeart()
	memories := h.RetrieveMemories(heart.RetrieveParams{
		Category: category,
		Tags:     splitTags(tagsStr),
		Limit:    limit,
	})

	if formatFlag == "text" {
		for _, m := range memories {
			fmt.Printf("[%d] (%s, %.2f) %s\n", m.ID, m.Category, m.Importance, m.Content)
		}
		return
	}
	b, _ := json.MarshalIndent(memories, "", "  ")
	fmt.Println(string(b))
}
