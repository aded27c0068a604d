package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soulkit/companion/internal/heart"
	"github.com/soulkit/companion/internal/model"
)

func init() {
	emotionCmd := &cobra.Command{
		Use:   "emotion",
		Short: "Inspect and update the emotional profile",
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Update emotional profile fields",
		Long:  "Only the fields whose flags are set are applied; others are untouched.",
		Run:   runEmotionSet,
	}
	setCmd.Flags().Float64("trust", 0, "Trust level in [0,1]")
	setCmd.Flags().Float64("affinity", 0, "Affinity in [0,1]")
	setCmd.Flags().Float64("bond", 0, "Bond strength in [0,1]")
	setCmd.Flags().String("dominant", "", "Dominant emotion")
	setCmd.Flags().Int("shared", 0, "Shared experience count")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the emotional profile",
		Run:   runEmotionShow,
	}

	emotionCmd.AddCommand(setCmd, showCmd)
	RootCmd.AddCommand(emotionCmd)
}

func runEmotionSet(cmd *cobra.Command, args []string) {
	var update heart.EmotionUpdate

	if cmd.Flags().Changed("trust") {
		v, _ := cmd.Flags().GetFloat64("trust")
		update.Trust = &v
	}
	if cmd.Flags().Changed("affinity") {
		v, _ := cmd.Flags().GetFloat64("affinity")
		update.Affinity = &v
	}
	if cmd.Flags().Changed("bond") {
		v, _ := cmd.Flags().GetFloat64("bond")
		update.BondStrength = &v
	}
	if cmd.Flags().Changed("dominant") {
		v, _ := cmd.Flags().GetString("dominant")
		emotion := model.EmotionalState(v)
		update.DominantEmotion = &emotion
	}
	if cmd.Flags().Changed("shared") {
		v, _ := cmd.Flags().GetInt("shared")
		update.SharedExperiences = &v
	}

	h := openHeart()
	if err := h.UpdateEmotions(update); err != nil {
		exitErr("emotion set", err)
	}
	printEmotions(h.EmotionalProfile())
}

func runEmotionShow(cmd *cobra.Command, args []string) {
	h := openHeart()
	printEmotions(h.EmotionalProfile())
}

func printEmotions(p model.EmotionalProfile) {
	b, _ := json.MarshalIndent(p, "", "  ")
	fmt.Println(string(b))
}
