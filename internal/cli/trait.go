package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	traitCmd := &cobra.Command{
		Use:   "trait",
		Short: "Inspect and adjust personality traits",
	}

	setCmd := &cobra.Command{
		Use:   "set [name] [value]",
		Short: "Nudge a trait toward a value (damped average)",
		Args:  cobra.ExactArgs(2),
		Run:   runTraitSet,
	}
	setCmd.Flags().StringP("reason", "r", "", "Reason, logged as a personality_update memory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List trait weights",
		Run:   runTraitList,
	}

	traitCmd.AddCommand(setCmd, listCmd)
	RootCmd.AddCommand(traitCmd)
}

func runTraitSet(cmd *cobra.Command, args []string) {
	value, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		exitErr("trait set", fmt.Errorf("invalid value %q", args[1]))
	}
	reason, _ := cmd.Flags().GetString("reason")

	h := openHeart()
	if err := h.UpdateTrait(args[0], value, reason); err != nil {
		exitErr("trait set", err)
	}

	traits := h.Traits()
	fmt.Printf("%s = %.2f\n", args[0], traits[args[0]].Value)
}

func runTraitList(cmd *cobra.Command, args []string) {
	h := openHeart()
	b, _ := json.MarshalIndent(h.Traits(), "", "  ")
	fmt.Println(string(b))
}
