package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or set the naming and persona profiles",
		Long:  "The heart stores these profiles verbatim; any valid JSON block is accepted.",
	}

	profileCmd.AddCommand(
		profileSubCmd("name", "naming"),
		profileSubCmd("persona", "persona"),
	)
	RootCmd.AddCommand(profileCmd)
}

func profileSubCmd(use, label string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [json]",
		Short: fmt.Sprintf("Show or set the %s profile", label),
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			h := openHeart()

			if len(args) == 1 {
				raw := json.RawMessage(args[0])
				var err error
				if use == "name" {
					err = h.SetNameProfile(raw)
				} else {
					err = h.SetPersonaProfile(raw)
				}
				if err != nil {
					exitErr("profile "+use, err)
				}
			}

			var raw json.RawMessage
			if use == "name" {
				raw = h.NameProfile()
			} else {
				raw = h.PersonaProfile()
			}
			if len(raw) == 0 {
				fmt.Println("{}")
				return
			}
			fmt.Println(string(raw))
		},
	}
}
