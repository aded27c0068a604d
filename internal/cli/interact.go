package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soulkit/companion/internal/companion"
	"github.com/soulkit/companion/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "interact",
		Short: "Run an interactive companion session",
		Long: "Drive the full core in one process: each line is handled as a user\n" +
			"interaction; /-prefixed commands control lifecycle and permissions.\n" +
			"Working cache and lifecycle state live only for the session.",
		Run: runInteract,
	}

	RootCmd.AddCommand(cmd)
}

const interactHelp = `commands:
  /grant <permission>    request a permission with user approval
  /revoke <permission>   revoke a permission
  /fullai                enable Full AI Mode
  /sleep  /wake          phone sleep / wake
  /status                combined status snapshot
  /uninstall             end of life (terminal)
  /quit                  exit the session
anything else is handled as an interaction`

func runInteract(cmd *cobra.Command, args []string) {
	c, err := companion.New(loadConfig(), slog.Default())
	if err != nil {
		exitErr("start session", err)
	}

	fmt.Printf("session started, stage=%s\n%s\n", c.Life.Stage(), interactHelp)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if !handleSessionCommand(c, line) {
				return
			}
			continue
		}

		entry, err := c.HandleInteraction("text", line, "I'll remember that.")
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Printf("[%s] stage=%s interactions=%d\n", entry.ID, c.Life.Stage(), c.Life.InteractionCount())
	}
}

// handleSessionCommand executes one /-command; returns false to quit.
func handleSessionCommand(c *companion.Companion, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit":
		return false

	case "/grant", "/revoke":
		if len(fields) != 2 {
			fmt.Printf("usage: %s <permission>\n", fields[0])
			return true
		}
		p := model.PermissionType(fields[1])
		if fields[0] == "/grant" {
			if c.Life.RequestPermission(p, true) {
				fmt.Printf("granted %s\n", p)
			} else {
				fmt.Printf("could not grant %s\n", p)
			}
			return true
		}
		c.Life.RevokePermission(p)
		fmt.Printf("revoked %s\n", p)

	case "/fullai":
		if c.Life.EnableFullAIMode() {
			fmt.Println("Full AI Mode enabled")
		} else {
			fmt.Println("Full AI Mode requires the full_ai_mode permission")
		}

	case "/sleep":
		c.Life.OnPhoneSleep()
		fmt.Printf("stage=%s\n", c.Life.Stage())

	case "/wake":
		c.Life.OnPhoneActive()
		fmt.Printf("stage=%s\n", c.Life.Stage())

	case "/status":
		b, _ := json.MarshalIndent(c.Status(), "", "  ")
		fmt.Println(string(b))

	case "/uninstall":
		c.Life.OnUninstall()
		fmt.Printf("stage=%s (terminal)\n", c.Life.Stage())

	default:
		fmt.Println(interactHelp)
	}
	return true
}
