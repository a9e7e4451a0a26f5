package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/bestpractice/identity-system/internal/routes"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show local session state",
	Long: `Display the rehydrated session state without calling the identity
service, plus the client routes the session may access.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().Bool("json", false, "output as JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	snap := session.Snapshot()

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	if snap.IsAuthenticated {
		fmt.Println("Session: authenticated")
		if snap.User != nil {
			fmt.Printf("User:    %s <%s> (%s)\n", snap.User.Name, snap.User.Email, snap.User.Role)
		}
	} else {
		fmt.Println("Session: anonymous")
	}
	if snap.LastError != "" {
		fmt.Printf("Error:   %s\n", snap.LastError)
	}

	paths := make([]string, 0, len(routes.Table))
	for p := range routes.Table {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	fmt.Println("Routes:")
	for _, p := range paths {
		mark := "-"
		if routes.Allowed(p, snap) {
			mark = "+"
		}
		fmt.Printf("  %s %s\n", mark, p)
	}
	return nil
}
