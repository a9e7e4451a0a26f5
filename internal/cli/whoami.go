package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Fetch the current user from the identity service",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)

	whoamiCmd.Flags().Bool("json", false, "output as JSON")
}

func runWhoami(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	user, err := session.RefreshCurrentUser(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch current user: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(user)
	}

	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	fmt.Printf("  id:    %s\n", user.ID)
	fmt.Printf("  role:  %s\n", user.Role)
	if user.Bio != "" {
		fmt.Printf("  bio:   %s\n", user.Bio)
	}
	return nil
}
