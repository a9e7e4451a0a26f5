package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and clear the stored credential",
	Long: `End the session. The remote logout call is best-effort: the local
credential is cleared even when the identity service is unreachable.`,
	RunE: runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := session.Logout(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}
