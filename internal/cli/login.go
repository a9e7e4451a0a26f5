package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bestpractice/identity-system/internal/validate"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and store the session credential",
	RunE:  runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	if !validate.Email(email) {
		return fmt.Errorf("%q is not a valid email address", email)
	}

	user, err := session.Login(cmd.Context(), email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Printf("Logged in as %s <%s> (%s)\n", user.Name, user.Email, user.Role)
	return nil
}
