package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bestpractice/identity-system/internal/core/ports"
	"github.com/bestpractice/identity-system/internal/validate"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long: `Create a new account. Registration does not authenticate; run
"sessionctl login" afterwards.`,
	RunE: runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().String("name", "", "display name")
	registerCmd.Flags().String("email", "", "account email")
	registerCmd.Flags().String("password", "", "account password")
	registerCmd.MarkFlagRequired("name")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("password")
}

func runRegister(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	if !validate.Email(email) {
		return fmt.Errorf("%q is not a valid email address", email)
	}
	if res := validate.Password(password); !res.IsValid {
		return fmt.Errorf("weak password:\n  %s", strings.Join(res.Errors, "\n  "))
	}

	user, err := session.Register(cmd.Context(), ports.RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Printf("Account created for %s <%s>. Run \"sessionctl login\" to sign in.\n", user.Name, user.Email)
	return nil
}
