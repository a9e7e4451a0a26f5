// Package cli contains all sessionctl commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bestpractice/identity-system/internal/core/ports"
	"github.com/bestpractice/identity-system/internal/core/service"
	"github.com/bestpractice/identity-system/internal/infrastructure/config"
	redisdriver "github.com/bestpractice/identity-system/internal/infrastructure/db/redis"
	"github.com/bestpractice/identity-system/internal/infrastructure/httpapi"
	"github.com/bestpractice/identity-system/internal/infrastructure/store/file"
	"github.com/bestpractice/identity-system/internal/infrastructure/store/redisstore"
	"github.com/bestpractice/identity-system/pkg/logger"
)

var (
	apiURL   string
	credFile string
	verbose  bool

	log     zerolog.Logger
	session *service.SessionService
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sessionctl",
	Short: "Session client for the identity service",
	Long: `sessionctl manages an authenticated session against the identity service.

The session credential persists in a per-user file, so a login survives
across invocations until logout or token expiry.

Example usage:
  sessionctl login --email a@b.com     # Authenticate and store the session
  sessionctl whoami                    # Fetch the current user
  sessionctl status                    # Show local session state
  sessionctl logout                    # End the session`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initSession()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "identity service base URL (default from API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&credFile, "credential-file", "", "session file path (default per-user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// initSession composes the client stack: config → logger → credential store
// → gateway → identity adapter → session facade.
func initSession() error {
	cfg := config.LoadClient()
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	if credFile != "" {
		cfg.CredentialFile = credFile
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log = logger.Init(logger.Options{
		Level:  level,
		Pretty: cfg.Env == "development",
		Output: os.Stderr,
	})

	creds, err := newCredentialStore(cfg)
	if err != nil {
		return err
	}
	gateway := httpapi.NewClient(httpapi.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.HTTPTimeout,
	}, creds, log)
	identity := service.NewIdentityService(gateway, creds, log)
	session = service.NewSessionService(creds, identity, log)
	return nil
}

// newCredentialStore picks Redis when configured, the per-user file otherwise.
func newCredentialStore(cfg *config.ClientConfig) (ports.CredentialStore, error) {
	if cfg.CredentialRedisAddr != "" {
		client, err := redisdriver.Connect(context.Background(), redisdriver.Config{
			Addr: cfg.CredentialRedisAddr,
			DB:   cfg.CredentialRedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect credential store: %w", err)
		}
		return redisstore.New(client, "sessionctl:"), nil
	}

	path := cfg.CredentialFile
	if path == "" {
		p, err := file.DefaultPath("sessionctl")
		if err != nil {
			return nil, fmt.Errorf("resolve credential path: %w", err)
		}
		path = p
	}
	return file.New(path), nil
}
