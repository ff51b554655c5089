package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognee/cognee-cli/internal/config"
	"github.com/cognee/cognee-cli/internal/dryrun"
	"github.com/cognee/cognee-cli/internal/validation"
	"github.com/cognee/cognee-cli/pkg/cognee"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate and manage stored API keys",
		Long: strings.TrimSpace(`
Log in and out, register users and manage the API key stored in the system
keyring for a profile.

API keys are stored in the system keyring (Keychain on macOS, Secret Service
on Linux, Credential Manager on Windows). Set COGNEE_KEYRING_BACKEND=file to
use an encrypted file store instead.
`),
	}
	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthRegisterCmd())
	cmd.AddCommand(newAuthForgotPasswordCmd())
	cmd.AddCommand(newAuthVerifyCmd())
	cmd.AddCommand(newAuthSaveKeyCmd())
	cmd.AddCommand(newAuthForgetKeyCmd())
	return cmd
}

// readSecret returns flagValue, or the first line of stdin when fromStdin is
// set.
func readSecret(cmd *cobra.Command, flagValue string, fromStdin bool, name string) (string, error) {
	if fromStdin {
		data, err := readInput(cmd, "-")
		if err != nil {
			return "", err
		}
		line, _, _ := strings.Cut(data, "\n")
		flagValue = strings.TrimSpace(line)
	}
	if flagValue == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return flagValue, nil
}

func newAuthLoginCmd() *cobra.Command {
	var email, password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		Example: strings.TrimSpace(`
  cognee auth login --email ada@example.com --password-stdin < password.txt
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := validation.ValidateEmail(email); err != nil {
				return fmt.Errorf("invalid argument --email: %w", err)
			}
			pw, err := readSecret(cmd, password, passwordStdin, "--password")
			if err != nil {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			user, err := client.Auth().Login(cmdContext(cmd), email, pw)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if isStructured(cmd) {
				return printJSON(cmd, user)
			}
			printAction(cmd, "Logged in as", orDash(user.Email), user.ID, "")
			return nil
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prefer --password-stdin)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ok, err := client.Auth().Logout(cmdContext(cmd))
			if err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"success": ok})
			}
			printAction(cmd, "Logged", "out", "", "")
			return nil
		}),
	}
}

func newAuthRegisterCmd() *cobra.Command {
	var email, password string
	var passwordStdin bool
	var fields []string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user",
		Example: strings.TrimSpace(`
  cognee auth register --email ada@example.com --password-stdin --field name=Ada
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := validation.ValidateEmail(email); err != nil {
				return fmt.Errorf("invalid argument --email: %w", err)
			}
			pw, err := readSecret(cmd, password, passwordStdin, "--password")
			if err != nil {
				return err
			}
			body, err := parseFields(fields, "")
			if err != nil {
				return err
			}
			body["email"] = email

			preview := map[string]any{}
			for k, v := range body {
				preview[k] = v
			}
			preview["password"] = "********"
			if ok, err := maybeDryRun(cmd, &dryrun.Preview{
				Operation: "register",
				Resource:  "user " + email,
				Method:    "POST",
				Path:      "api/v1/auth/register",
				Body:      preview,
			}); ok {
				return err
			}
			body["password"] = pw

			client, err := getClient()
			if err != nil {
				return err
			}
			user, err := client.Auth().Register(cmdContext(cmd), body)
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			if isStructured(cmd) {
				return printJSON(cmd, user)
			}
			printAction(cmd, "Registered", "user", user.ID, user.Email)
			return nil
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prefer --password-stdin)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "Extra registration field key=value (repeatable)")
	return cmd
}

func newAuthForgotPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Request a password reset email",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateEmail(args[0]); err != nil {
				return fmt.Errorf("invalid argument: %w", err)
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			ok, err := client.Auth().ForgotPassword(cmdContext(cmd), args[0])
			if err != nil {
				return fmt.Errorf("password reset request failed: %w", err)
			}
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"success": ok})
			}
			printAction(cmd, "Requested", "password reset for", args[0], "")
			return nil
		}),
	}
}

func newAuthVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <token>",
		Short: "Verify an account with the token from the verification email",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ok, err := client.Auth().Verify(cmdContext(cmd), args[0])
			if err != nil {
				return fmt.Errorf("verification failed: %w", err)
			}
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"success": ok})
			}
			printAction(cmd, "Verified", "account", "", "")
			return nil
		}),
	}
}

func newAuthSaveKeyCmd() *cobra.Command {
	var key string
	var keyStdin bool

	cmd := &cobra.Command{
		Use:   "save-key",
		Short: "Store an API key in the keyring for the selected profile",
		Example: strings.TrimSpace(`
  cognee auth save-key --key-stdin < key.txt
  cognee --profile staging auth save-key --key sk-...
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			value, err := readSecret(cmd, key, keyStdin, "--key")
			if err != nil {
				return err
			}
			// Reject keys the client would refuse to send.
			if _, err := cognee.NewConfig(config.DefaultBaseURL, value, cognee.DefaultTimeoutSeconds, 0); err != nil {
				return err
			}
			profile, err := config.ActiveProfile(newClientFactory().overrides)
			if err != nil {
				return err
			}
			if err := config.SaveAPIKey(profile, value); err != nil {
				return fmt.Errorf("failed to save API key: %w", err)
			}
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"profile": profile, "saved": true})
			}
			printAction(cmd, "Saved", "API key for profile", profile, "")
			return nil
		}),
	}

	cmd.Flags().StringVar(&key, "key", "", "API key")
	cmd.Flags().BoolVar(&keyStdin, "key-stdin", false, "Read the API key from stdin")
	return cmd
}

func newAuthForgetKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "forget-key",
		Aliases: []string{"delete-key"},
		Short:   "Remove the stored API key for the selected profile",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profile, err := config.ActiveProfile(newClientFactory().overrides)
			if err != nil {
				return err
			}
			err = config.DeleteAPIKey(profile)
			if errors.Is(err, config.ErrNoStoredKey) {
				return fmt.Errorf("no API key stored for profile %q", profile)
			}
			if err != nil {
				return fmt.Errorf("failed to delete API key: %w", err)
			}
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"profile": profile, "deleted": true})
			}
			printAction(cmd, "Removed", "API key for profile", profile, "")
			return nil
		}),
	}
}
