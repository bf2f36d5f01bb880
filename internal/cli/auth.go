package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/jameskyle/email-summarizer/internal/credential"
	"github.com/jameskyle/email-summarizer/internal/theme"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage credentials in the system keyring",
	Long: `Stores IMAP passwords and the summarizer API key in the system
keyring so neither has to live in the config file.`,
}

var authSetCmd = &cobra.Command{
	Use:   "set <account>",
	Short: "Store an account's IMAP password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account := args[0]
		secret, err := promptSecret(fmt.Sprintf("IMAP password for %q", account))
		if err != nil {
			return err
		}
		if err := credential.Set(credential.AccountKey(account), secret); err != nil {
			return err
		}
		fmt.Printf("%s Stored password for %q\n", theme.Success.Render("✓"), account)
		return nil
	},
}

var authUnsetCmd = &cobra.Command{
	Use:   "unset <account>",
	Short: "Remove an account's stored IMAP password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account := args[0]
		if err := credential.Delete(credential.AccountKey(account)); err != nil {
			return err
		}
		fmt.Printf("%s Removed password for %q\n", theme.Success.Render("✓"), account)
		return nil
	},
}

var authSetAPIKeyCmd = &cobra.Command{
	Use:   "set-api-key",
	Short: "Store the summarizer API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, err := promptSecret("Anthropic API key")
		if err != nil {
			return err
		}
		if err := credential.Set(credential.APIKeyName, secret); err != nil {
			return err
		}
		fmt.Printf("%s Stored API key\n", theme.Success.Render("✓"))
		return nil
	},
}

// promptSecret reads a secret from the terminal without echoing it.
func promptSecret(title string) (string, error) {
	var secret string
	input := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&secret)

	if err := input.Run(); err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	if strings.TrimSpace(secret) == "" {
		return "", errors.New("empty secret")
	}
	return secret, nil
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authUnsetCmd)
	authCmd.AddCommand(authSetAPIKeyCmd)
	rootCmd.AddCommand(authCmd)
}
