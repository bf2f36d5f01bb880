package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jameskyle/email-summarizer/internal/artifact"
	"github.com/jameskyle/email-summarizer/internal/credential"
	"github.com/jameskyle/email-summarizer/internal/digest"
	"github.com/jameskyle/email-summarizer/internal/filter"
	"github.com/jameskyle/email-summarizer/internal/mailbox"
	"github.com/jameskyle/email-summarizer/internal/model"
	"github.com/jameskyle/email-summarizer/internal/summarize"
	"github.com/jameskyle/email-summarizer/internal/theme"
)

var (
	cfgPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "email-summarizer",
	Short: "Digest IMAP mailboxes into Markdown summaries",
	Long: `email-summarizer fetches recent messages from a configured IMAP
account and writes two files per run: a raw text dump of the selected
messages and a Markdown digest generated from it. Filter groups defined
per account narrow a run to the senders you care about.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run <account>",
	Short: "Fetch, filter, and digest one account's mail",
	Long: `Fetches messages for the account, applies the optional filter
group, writes the raw text artifact, then asks the generation service
for a Markdown digest and writes it next to the raw file.

A partial run (--partial, only valid with --days 1) picks up messages
received today at or after 09:00 local time. If the morning's full run
already wrote its raw file, the digest is produced as an incremental
update to it; otherwise the partial run stands alone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		filterName, _ := cmd.Flags().GetString("filter-name")
		partial, _ := cmd.Flags().GetBool("partial")
		return runPipeline(cmd.Context(), args[0], days, filterName, partial)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <account>",
	Short: "Verify connectivity and credentials for one account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := model.LoadConfig(cfgPath)
		if err != nil {
			return err
		}

		acct, err := cfg.Account(args[0])
		if err != nil {
			return err
		}

		acct.Password, err = resolvePassword(acct)
		if err != nil {
			return err
		}

		user, err := mailbox.NewClient(acct).Check(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("%s Authenticated as %s\n", theme.Success.Render("✓"), user)
		return nil
	},
}

func runPipeline(
	ctx context.Context,
	accountName string,
	days int,
	filterName string,
	partial bool,
) error {
	// Validated up front so a bad flag combination never opens a connection.
	window := model.RunWindow{Days: days, Partial: partial}
	if err := window.Validate(); err != nil {
		return err
	}

	cfg, err := model.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	acct, err := cfg.Account(accountName)
	if err != nil {
		return err
	}

	// An unknown filter group is caught here, not after the fetch.
	if _, err := filter.Resolve(filterName, acct.Filters); err != nil {
		return err
	}

	acct.Password, err = resolvePassword(acct)
	if err != nil {
		return err
	}

	apiKey, err := resolveAPIKey()
	if err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	runner := digest.NewRunner(
		mailbox.NewClient(acct),
		summarize.New(apiKey, cfg.Summarizer.Model, cfg.Summarizer.MaxTokens),
		artifact.NewWriter(cfg.Output.Dir),
		log,
	)

	result, err := runner.Run(ctx, digest.RunSpec{
		Account:    acct,
		Window:     window,
		FilterName: filterName,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s Wrote raw emails to %s\n", theme.Success.Render("✓"), result.RawPath)
	fmt.Printf("%s Wrote summary to %s\n", theme.Success.Render("✓"), result.MarkdownPath)
	fmt.Println(theme.Detail.Render(
		fmt.Sprintf("%d fetched, %d selected", result.Fetched, result.Selected),
	))
	return nil
}

// resolvePassword returns the account's IMAP password, preferring the config
// file and falling back to the system keyring.
func resolvePassword(acct model.Account) (string, error) {
	if acct.Password != "" {
		return acct.Password, nil
	}

	pwd, err := credential.Get(credential.AccountKey(acct.Name))
	if err != nil || pwd == "" {
		return "", &model.ConfigurationError{
			Field: "accounts",
			Message: fmt.Sprintf(
				"no password for %q: set one in the config file or run `email-summarizer auth set %s`",
				acct.Name, acct.Name,
			),
		}
	}
	return pwd, nil
}

// resolveAPIKey returns the summarizer API key from the system keyring,
// falling back to the ANTHROPIC_API_KEY environment variable.
func resolveAPIKey() (string, error) {
	if key, err := credential.Get(credential.APIKeyName); err == nil && key != "" {
		return key, nil
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return key, nil
	}
	return "", &model.ConfigurationError{
		Field:   "summarizer",
		Message: "no API key: run `email-summarizer auth set-api-key` or set ANTHROPIC_API_KEY",
	}
}

// newLogger builds the run logger: JSON production output by default,
// console debug output with --verbose.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgPath, "config", "auth.yml", "path to the accounts config file",
	)
	rootCmd.PersistentFlags().BoolVar(
		&verbose, "verbose", false, "log at debug level with console output",
	)

	runCmd.Flags().Int("days", 1, "how many days back to fetch")
	runCmd.Flags().String(
		"filter-name", "", "sender filter group to apply (defined per account)",
	)
	runCmd.Flags().Bool(
		"partial", false,
		"only messages received today at or after 09:00; requires --days 1",
	)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, theme.Error.Render(err.Error()))
		os.Exit(1)
	}
}
