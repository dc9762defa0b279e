package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rapidpro/rapidpro-cli/internal/api"
	"github.com/rapidpro/rapidpro-cli/internal/api/v1"
	"github.com/rapidpro/rapidpro-cli/internal/api/v2"
	"github.com/rapidpro/rapidpro-cli/internal/config"
	"github.com/rapidpro/rapidpro-cli/internal/iocontext"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage API credentials",
		Long:  "Store RapidPro hosts and API tokens in the OS keychain, one per profile.",
	}
	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthProfilesCmd())
	cmd.AddCommand(newAuthUseCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		host       string
		token      string
		apiVersion int
		noVerify   bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save credentials for a workspace",
		Long: strings.TrimSpace(`
Save a RapidPro host and API token to the OS keychain.

The token is read from stdin without echo when --token is omitted. It is
checked against the org endpoint before being saved unless --no-verify is set.
Use the global --profile flag to keep several workspaces.
`),
		Example: strings.TrimSpace(`
  rapidpro auth login --host app.rapidpro.io
  rapidpro auth login --host https://rapidpro.example.com/api/v2 --token $TOKEN --profile staging
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			host = strings.TrimSuffix(strings.TrimSpace(host), "/")
			if host == "" {
				return fmt.Errorf("--host is required")
			}
			if apiVersion != 0 && apiVersion != 1 && apiVersion != 2 {
				return fmt.Errorf("--api-version must be 1 or 2")
			}
			if token == "" {
				ioStreams := iocontext.GetIO(cmd.Context())
				if ioStreams.InIsTerminal() {
					_, _ = fmt.Fprint(ioStreams.ErrOut, "API token: ")
				}
				secret, err := ioStreams.ReadSecret()
				if err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}
				token = strings.TrimSpace(secret)
			}
			if token == "" {
				return fmt.Errorf("--token is required")
			}

			account := config.Account{Host: host, Token: token, APIVersion: apiVersion}
			orgName := ""
			if !noVerify {
				name, err := verifyAccount(cmd.Context(), account)
				if err != nil {
					return err
				}
				orgName = name
			}

			if err := config.SaveProfile(flags.Profile, account); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			profile := flags.Profile
			if profile == "" {
				profile = "default"
			}
			if isStructured(cmd) {
				return formatter(cmd).Output(map[string]any{
					"profile": profile,
					"host":    host,
					"org":     orgName,
				})
			}
			printf(cmd, "Credentials saved to profile %q\n", profile)
			printf(cmd, "  Host: %s\n", host)
			if orgName != "" {
				printf(cmd, "  Org:  %s\n", orgName)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&host, "host", "", "RapidPro host (e.g. app.rapidpro.io) or API root URL")
	cmd.Flags().StringVar(&token, "token", "", "API token (prompted when omitted)")
	cmd.Flags().IntVar(&apiVersion, "api-version", 0, "API version for version-neutral commands (1 or 2)")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Save without checking the token")
	return cmd
}

// verifyAccount fetches the org with the given credentials and returns its name.
func verifyAccount(ctx context.Context, account config.Account) (string, error) {
	cfg := api.Config{Host: account.Host, Token: account.Token, Timeout: flags.Timeout}
	if account.APIVersion == 1 {
		c, err := v1.New(cfg)
		if err != nil {
			return "", err
		}
		org, err := c.Org(ctx)
		if err != nil {
			return "", err
		}
		return org.Name, nil
	}
	c, err := v2.New(cfg)
	if err != nil {
		return "", err
	}
	org, err := c.Org(ctx, flags.Retry)
	if err != nil {
		return "", err
	}
	return org.Name, nil
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profile := flags.Profile
			if profile == "" {
				current, err := config.CurrentProfile()
				if err != nil {
					return err
				}
				profile = current
			}
			if err := config.DeleteProfile(profile); err != nil {
				return fmt.Errorf("failed to delete credentials: %w", err)
			}
			if isStructured(cmd) {
				return formatter(cmd).Output(map[string]any{"profile": profile, "deleted": true})
			}
			printf(cmd, "Removed profile %q\n", profile)
			return nil
		}),
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active credentials",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			account, err := loadAccount()
			if err != nil {
				return err
			}
			profile := flags.Profile
			if profile == "" {
				if profile, err = config.CurrentProfile(); err != nil {
					return err
				}
			}
			version := account.APIVersion
			if version == 0 {
				version = api.DefaultAPIVersion
			}
			status := map[string]any{
				"profile":     profile,
				"host":        account.Host,
				"root_url":    api.RootURL(account.Host, version),
				"api_version": version,
				"token":       maskToken(account.Token),
			}
			if isStructured(cmd) {
				return formatter(cmd).Output(status)
			}
			return formatter(cmd).KeyValues([][2]string{
				{"Profile", profile},
				{"Host", account.Host},
				{"API root", api.RootURL(account.Host, version)},
				{"Token", maskToken(account.Token)},
			})
		}),
	}
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}

func newAuthProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List saved profiles",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profiles, err := config.ListProfiles()
			if err != nil {
				return err
			}
			current, err := config.CurrentProfile()
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				out := make([]any, len(profiles))
				for i, p := range profiles {
					out[i] = map[string]any{"name": p, "current": p == current}
				}
				return f.Output(out)
			}
			if len(profiles) == 0 {
				f.Empty("No profiles saved")
				return nil
			}
			rows := make([][]string, len(profiles))
			for i, p := range profiles {
				marker := ""
				if p == current {
					marker = "*"
				}
				rows[i] = []string{marker, p}
			}
			return f.Table([]string{"", "Profile"}, rows)
		}),
	}
}

func newAuthUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <profile>",
		Short: "Switch the current profile",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if _, err := config.LoadProfile(args[0]); err != nil {
				return err
			}
			if err := config.SetCurrentProfile(args[0]); err != nil {
				return err
			}
			printf(cmd, "Switched to profile %q\n", args[0])
			return nil
		}),
	}
}
