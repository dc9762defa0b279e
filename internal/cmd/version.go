package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rapidpro/rapidpro-cli/internal/update"
)

// version is set at build time via ldflags
var version = "dev"

// newUpdateChecker is swapped in tests.
var newUpdateChecker = update.NewChecker

func newVersionCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			var result *update.Result
			if check {
				r, err := newUpdateChecker().Check(cmd.Context(), version)
				if err != nil && !errors.Is(err, update.ErrDevBuild) {
					return fmt.Errorf("update check failed: %w", err)
				}
				result = r
			}

			if isStructured(cmd) {
				out := map[string]any{"version": version}
				if result != nil {
					out["latest_version"] = result.LatestVersion
					out["update_available"] = result.UpdateAvailable
					out["update_url"] = result.UpdateURL
				}
				return formatter(cmd).Output(out)
			}

			printf(cmd, "rapidpro-cli version %s\n", version)
			if result != nil && result.UpdateAvailable {
				printf(cmd, "\nUpdate available: %s -> %s\n", result.CurrentVersion, result.LatestVersion)
				printf(cmd, "Download: %s\n", result.UpdateURL)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&check, "check", false, "Check GitHub for a newer release")
	return cmd
}
