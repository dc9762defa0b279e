package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rapidpro/rapidpro-cli/internal/api"
	"github.com/rapidpro/rapidpro-cli/internal/config"
	"github.com/rapidpro/rapidpro-cli/internal/debug"
	"github.com/rapidpro/rapidpro-cli/internal/dryrun"
	"github.com/rapidpro/rapidpro-cli/internal/iocontext"
	"github.com/rapidpro/rapidpro-cli/internal/outfmt"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output  string
	JQ      string
	Debug   bool
	DryRun  bool
	Compact bool
	Yes     bool
	Retry   bool
	Profile string
	Config  string
	Timeout time.Duration
}

// flags is reset at the start of every Execute call. Code outside a
// command's RunE reads whatever the previous run left behind.
var flags rootFlags

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	flags = rootFlags{}
	api.Version = version

	root := &cobra.Command{
		Use:                "rapidpro",
		Short:              "CLI for the RapidPro messaging platform API",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			settings, err := config.LoadSettings(flags.Config)
			if err != nil {
				return err
			}
			ctx = withSettings(ctx, settings)

			output := flags.Output
			if !cmd.Flags().Changed("output") {
				output = settings.Output()
			}
			if flags.JQ != "" && !cmd.Flags().Changed("output") {
				output = "json"
			}
			mode, err := outfmt.Parse(output)
			if err != nil {
				return err
			}
			if flags.JQ != "" && mode == outfmt.Text {
				return fmt.Errorf("--jq requires --output json, jsonl or yaml")
			}
			ctx = outfmt.WithMode(ctx, mode)
			ctx = outfmt.WithCompact(ctx, flags.Compact)
			ctx = outfmt.WithQuery(ctx, flags.JQ)

			if !cmd.Flags().Changed("retry") {
				flags.Retry = settings.Retry()
			}
			if flags.Timeout <= 0 {
				flags.Timeout = settings.Timeout()
			}

			io := iocontext.DefaultIO()
			io.Out = cmd.OutOrStdout()
			io.ErrOut = cmd.ErrOrStderr()
			io.In = cmd.InOrStdin()
			ctx = iocontext.WithIO(ctx, io)

			debug.SetupLogger(io.ErrOut, flags.Debug)
			ctx = debug.WithDebug(ctx, flags.Debug)
			ctx = dryrun.WithDryRun(ctx, flags.DryRun)

			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetArgs(args)
	root.SetContext(ctx)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", "text", "Output format: text, json, jsonl or yaml")
	pf.StringVar(&flags.JQ, "jq", "", "Filter structured output with a jq expression")
	pf.BoolVar(&flags.Debug, "debug", false, "Log HTTP requests to stderr")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Preview write operations without sending them")
	pf.BoolVar(&flags.Compact, "compact", false, "Compact JSON output")
	pf.BoolVarP(&flags.Yes, "yes", "y", false, "Skip confirmation prompts")
	pf.BoolVar(&flags.Retry, "retry", false, "Wait and retry when the API rate limit is exceeded")
	pf.StringVar(&flags.Profile, "profile", "", "Credentials profile to use")
	pf.StringVar(&flags.Config, "config", "", "Settings file (default $XDG_CONFIG_HOME/rapidpro-cli/config.yaml)")
	pf.DurationVar(&flags.Timeout, "timeout", 0, "HTTP request timeout (default from settings, 30s)")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newOrgCmd())
	root.AddCommand(newContactsCmd())
	root.AddCommand(newGroupsCmd())
	root.AddCommand(newLabelsCmd())
	root.AddCommand(newFieldsCmd())
	root.AddCommand(newFlowsCmd())
	root.AddCommand(newCampaignsCmd())
	root.AddCommand(newChannelsCmd())
	root.AddCommand(newGlobalsCmd())
	root.AddCommand(newRunsCmd())
	root.AddCommand(newMessagesCmd())
	root.AddCommand(newBroadcastsCmd())
	root.AddCommand(newFlowStartsCmd())
	root.AddCommand(newResultsCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newVersionCmd())

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			_, _ = fmt.Fprintln(root.ErrOrStderr(), enhanceUnknownError(err, root, targetCmd))
		}
		return err
	}
	return nil
}

// enhanceUnknownError adds "did you mean" hints to unknown command and flag errors.
func enhanceUnknownError(err error, root, target *cobra.Command) string {
	msg := err.Error()

	if strings.Contains(msg, "unknown command") {
		if unknown := extractQuoted(msg); unknown != "" {
			parent := root
			if target != nil {
				parent = target
			}
			var names []string
			for _, c := range parent.Commands() {
				if c.IsAvailableCommand() {
					names = append(names, c.Name())
					names = append(names, c.Aliases...)
				}
			}
			if suggestion := suggestCommand(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?", msg, suggestion)
			}
		}
		return msg
	}

	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown shorthand flag") {
		unknown := extractFlag(msg)
		if unknown == "" {
			return msg
		}
		if target == nil {
			target = root
		}
		var names []string
		collect := func(fs *pflag.FlagSet) {
			fs.VisitAll(func(f *pflag.Flag) {
				names = append(names, "--"+f.Name)
			})
		}
		collect(target.Flags())
		collect(target.InheritedFlags())

		help := target.CommandPath() + " --help"
		if suggestion := suggestFlag(unknown, names); suggestion != "" {
			return fmt.Sprintf("%s\n\nDid you mean %q?\nRun %q to see supported flags.", msg, suggestion, help)
		}
		return fmt.Sprintf("%s\n\nRun %q to see supported flags.", msg, help)
	}

	return msg
}

func extractQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

// extractFlag pulls "--name" out of a pflag error message.
func extractFlag(s string) string {
	idx := strings.Index(s, "--")
	if idx < 0 {
		return ""
	}
	rest := s[idx:]
	if end := strings.IndexAny(rest, " =\n"); end >= 0 {
		rest = rest[:end]
	}
	return rest
}
