package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rapidpro/rapidpro-cli/internal/api/v2"
)

func newCampaignsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "campaigns",
		Aliases: []string{"campaign"},
		Short:   "Inspect campaigns and their events",
	}
	cmd.AddCommand(newCampaignsListCmd())
	cmd.AddCommand(newCampaignEventsCmd())
	return cmd
}

func newCampaignsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List campaigns",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getV2Client(cmd)
			if err != nil {
				return err
			}
			campaigns, err := client.Campaigns("").All(cmd.Context(), flags.Retry)
			if err != nil {
				return err
			}
			return writeList(cmd, v2.CampaignSchema, campaigns,
				[]string{"UUID", "Name", "Group", "Archived", "Created"},
				func(c *v2.Campaign) []string {
					return []string{c.UUID, c.Name, refName(c.Group), formatBool(c.Archived), formatTime(c.CreatedOn)}
				})
		}),
	}
}

func newCampaignEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events [campaign-uuid]",
		Short: "List campaign events",
		Args:  cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getV2Client(cmd)
			if err != nil {
				return err
			}
			var campaign any
			if len(args) == 1 {
				campaign = args[0]
			}
			events, err := client.CampaignEvents("", campaign).All(cmd.Context(), flags.Retry)
			if err != nil {
				return err
			}
			return writeList(cmd, v2.CampaignEventSchema, events,
				[]string{"UUID", "Campaign", "Relative to", "Offset", "Action"},
				func(e *v2.CampaignEvent) []string {
					relative := ""
					if e.RelativeTo != nil {
						relative = e.RelativeTo.Name
					}
					offset := fmt.Sprintf("%s %s", formatInt(e.Offset), e.Unit)
					action := ""
					if e.Flow != nil {
						action = "flow: " + e.Flow.Name
					} else if e.Message != nil {
						action = "message: " + truncate(fmt.Sprint(e.Message), 40)
					}
					return []string{e.UUID, refName(e.Campaign), relative, offset, action}
				})
		}),
	}
}
