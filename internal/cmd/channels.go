package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rapidpro/rapidpro-cli/internal/api/v2"
)

func newChannelsCmd() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:     "channels",
		Aliases: []string{"channel"},
		Short:   "List channels",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getV2Client(cmd)
			if err != nil {
				return err
			}
			channels, err := client.Channels("", address).All(cmd.Context(), flags.Retry)
			if err != nil {
				return err
			}
			return writeList(cmd, v2.ChannelSchema, channels,
				[]string{"UUID", "Name", "Address", "Country", "Last seen"},
				func(c *v2.Channel) []string {
					return []string{c.UUID, c.Name, c.Address, c.Country, formatTime(c.LastSeen)}
				})
		}),
	}
	cmd.Flags().StringVar(&address, "address", "", "Filter by channel address")
	return cmd
}
