package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rapidpro/rapidpro-cli/internal/api/v1"
	"github.com/rapidpro/rapidpro-cli/internal/api/v2"
)

func newOrgCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "org",
		Short: "Show the workspace the token belongs to",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			f, err := newClientFactory(cmd)
			if err != nil {
				return err
			}

			if f.account.APIVersion == 1 {
				client, err := f.v1()
				if err != nil {
					return err
				}
				org, err := client.Org(cmd.Context())
				if err != nil {
					return err
				}
				return writeObject(cmd, v1.OrgSchema, org, func(o *v1.Org) [][2]string {
					return [][2]string{
						{"Name", o.Name},
						{"Country", o.Country},
						{"Languages", strings.Join(o.Languages, ", ")},
						{"Timezone", o.Timezone},
					}
				})
			}

			client, err := f.v2()
			if err != nil {
				return err
			}
			org, err := client.Org(cmd.Context(), flags.Retry)
			if err != nil {
				return err
			}
			return writeObject(cmd, v2.OrgSchema, org, func(o *v2.Org) [][2]string {
				return [][2]string{
					{"UUID", o.UUID},
					{"Name", o.Name},
					{"Country", o.Country},
					{"Languages", strings.Join(o.Languages, ", ")},
					{"Primary language", o.PrimaryLanguage},
					{"Timezone", o.Timezone},
					{"Date style", o.DateStyle},
				}
			})
		}),
	}
}
