package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubmed-search/internal/oai"
)

var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "Print the ListRecords request URL without fetching it",
	Long: `URL builds the OAI-PMH request from --metadata_prefix, --from_dt,
--until_dt and --set_str exactly as a harvest would and prints it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFrom(viper.GetViper())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), oai.BuildURL(cfg.Query))
		return err
	},
}
