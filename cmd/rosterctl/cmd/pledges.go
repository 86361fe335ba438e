package cmd

import (
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	pledgesCmd.AddCommand(pledgesLookupCmd)
	pledgesCmd.AddCommand(pledgesPurgeCmd)
	rootCmd.AddCommand(pledgesCmd)
}

var pledgesCmd = &cobra.Command{
	Use:   "pledges",
	Short: "Resolve and maintain cached governor pledges.",
}

var pledgesLookupCmd = &cobra.Command{
	Use:   "lookup <name>",
	Short: "Resolves a governor's pledges, using the cache when fresh.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := setup(cmd.Context())
		if err != nil {
			log.Fatal(err)
		}
		defer svc.roster.Close()

		data, err := svc.pledges.Resolve(cmd.Context(), args[0])
		if err != nil {
			log.Fatal(err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Rank", "Domain", "Title"})
		for _, p := range data.Pledges {
			t.AppendRow(table.Row{p.Rank, p.Domain, p.Title})
		}
		t.Render()

		log.Printf("%s (%s, %s): %d pledges", data.Name, data.Party, data.SidoName, len(data.Pledges))
	},
}

var pledgesPurgeCmd = &cobra.Command{
	Use:   "purge <name>",
	Short: "Drops a cached pledge resolution.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := setup(cmd.Context())
		if err != nil {
			log.Fatal(err)
		}
		defer svc.roster.Close()

		deleted, err := svc.pledges.DeleteEntry(cmd.Context(), args[0])
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("deleted %d entries", deleted)
	},
}
