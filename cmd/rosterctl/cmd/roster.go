package cmd

import (
	"log"
	"os"

	"kpolitics-backend/services/roster"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var printBasic bool
var printRegion string

func init() {
	printCmd.Flags().BoolVar(&printBasic, "basic", false, "Print the basic-level roster instead of the metropolitan one.")
	printCmd.Flags().StringVar(&printRegion, "region", "", "Narrow the output to one region.")
	rosterCmd.AddCommand(printCmd)
	rosterCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(rosterCmd)
}

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Inspect and refresh the officeholder rosters.",
}

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Prints the latest published roster snapshot.",
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := setup(cmd.Context())
		if err != nil {
			log.Fatal(err)
		}
		defer svc.roster.Close()

		var snapshot roster.Snapshot
		if printBasic {
			snapshot, err = svc.roster.BasicLevel(cmd.Context(), printRegion)
		} else {
			snapshot, err = svc.roster.Metropolitan(cmd.Context(), printRegion)
		}
		if err != nil {
			log.Fatal(err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Region", "Position", "Name", "Party", "Status", "Notes"})
		for _, o := range snapshot.Officials {
			t.AppendRow(table.Row{o.Region, o.Position, o.Name, o.Party, o.Status, o.Notes})
		}
		t.Render()

		log.Printf("%d officials, last updated %s", len(snapshot.Officials), snapshot.FetchedAt)
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Scrapes both rosters and publishes new snapshots.",
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := setup(cmd.Context())
		if err != nil {
			log.Fatal(err)
		}
		defer svc.roster.Close()

		if err := svc.roster.RefreshAll(cmd.Context()); err != nil {
			log.Fatal(err)
		}
	},
}
