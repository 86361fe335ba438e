package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

var winnersBasic bool

func init() {
	winnersClearCmd.Flags().BoolVar(&winnersBasic, "basic", false, "Clear the basic-level partition instead of the metropolitan one.")
	winnersCmd.AddCommand(winnersClearCmd)
	rootCmd.AddCommand(winnersCmd)
}

var winnersCmd = &cobra.Command{
	Use:   "winners",
	Short: "Maintain the cached election winner partitions.",
}

var winnersClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drops a winner partition so the next reconciliation refetches it.",
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := setup(cmd.Context())
		if err != nil {
			log.Fatal(err)
		}
		defer svc.roster.Close()

		typ := rosterType(winnersBasic)
		if err := svc.roster.ClearWinners(cmd.Context(), typ); err != nil {
			log.Fatal(err)
		}
		log.Printf("cleared %s winner partition", typ)
	},
}
