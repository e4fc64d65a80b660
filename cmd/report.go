package cmd

import (
	"fmt"

	"github.com/jsphweid/musicbin/batch"
	"github.com/jsphweid/musicbin/constants"
	"github.com/jsphweid/musicbin/db"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Creates a report",
	Long:  `Reports on the shards in the out dir.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := batch.Analyze(constants.GetOutDir())
		if err != nil {
			return err
		}
		fmt.Printf("shards: %v\n", report.NumShards)
		fmt.Printf("scores: %v\n", report.NumScores)
		fmt.Printf("totalBytes: %v\n", report.TotalBytes)
		fmt.Printf("dataBytes: %v\n", report.DataBytes)
		fmt.Printf("avgIndexPercent: %v\n", report.AvgIndexPercent)

		endpoint := constants.GetDynamoEndpoint()
		if endpoint == "" {
			return nil
		}
		store, err := db.Connect(endpoint, constants.GetDynamoRegion(), constants.GetDynamoTable())
		if err != nil {
			return err
		}
		rows, err := batch.Manifests(constants.GetOutDir(), store)
		if err != nil {
			return err
		}
		var elements int
		for _, m := range rows {
			elements += m.Elements
		}
		fmt.Printf("manifests: %v\n", len(rows))
		fmt.Printf("elements: %v\n", elements)
		return nil
	},
}
