package cmd

import (
	"strconv"

	"github.com/jsphweid/musicbin/batch"
	"github.com/jsphweid/musicbin/constants"
	"github.com/jsphweid/musicbin/db"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch <dir> [maxNum]",
	Short: "Creates a MusicBin dataset",
	Long:  `Converts every MusicXML file under dir into shards in the out dir.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var maxNum int
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			maxNum = n
		}
		return Batch(args[0], maxNum)
	},
}

func Batch(dir string, maxNum int) error {
	opts := batch.Options{InDir: dir, OutDir: constants.GetOutDir(), MaxFiles: maxNum}
	if endpoint := constants.GetDynamoEndpoint(); endpoint != "" {
		store, err := db.Connect(endpoint, constants.GetDynamoRegion(), constants.GetDynamoTable())
		if err != nil {
			return err
		}
		opts.Store = store
	}
	_, err := batch.Run(opts)
	return err
}
