package cmd

import (
	"github.com/jsphweid/musicbin/constants"
	"github.com/jsphweid/musicbin/server"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serves",
	Long:  `Serves the conversions over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.ListenAndServe(constants.GetAddr())
	},
}
