package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var pushUID string

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Run the push pipeline once for a single uid",
	RunE:  runPush,
}

func init() {
	pushCmd.Flags().StringVar(&pushUID, "uid", "", "uid to push a one-off message to")
	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) error {
	if pushUID == "" {
		return errors.New("--uid is required")
	}

	app, err := newApp()
	if err != nil {
		return err
	}

	app.logger.WithField("uid", pushUID).Info("Running one-off push")
	return app.pipeline.Run(pushUID)
}
