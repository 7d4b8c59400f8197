package main

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	SEVERITY    = "severity"
	MESSAGE     = "message"
	TIMESTAMP   = "timestamp"
	COMPONENT   = "component"
	SERVICENAME = "weather-assistant"
)

const version = "1.2.0"

var rootCmd = &cobra.Command{
	Use:   "weather-assistant",
	Short: "Scheduled weather push bot",
	Long: `weather-assistant fetches daily forecasts, asks an LLM for a clothing
suggestion and pushes an HTML weather report to subscribed users at their
configured push time.`,
}

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  TIMESTAMP,
			logrus.FieldKeyLevel: SEVERITY,
			logrus.FieldKeyMsg:   MESSAGE,
		},
	})

	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env file not found")
	}

	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Fatal("Command failed")
	}
}
