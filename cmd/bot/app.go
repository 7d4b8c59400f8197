package main

import (
	"fmt"

	"weather-assistant/internal/handler"
	"weather-assistant/internal/models"
	"weather-assistant/internal/pipeline"
	"weather-assistant/internal/repository"
	"weather-assistant/internal/scheduler"
	"weather-assistant/internal/utils"

	"github.com/sirupsen/logrus"
)

// App wires every component together for the CLI commands.
type App struct {
	logger          *logrus.Entry
	envVars         *EnvVars
	directory       *repository.LocationDirectory
	prefs           repository.PreferenceRepository
	pusher          utils.PusherAPI
	pipeline        *pipeline.Pipeline
	scheduler       *scheduler.Scheduler
	commands        *handler.CommandHandler
	defaultLocation models.Location
}

func newApp() (*App, error) {
	logger := logrus.WithField(COMPONENT, SERVICENAME)
	envVars := getEnvironmentVariables()

	directory, err := repository.NewLocationDirectory()
	if err != nil {
		return nil, err
	}

	defaultLocation, ok := directory.ResolveCode(envVars.defaultLocationCode)
	if !ok {
		return nil, fmt.Errorf("DEFAULT_LOCATION_CODE %q is not in the location directory", envVars.defaultLocationCode)
	}

	prefs := repository.NewPreferenceRepository(logger, envVars.preferencesPath, directory, defaultLocation)

	weatherClient := utils.NewWeatherClient(logger, envVars.weatherHost, utils.WeatherCredentials{
		ProjectID:  envVars.weatherProjectId,
		KeyID:      envVars.weatherKeyId,
		PrivateKey: envVars.weatherPrivateKey,
		APIKey:     envVars.weatherApiKey,
	})
	openaiClient := utils.NewOpenAIClient(logger, envVars.openaiApiKey, envVars.openaiBaseUrl, envVars.openaiModel)
	chartClient := utils.NewChartClient(logger, envVars.chartApiUrl, envVars.chartDir, envVars.chartBaseUrl)
	pusherClient := utils.NewPusherClient(logger, envVars.pusherBaseUrl, envVars.pusherAppToken)

	pushPipeline := pipeline.NewPipeline(logger, prefs, weatherClient, openaiClient, chartClient, pusherClient, defaultLocation)

	return &App{
		logger:          logger,
		envVars:         envVars,
		directory:       directory,
		prefs:           prefs,
		pusher:          pusherClient,
		pipeline:        pushPipeline,
		scheduler:       scheduler.New(logger, pusherClient, prefs, pushPipeline),
		commands:        handler.NewCommandHandler(logger, prefs, directory),
		defaultLocation: defaultLocation,
	}, nil
}
