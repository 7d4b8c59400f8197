package main

import "os"

// EnvVars carries all process configuration. Credentials are allowed to be
// empty here: the client that needs one reports a ConfigurationError on its
// first use instead of failing startup.
type EnvVars struct {
	pusherBaseUrl  string
	pusherAppToken string

	weatherHost       string
	weatherProjectId  string
	weatherKeyId      string
	weatherPrivateKey string
	weatherApiKey     string

	openaiApiKey  string
	openaiBaseUrl string
	openaiModel   string

	chartApiUrl  string
	chartDir     string
	chartBaseUrl string

	preferencesPath     string
	defaultLocationCode string
	port                string
}

func getEnvironmentVariables() *EnvVars {
	port := getEnv("PORT", "3000")

	return &EnvVars{
		pusherBaseUrl:  getEnv("PUSHER_BASE_URL", "https://wxpusher.zjiecode.com"),
		pusherAppToken: os.Getenv("PUSHER_APP_TOKEN"),

		weatherHost:       getEnv("WEATHER_API_HOST", "https://devapi.qweather.com"),
		weatherProjectId:  os.Getenv("WEATHER_PROJECT_ID"),
		weatherKeyId:      os.Getenv("WEATHER_KEY_ID"),
		weatherPrivateKey: os.Getenv("WEATHER_PRIVATE_KEY"),
		weatherApiKey:     os.Getenv("WEATHER_API_KEY"),

		openaiApiKey:  os.Getenv("OPENAI_API_KEY"),
		openaiBaseUrl: os.Getenv("OPENAI_BASE_URL"),
		openaiModel:   os.Getenv("OPENAI_MODEL"),

		chartApiUrl:  getEnv("CHART_API_URL", "https://quickchart.io/chart"),
		chartDir:     getEnv("CHART_DIR", "./data/charts"),
		chartBaseUrl: getEnv("CHART_BASE_URL", "http://localhost:"+port+"/charts"),

		preferencesPath:     getEnv("PREFERENCES_PATH", "./data/preferences.json"),
		defaultLocationCode: getEnv("DEFAULT_LOCATION_CODE", "101010100"),
		port:                port,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
