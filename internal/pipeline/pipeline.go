package pipeline

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"weather-assistant/internal/formatter"
	"weather-assistant/internal/models"
	"weather-assistant/internal/repository"
	"weather-assistant/internal/utils"

	"github.com/sirupsen/logrus"
)

// Pipeline runs the fetch → suggest → format → push sequence for one user.
type Pipeline struct {
	logger          *logrus.Entry
	prefs           repository.PreferenceRepository
	weather         utils.WeatherAPI
	advisor         utils.SuggestionAPI
	charts          utils.ChartAPI
	pusher          utils.PusherAPI
	defaultLocation models.Location
}

func NewPipeline(logger *logrus.Entry, prefs repository.PreferenceRepository, weather utils.WeatherAPI, advisor utils.SuggestionAPI, charts utils.ChartAPI, pusher utils.PusherAPI, defaultLocation models.Location) *Pipeline {
	return &Pipeline{
		logger:          logger,
		prefs:           prefs,
		weather:         weather,
		advisor:         advisor,
		charts:          charts,
		pusher:          pusher,
		defaultLocation: defaultLocation,
	}
}

// Run executes the full push pipeline for a single uid. A failure aborts only
// this user: the caller keeps going with the next one.
func (p *Pipeline) Run(uid string) error {
	pref := p.prefs.GetPreference(uid)

	loc := pref.Location
	// 舊版存檔可能把地區代碼存成字面量 "undefined"
	if loc.Code == "" || loc.Code == "undefined" {
		loc = p.defaultLocation
	}

	forecast, err := p.weather.GetDailyForecast(loc)
	if err != nil {
		return fmt.Errorf("failed to fetch forecast for %s: %w", uid, err)
	}

	tomorrow, err := forecast.Tomorrow()
	if err != nil {
		return fmt.Errorf("forecast for %s unusable: %w", loc.Code, err)
	}

	advice, err := p.advisor.ClothingAdvice(tomorrow)
	if err != nil {
		// 建議失敗不影響天氣推播本身
		p.logger.WithError(err).WithField("uid", uid).Warn("Clothing advice unavailable, continuing without it")
		advice = ""
	}

	charts := p.renderCharts(forecast)

	content := formatter.DailyMessage(forecast, advice, charts)
	summary := formatter.Summary(loc, tomorrow)

	if err := p.pusher.SendMessage(content, summary, utils.ContentTypeHTML, []string{uid}); err != nil {
		return fmt.Errorf("failed to push message to %s: %w", uid, err)
	}

	p.logger.WithFields(logrus.Fields{
		"uid":      uid,
		"location": loc.Code,
	}).Info("Push pipeline completed")

	return nil
}

// renderCharts draws the three trend charts concurrently and joins before
// returning. Each chart fails independently; a failed one is simply omitted
// from the final message.
func (p *Pipeline) renderCharts(forecast *models.DailyForecast) models.ChartLinks {
	labels := make([]string, 0, len(forecast.Days))
	minTemps := make([]float64, 0, len(forecast.Days))
	maxTemps := make([]float64, 0, len(forecast.Days))
	precip := make([]float64, 0, len(forecast.Days))
	wind := make([]float64, 0, len(forecast.Days))

	for _, day := range forecast.Days {
		labels = append(labels, shortDate(day.FxDate))
		minTemps = append(minTemps, parseNumber(day.TempMin))
		maxTemps = append(maxTemps, parseNumber(day.TempMax))
		precip = append(precip, parseNumber(day.Precip))
		wind = append(wind, parseNumber(day.WindScaleDay))
	}

	var links models.ChartLinks
	var wg sync.WaitGroup

	render := func(target *string, chartType, title string, datasets []utils.ChartDataset) {
		defer wg.Done()
		url, err := p.charts.RenderChart(chartType, title, labels, datasets)
		if err != nil {
			p.logger.WithError(err).WithField("chart", title).Warn("Chart rendering failed, omitting from message")
			return
		}
		*target = url
	}

	wg.Add(3)
	go render(&links.Temperature, "line", "气温趋势 (°C)", []utils.ChartDataset{
		{Label: "最高气温", Data: maxTemps, BorderColor: "#e74c3c"},
		{Label: "最低气温", Data: minTemps, BorderColor: "#3498db"},
	})
	go render(&links.Rainfall, "bar", "降水量 (mm)", []utils.ChartDataset{
		{Label: "降水量", Data: precip, BackgroundColor: "#5dade2"},
	})
	go render(&links.Wind, "bar", "风力等级", []utils.ChartDataset{
		{Label: "白天风力", Data: wind, BackgroundColor: "#58d68d"},
	})
	wg.Wait()

	return links
}

// parseNumber reads the leading number of a forecast field. Ranges like the
// wind scale "3-4" resolve to their first value; anything unparsable is 0.
func parseNumber(value string) float64 {
	if idx := strings.IndexAny(value, "-~"); idx > 0 {
		value = value[:idx]
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return n
}

// shortDate trims "2026-08-26" to "08-26" for chart labels.
func shortDate(fxDate string) string {
	if len(fxDate) == len("2006-01-02") {
		return fxDate[5:]
	}
	return fxDate
}
