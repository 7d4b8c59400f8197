package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"weather-assistant/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ChartAPI renders a chart spec into a PNG hosted under our own base URL.
type ChartAPI interface {
	RenderChart(chartType, title string, labels []string, datasets []ChartDataset) (string, error)
}

type ChartDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BorderColor     string    `json:"borderColor,omitempty"`
	BackgroundColor string    `json:"backgroundColor,omitempty"`
	Fill            bool      `json:"fill"`
}

type chartConfig struct {
	Type    string                 `json:"type"`
	Data    chartData              `json:"data"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type chartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

type ChartClient struct {
	logger     *logrus.Entry
	apiUrl     string // chart-image API, returns PNG bytes
	outputDir  string // where rendered PNGs are persisted
	baseUrl    string // public URL prefix the saved files are served under
	httpClient *http.Client
}

func NewChartClient(logger *logrus.Entry, apiUrl, outputDir, baseUrl string) ChartAPI {
	return &ChartClient{
		logger:     logger,
		apiUrl:     apiUrl,
		outputDir:  outputDir,
		baseUrl:    baseUrl,
		httpClient: http.DefaultClient,
	}
}

func (c *ChartClient) RenderChart(chartType, title string, labels []string, datasets []ChartDataset) (string, error) {
	config := chartConfig{
		Type: chartType,
		Data: chartData{Labels: labels, Datasets: datasets},
		Options: map[string]interface{}{
			"title": map[string]interface{}{
				"display": true,
				"text":    title,
			},
		},
	}

	spec, err := json.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chart config: %w", err)
	}

	query := url.Values{}
	query.Set("c", string(spec))
	query.Set("w", "480")
	query.Set("h", "300")
	query.Set("format", "png")

	resp, err := c.httpClient.Get(c.apiUrl + "?" + query.Encode())
	if err != nil {
		return "", &models.ApiError{Service: "chart", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &models.ApiError{Service: "chart", Status: resp.StatusCode, Message: string(body)}
	}

	png, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &models.ApiError{Service: "chart", Message: err.Error()}
	}

	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create chart directory: %w", err)
	}

	filename := uuid.NewString() + ".png"
	if err := os.WriteFile(filepath.Join(c.outputDir, filename), png, 0o644); err != nil {
		return "", fmt.Errorf("failed to save chart image: %w", err)
	}

	chartUrl := c.baseUrl + "/" + filename
	c.logger.WithFields(logrus.Fields{
		"type": chartType,
		"url":  chartUrl,
	}).Info("Rendered chart")

	return chartUrl, nil
}
