package utils

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"weather-assistant/internal/models"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

//go:embed prompt/clothing_advisor.yaml
var clothingAdvisorYAML []byte

type AdvisorPrompt struct {
	SystemPrompt string `yaml:"system_prompt"`
}

// SuggestionAPI produces a clothing suggestion for a forecast day.
type SuggestionAPI interface {
	ClothingAdvice(day models.ForecastDay) (string, error)
}

type OpenaiClient struct {
	logger *logrus.Entry
	client *openai.Client
	model  string
	apiKey string
}

func NewOpenAIClient(logger *logrus.Entry, apiKey string, baseUrl string, model string) SuggestionAPI {
	config := openai.DefaultConfig(apiKey)
	if baseUrl != "" {
		config.BaseURL = baseUrl
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenaiClient{
		logger: logger,
		client: openai.NewClientWithConfig(config),
		model:  model,
		apiKey: apiKey,
	}
}

func (c *OpenaiClient) ClothingAdvice(day models.ForecastDay) (string, error) {
	if c.apiKey == "" {
		return "", &models.ConfigurationError{Missing: "OpenAI API key"}
	}

	var prompt AdvisorPrompt
	if err := yaml.Unmarshal(clothingAdvisorYAML, &prompt); err != nil {
		return "", fmt.Errorf("error parsing advisor prompt yaml: %w", err)
	}

	resp, err := c.client.CreateChatCompletion(
		context.Background(),
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: prompt.SystemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: FormatForecastPrompt(day),
				},
			},
			Temperature: 1.0,
		},
	)
	if err != nil {
		return "", &models.ApiError{Service: "openai", Message: err.Error()}
	}

	if len(resp.Choices) == 0 {
		return "", &models.ApiError{Service: "openai", Message: "empty completion response"}
	}

	advice := strings.TrimSpace(resp.Choices[0].Message.Content)
	c.logger.WithField("date", day.FxDate).Info("Generated clothing advice")
	return advice, nil
}

// FormatForecastPrompt renders tomorrow's forecast fields as the user message
// for the advisor prompt.
func FormatForecastPrompt(day models.ForecastDay) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("日期：%s\n", day.FxDate))
	sb.WriteString(fmt.Sprintf("白天天气：%s，夜间天气：%s\n", day.TextDay, day.TextNight))
	sb.WriteString(fmt.Sprintf("气温：%s°C ~ %s°C\n", day.TempMin, day.TempMax))
	sb.WriteString(fmt.Sprintf("风向风力：%s %s级\n", day.WindDirDay, day.WindScaleDay))
	sb.WriteString(fmt.Sprintf("湿度：%s%%，降水概率：%s%%", day.Humidity, day.Pop))
	return sb.String()
}
