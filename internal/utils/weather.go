package utils

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"weather-assistant/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const (
	weatherTokenTTL = time.Hour
	// Tokens are regenerated this long before their nominal expiry so a
	// request never goes out with a token about to lapse mid-flight.
	weatherTokenExpiryMargin = 5 * time.Minute
)

// WeatherAPI fetches multi-day forecasts for a location code.
type WeatherAPI interface {
	GetDailyForecast(location models.Location) (*models.DailyForecast, error)
}

// WeatherCredentials holds both auth strategies. The signed-token strategy
// (projectID + keyID + Ed25519 private key) is tried first; the static API
// key is the fallback. Neither being configured is a ConfigurationError on
// first use, not at startup.
type WeatherCredentials struct {
	ProjectID  string
	KeyID      string
	PrivateKey string // PEM-encoded Ed25519 private key
	APIKey     string
}

type weatherClient struct {
	logger     *logrus.Entry
	host       string
	creds      WeatherCredentials
	httpClient *http.Client
	now        func() time.Time

	mu           sync.Mutex
	cachedToken  string
	tokenExpires time.Time
}

func NewWeatherClient(logger *logrus.Entry, host string, creds WeatherCredentials) WeatherAPI {
	return &weatherClient{
		logger:     logger,
		host:       host,
		creds:      creds,
		httpClient: http.DefaultClient,
		now:        time.Now,
	}
}

type dailyForecastResponse struct {
	Code  string               `json:"code"`
	Daily []models.ForecastDay `json:"daily"`
}

func (c *weatherClient) GetDailyForecast(location models.Location) (*models.DailyForecast, error) {
	endpoint := fmt.Sprintf("%s/v7/weather/7d", c.host)

	query := url.Values{}
	query.Set("location", location.Code)
	query.Set("lang", "zh")

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build forecast request: %w", err)
	}

	token, err := c.bearerToken()
	switch {
	case err == nil:
		req.Header.Set("Authorization", "Bearer "+token)
	case c.creds.APIKey != "":
		c.logger.WithError(err).Debug("Signed token unavailable, falling back to API key")
		query.Set("key", c.creds.APIKey)
	default:
		return nil, err
	}
	req.URL.RawQuery = query.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.ApiError{Service: "weather", Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.ApiError{Service: "weather", Status: resp.StatusCode, Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &models.ApiError{Service: "weather", Status: resp.StatusCode, Message: string(body)}
	}

	var parsed dailyForecastResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &models.ApiError{Service: "weather", Message: fmt.Sprintf("invalid response: %v", err)}
	}
	// 天氣 API 在 HTTP 200 裡也可能帶業務錯誤碼
	if parsed.Code != "200" {
		return nil, &models.ApiError{Service: "weather", Message: fmt.Sprintf("provider code %s for location %s", parsed.Code, location.Code)}
	}

	c.logger.WithFields(logrus.Fields{
		"location": location.Code,
		"days":     len(parsed.Daily),
	}).Info("Fetched daily forecast")

	return &models.DailyForecast{Location: location, Days: parsed.Daily}, nil
}

// bearerToken returns a cached signed token, regenerating it once the cached
// one is within the expiry margin.
func (c *weatherClient) bearerToken() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cachedToken != "" && c.now().Before(c.tokenExpires.Add(-weatherTokenExpiryMargin)) {
		return c.cachedToken, nil
	}

	token, expires, err := c.signToken()
	if err != nil {
		return "", err
	}

	c.cachedToken = token
	c.tokenExpires = expires
	c.logger.WithField("expires", expires.Format(time.RFC3339)).Info("Generated new weather API token")
	return token, nil
}

func (c *weatherClient) signToken() (string, time.Time, error) {
	if c.creds.ProjectID == "" || c.creds.KeyID == "" || c.creds.PrivateKey == "" {
		return "", time.Time{}, &models.ConfigurationError{Missing: "weather API credentials (project ID, key ID and private key, or an API key)"}
	}

	key, err := parseEd25519PrivateKey(c.creds.PrivateKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to parse weather private key: %w", err)
	}

	now := c.now()
	expires := now.Add(weatherTokenTTL)

	claims := jwt.RegisteredClaims{
		Subject: c.creds.ProjectID,
		// 30s backdate absorbs clock skew between us and the provider
		IssuedAt:  jwt.NewNumericDate(now.Add(-30 * time.Second)),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	token.Header["kid"] = c.creds.KeyID

	signed, err := token.SignedString(key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign weather token: %w", err)
	}
	return signed, expires, nil
}

func parseEd25519PrivateKey(pemData string) (ed25519.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}

	key, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("key is %T, want ed25519", parsed)
	}
	return key, nil
}
