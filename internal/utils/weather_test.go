package utils

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"weather-assistant/internal/models"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func testPrivateKeyPEM(t *testing.T) string {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		t.Fatalf("Failed to marshal key: %v", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
}

const forecastBody = `{
	"code": "200",
	"daily": [
		{"fxDate": "2026-08-25", "textDay": "晴", "tempMin": "18", "tempMax": "28"},
		{"fxDate": "2026-08-26", "textDay": "多云", "tempMin": "17", "tempMax": "26"}
	]
}`

func TestGetDailyForecast(t *testing.T) {
	location := models.Location{City: "北京", District: "朝阳", Code: "101010300", Name: "朝阳"}

	t.Run("bearer token auth and parsing", func(t *testing.T) {
		var gotAuth string
		var gotLocation string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotLocation = r.URL.Query().Get("location")
			w.Write([]byte(forecastBody))
		}))
		defer server.Close()

		c := &weatherClient{
			logger: testLogger(),
			host:   server.URL,
			creds: WeatherCredentials{
				ProjectID:  "proj",
				KeyID:      "key",
				PrivateKey: testPrivateKeyPEM(t),
			},
			httpClient: server.Client(),
			now:        time.Now,
		}

		forecast, err := c.GetDailyForecast(location)
		if err != nil {
			t.Fatalf("GetDailyForecast failed: %v", err)
		}

		if gotAuth == "" || gotAuth == "Bearer " {
			t.Error("Expected a bearer token on the request")
		}
		if gotLocation != "101010300" {
			t.Errorf("location query = %q, want 101010300", gotLocation)
		}
		if len(forecast.Days) != 2 {
			t.Fatalf("Got %d days, want 2", len(forecast.Days))
		}

		tomorrow, err := forecast.Tomorrow()
		if err != nil {
			t.Fatalf("Tomorrow failed: %v", err)
		}
		if tomorrow.TextDay != "多云" {
			t.Errorf("Tomorrow.TextDay = %q, want 多云", tomorrow.TextDay)
		}
	})

	t.Run("API key fallback when no signing key", func(t *testing.T) {
		var gotKey string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.URL.Query().Get("key")
			w.Write([]byte(forecastBody))
		}))
		defer server.Close()

		c := &weatherClient{
			logger:     testLogger(),
			host:       server.URL,
			creds:      WeatherCredentials{APIKey: "static-key"},
			httpClient: server.Client(),
			now:        time.Now,
		}

		if _, err := c.GetDailyForecast(location); err != nil {
			t.Fatalf("GetDailyForecast failed: %v", err)
		}
		if gotKey != "static-key" {
			t.Errorf("key query = %q, want static-key", gotKey)
		}
	})

	t.Run("no credentials yields ConfigurationError", func(t *testing.T) {
		c := &weatherClient{
			logger:     testLogger(),
			host:       "http://unused.local",
			httpClient: http.DefaultClient,
			now:        time.Now,
		}

		_, err := c.GetDailyForecast(location)
		var ce *models.ConfigurationError
		if !errors.As(err, &ce) {
			t.Errorf("GetDailyForecast = %v, want ConfigurationError", err)
		}
	})

	t.Run("provider error code yields ApiError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"code": "404", "daily": []}`))
		}))
		defer server.Close()

		c := &weatherClient{
			logger:     testLogger(),
			host:       server.URL,
			creds:      WeatherCredentials{APIKey: "static-key"},
			httpClient: server.Client(),
			now:        time.Now,
		}

		_, err := c.GetDailyForecast(location)
		var ae *models.ApiError
		if !errors.As(err, &ae) {
			t.Errorf("GetDailyForecast = %v, want ApiError", err)
		}
	})
}

func TestTokenCache(t *testing.T) {
	base := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	now := base

	c := &weatherClient{
		logger: testLogger(),
		creds: WeatherCredentials{
			ProjectID:  "proj",
			KeyID:      "key",
			PrivateKey: testPrivateKeyPEM(t),
		},
		now: func() time.Time { return now },
	}

	first, err := c.bearerToken()
	if err != nil {
		t.Fatalf("bearerToken failed: %v", err)
	}

	// 快取期內不重簽
	now = base.Add(30 * time.Minute)
	second, err := c.bearerToken()
	if err != nil {
		t.Fatalf("bearerToken failed: %v", err)
	}
	if second != first {
		t.Error("Token regenerated before the expiry margin")
	}

	// TTL 是 1 小時、邊界提前 5 分鐘：55 分之後必須換新
	now = base.Add(56 * time.Minute)
	third, err := c.bearerToken()
	if err != nil {
		t.Fatalf("bearerToken failed: %v", err)
	}
	if third == first {
		t.Error("Token not regenerated past the expiry margin")
	}
}
