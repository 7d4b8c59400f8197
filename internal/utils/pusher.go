package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"weather-assistant/internal/models"

	"github.com/sirupsen/logrus"
)

// Push provider content types.
const (
	ContentTypeText = 1
	ContentTypeHTML = 2
)

const userPageSize = 100

// PusherAPI is the messaging provider's push surface: sending content to a
// list of uids and enumerating currently subscribed users.
type PusherAPI interface {
	SendMessage(content, summary string, contentType int, uids []string) error
	QueryEnabledUsers() ([]string, error)
}

type PusherClient struct {
	logger     *logrus.Entry
	baseUrl    string
	appToken   string
	httpClient *http.Client
}

func NewPusherClient(logger *logrus.Entry, baseUrl string, appToken string) PusherAPI {
	return &PusherClient{
		logger:     logger,
		baseUrl:    baseUrl,
		appToken:   appToken,
		httpClient: http.DefaultClient,
	}
}

type sendMessageRequest struct {
	AppToken    string   `json:"appToken"`
	Content     string   `json:"content"`
	Summary     string   `json:"summary,omitempty"`
	ContentType int      `json:"contentType"`
	UIDs        []string `json:"uids"`
}

type sendMessageResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (c *PusherClient) SendMessage(content, summary string, contentType int, uids []string) error {
	if c.appToken == "" {
		return &models.ConfigurationError{Missing: "push provider app token"}
	}
	if len(uids) == 0 {
		return nil
	}

	payload, err := json.Marshal(sendMessageRequest{
		AppToken:    c.appToken,
		Content:     content,
		Summary:     summary,
		ContentType: contentType,
		UIDs:        uids,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal send request: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseUrl+"/api/send/message", "application/json", bytes.NewReader(payload))
	if err != nil {
		return &models.ApiError{Service: "pusher", Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &models.ApiError{Service: "pusher", Status: resp.StatusCode, Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return &models.ApiError{Service: "pusher", Status: resp.StatusCode, Message: string(body)}
	}

	var parsed sendMessageResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return &models.ApiError{Service: "pusher", Message: fmt.Sprintf("invalid response: %v", err)}
	}
	if parsed.Code != 1000 {
		return &models.ApiError{Service: "pusher", Message: fmt.Sprintf("provider code %d: %s", parsed.Code, parsed.Msg)}
	}

	c.logger.WithFields(logrus.Fields{
		"uids":        len(uids),
		"contentType": contentType,
	}).Info("Pushed message")

	return nil
}

type userRecord struct {
	UID    string `json:"uid"`
	Enable bool   `json:"enable"`
}

type queryUsersResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Page     int          `json:"page"`
		PageSize int          `json:"pageSize"`
		Total    int          `json:"total"`
		Records  []userRecord `json:"records"`
	} `json:"data"`
}

// QueryEnabledUsers walks the provider's paginated user list and returns the
// uids that are currently enabled.
func (c *PusherClient) QueryEnabledUsers() ([]string, error) {
	if c.appToken == "" {
		return nil, &models.ConfigurationError{Missing: "push provider app token"}
	}

	var uids []string
	for page := 1; ; page++ {
		parsed, err := c.queryUserPage(page)
		if err != nil {
			return nil, err
		}

		for _, record := range parsed.Data.Records {
			if record.Enable {
				uids = append(uids, record.UID)
			}
		}

		if page*userPageSize >= parsed.Data.Total || len(parsed.Data.Records) == 0 {
			break
		}
	}

	c.logger.WithField("count", len(uids)).Debug("Queried enabled users")
	return uids, nil
}

func (c *PusherClient) queryUserPage(page int) (*queryUsersResponse, error) {
	query := url.Values{}
	query.Set("appToken", c.appToken)
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(userPageSize))

	resp, err := c.httpClient.Get(c.baseUrl + "/api/fun/wxuser/v2?" + query.Encode())
	if err != nil {
		return nil, &models.ApiError{Service: "pusher", Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.ApiError{Service: "pusher", Status: resp.StatusCode, Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &models.ApiError{Service: "pusher", Status: resp.StatusCode, Message: string(body)}
	}

	var parsed queryUsersResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &models.ApiError{Service: "pusher", Message: fmt.Sprintf("invalid response: %v", err)}
	}
	if parsed.Code != 1000 {
		return nil, &models.ApiError{Service: "pusher", Message: fmt.Sprintf("provider code %d: %s", parsed.Code, parsed.Msg)}
	}
	return &parsed, nil
}
