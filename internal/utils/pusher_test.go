package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"weather-assistant/internal/models"
)

func TestSendMessage(t *testing.T) {
	t.Run("posts the provider payload", func(t *testing.T) {
		var got sendMessageRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/send/message" {
				t.Errorf("path = %q", r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("Failed to decode request: %v", err)
			}
			w.Write([]byte(`{"code": 1000, "msg": "处理成功"}`))
		}))
		defer server.Close()

		c := NewPusherClient(testLogger(), server.URL, "token-123")
		err := c.SendMessage("<p>hi</p>", "summary", ContentTypeHTML, []string{"UID_1", "UID_2"})
		if err != nil {
			t.Fatalf("SendMessage failed: %v", err)
		}

		if got.AppToken != "token-123" {
			t.Errorf("appToken = %q, want token-123", got.AppToken)
		}
		if got.ContentType != ContentTypeHTML {
			t.Errorf("contentType = %d, want %d", got.ContentType, ContentTypeHTML)
		}
		if len(got.UIDs) != 2 {
			t.Errorf("uids = %v, want 2 entries", got.UIDs)
		}
	})

	t.Run("provider error code yields ApiError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"code": 1001, "msg": "appToken 错误"}`))
		}))
		defer server.Close()

		c := NewPusherClient(testLogger(), server.URL, "bad-token")
		err := c.SendMessage("hi", "", ContentTypeText, []string{"UID_1"})

		var ae *models.ApiError
		if !errors.As(err, &ae) {
			t.Errorf("SendMessage = %v, want ApiError", err)
		}
	})

	t.Run("missing app token is a ConfigurationError on first use", func(t *testing.T) {
		c := NewPusherClient(testLogger(), "http://unused.local", "")
		err := c.SendMessage("hi", "", ContentTypeText, []string{"UID_1"})

		var ce *models.ConfigurationError
		if !errors.As(err, &ce) {
			t.Errorf("SendMessage = %v, want ConfigurationError", err)
		}
	})

	t.Run("empty uid list is a no-op", func(t *testing.T) {
		c := NewPusherClient(testLogger(), "http://unused.local", "token")
		if err := c.SendMessage("hi", "", ContentTypeText, nil); err != nil {
			t.Errorf("SendMessage = %v, want nil", err)
		}
	})
}

func TestQueryEnabledUsers(t *testing.T) {
	t.Run("filters disabled users and follows pagination", func(t *testing.T) {
		// 第一頁塞滿 100 筆，最後一筆停用；第二頁 1 筆
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			page, _ := strconv.Atoi(r.URL.Query().Get("page"))

			var records []userRecord
			if page == 1 {
				for i := 0; i < 99; i++ {
					records = append(records, userRecord{UID: fmt.Sprintf("UID_%d", i), Enable: true})
				}
				records = append(records, userRecord{UID: "UID_disabled", Enable: false})
			} else {
				records = append(records, userRecord{UID: "UID_last", Enable: true})
			}

			resp := queryUsersResponse{Code: 1000}
			resp.Data.Page = page
			resp.Data.PageSize = userPageSize
			resp.Data.Total = 101
			resp.Data.Records = records
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		c := NewPusherClient(testLogger(), server.URL, "token")
		uids, err := c.QueryEnabledUsers()
		if err != nil {
			t.Fatalf("QueryEnabledUsers failed: %v", err)
		}

		if len(uids) != 100 {
			t.Errorf("Got %d uids, want 100", len(uids))
		}
		for _, uid := range uids {
			if uid == "UID_disabled" {
				t.Error("Disabled user must be filtered out")
			}
		}
		if uids[len(uids)-1] != "UID_last" {
			t.Errorf("Last uid = %q, want UID_last from page 2", uids[len(uids)-1])
		}
	})

	t.Run("upstream failure is an ApiError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer server.Close()

		c := NewPusherClient(testLogger(), server.URL, "token")
		_, err := c.QueryEnabledUsers()

		var ae *models.ApiError
		if !errors.As(err, &ae) {
			t.Errorf("QueryEnabledUsers = %v, want ApiError", err)
		}
	})
}
