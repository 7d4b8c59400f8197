package main

import (
	"encoding/json"
	"net/http"
	"time"

	"weather-assistant/internal/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sirupsen/logrus"
)

type callbackData struct {
	UID     string `json:"uid"`
	Content string `json:"content"`
}

type callbackRequest struct {
	Data callbackData `json:"data"`
}

func (d callbackData) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.UID, validation.Required),
		validation.Field(&d.Content, validation.Required),
	)
}

// callbackHandler receives the provider's message callback, dispatches the
// command and pushes the formatted reply back to the user.
func (app *App) callbackHandler(w http.ResponseWriter, r *http.Request) {
	var req callbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.logger.WithError(err).Warn("Malformed callback payload")
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false})
		return
	}

	if err := req.Data.Validate(); err != nil {
		app.logger.WithError(err).Warn("Invalid callback payload")
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false})
		return
	}

	reply := app.commands.Handle(req.Data.Content, req.Data.UID)

	contentType := utils.ContentTypeText
	if reply.IsHTML {
		contentType = utils.ContentTypeHTML
	}

	if err := app.pusher.SendMessage(reply.Content, "", contentType, []string{req.Data.UID}); err != nil {
		app.logger.WithError(err).WithField("uid", req.Data.UID).Error("Failed to push command reply")
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false})
		return
	}

	app.logger.WithFields(logrus.Fields{
		"uid":  req.Data.UID,
		"html": reply.IsHTML,
	}).Info("Replied to command callback")

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (app *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   version,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
