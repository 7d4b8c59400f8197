package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"weather-assistant/internal/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sirupsen/logrus"
)

var pushTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// singleDigitHourPattern matches inputs like "9:30" that only need a leading
// zero to become valid.
var singleDigitHourPattern = regexp.MustCompile(`^\d:[0-5]\d$`)

// PreferenceRepository defines the user preference operations.
//
// All writes go through whole-file read → mutate → whole-file overwrite.
// Concurrent writers are not coordinated: the scheduler ticks once a minute
// and command traffic is human-paced, so last-writer-wins is accepted.
type PreferenceRepository interface {
	// GetPreference never fails for a missing user: an unknown uid gets the
	// process-wide default location and push time.
	GetPreference(uid string) models.UserPreference
	SetLocation(uid, code string) (models.Location, error)
	SetPushTime(uid, pushTime string) (string, error)
	// EnsureDefaultPushTime backfills the default push time for users that
	// have none stored, and returns the effective push time.
	EnsureDefaultPushTime(uid string) (string, error)
}

type preferenceRepository struct {
	logger          *logrus.Entry
	path            string
	directory       *LocationDirectory
	defaultLocation models.Location
}

func NewPreferenceRepository(logger *logrus.Entry, path string, directory *LocationDirectory, defaultLocation models.Location) PreferenceRepository {
	return &preferenceRepository{
		logger:          logger,
		path:            path,
		directory:       directory,
		defaultLocation: defaultLocation,
	}
}

func (r *preferenceRepository) GetPreference(uid string) models.UserPreference {
	file, err := r.load()
	if err != nil {
		r.logger.WithError(err).Warn("Failed to load preference file, using defaults")
		return r.defaults()
	}

	stored, ok := file.Users[uid]
	if !ok {
		return r.defaults()
	}

	pref := r.defaults()
	if loc, ok := r.directory.ResolveCode(stored.Location.Code); ok {
		pref.Location = loc
	}
	if pushTimePattern.MatchString(stored.PushTime) {
		pref.PushTime = stored.PushTime
	}
	return pref
}

func (r *preferenceRepository) SetLocation(uid, code string) (models.Location, error) {
	loc, ok := r.directory.ResolveCode(code)
	if !ok {
		return models.Location{}, &models.ValidationError{Field: "location", Reason: fmt.Sprintf("unknown location code %q", code)}
	}

	file, err := r.load()
	if err != nil {
		return models.Location{}, err
	}

	stored := file.Users[uid]
	stored.Location = loc
	file.Users[uid] = stored

	if err := r.save(file); err != nil {
		return models.Location{}, err
	}

	r.logger.WithFields(logrus.Fields{
		"uid":  uid,
		"code": loc.Code,
		"name": loc.Name,
	}).Info("Saved user location")

	return loc, nil
}

func (r *preferenceRepository) SetPushTime(uid, pushTime string) (string, error) {
	normalized := NormalizePushTime(pushTime)
	if err := validation.Validate(normalized,
		validation.Required.Error("push time is empty"),
		validation.Match(pushTimePattern).Error("push time must be HH:mm in 24-hour format"),
	); err != nil {
		return "", &models.ValidationError{Field: "pushTime", Reason: err.Error()}
	}

	file, err := r.load()
	if err != nil {
		return "", err
	}

	stored := file.Users[uid]
	stored.PushTime = normalized
	file.Users[uid] = stored

	if err := r.save(file); err != nil {
		return "", err
	}

	r.logger.WithFields(logrus.Fields{
		"uid":      uid,
		"pushTime": normalized,
	}).Info("Saved user push time")

	return normalized, nil
}

func (r *preferenceRepository) EnsureDefaultPushTime(uid string) (string, error) {
	file, err := r.load()
	if err != nil {
		return "", err
	}

	if stored, ok := file.Users[uid]; ok && pushTimePattern.MatchString(stored.PushTime) {
		return stored.PushTime, nil
	}

	stored := file.Users[uid]
	stored.PushTime = models.DefaultPushTime
	file.Users[uid] = stored

	if err := r.save(file); err != nil {
		return "", err
	}

	r.logger.WithField("uid", uid).Info("Backfilled default push time")
	return models.DefaultPushTime, nil
}

// NormalizePushTime pads single-digit hours: "9:30" → "09:30". Anything else
// passes through untouched and is left to validation.
func NormalizePushTime(pushTime string) string {
	if singleDigitHourPattern.MatchString(pushTime) {
		return "0" + pushTime
	}
	return pushTime
}

func (r *preferenceRepository) defaults() models.UserPreference {
	return models.UserPreference{
		Location: r.defaultLocation,
		PushTime: models.DefaultPushTime,
	}
}

func (r *preferenceRepository) load() (models.PreferenceFile, error) {
	file := models.PreferenceFile{Users: make(map[string]models.UserPreference)}

	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return file, nil
	}
	if err != nil {
		return file, fmt.Errorf("failed to read preference file: %w", err)
	}

	if err := json.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("failed to parse preference file: %w", err)
	}
	if file.Users == nil {
		file.Users = make(map[string]models.UserPreference)
	}
	return file, nil
}

func (r *preferenceRepository) save(file models.PreferenceFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preference file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create preference directory: %w", err)
	}

	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preference file: %w", err)
	}
	return nil
}
