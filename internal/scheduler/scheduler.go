package scheduler

import (
	"time"

	"weather-assistant/internal/models"
	"weather-assistant/internal/repository"
	"weather-assistant/internal/utils"

	"github.com/sirupsen/logrus"
)

const tickInterval = time.Minute

// Dispatcher runs the push pipeline for one uid.
type Dispatcher interface {
	Run(uid string) error
}

// Scheduler fires once a minute and pushes to every user whose configured
// push time matches the current wall-clock minute. Matched users are handled
// sequentially: a slow or failing user delays, but never blocks, the rest.
type Scheduler struct {
	logger     *logrus.Entry
	pusher     utils.PusherAPI
	prefs      repository.PreferenceRepository
	dispatcher Dispatcher
	now        func() time.Time

	stopChan   chan struct{}
	running    bool
	lastMinute string
}

func New(logger *logrus.Entry, pusher utils.PusherAPI, prefs repository.PreferenceRepository, dispatcher Dispatcher) *Scheduler {
	return &Scheduler{
		logger:     logger,
		pusher:     pusher,
		prefs:      prefs,
		dispatcher: dispatcher,
		now:        time.Now,
		stopChan:   make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.logger.Info("Scheduler starting")
	go s.loop()
}

func (s *Scheduler) Stop() {
	if !s.running {
		return
	}
	s.logger.Info("Scheduler stopping")
	close(s.stopChan)
	s.running = false
}

func (s *Scheduler) loop() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Tick()
		case <-s.stopChan:
			return
		}
	}
}

// Tick runs one scheduling pass. A provider outage makes the tick a logged
// no-op; a panic anywhere below must never kill the loop.
func (s *Scheduler) Tick() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("panic", r).Error("Recovered from panic in scheduler tick")
		}
	}()

	current := s.now().Format("15:04")
	// Ticker drift can fire twice inside the same wall-clock minute.
	if current == s.lastMinute {
		return
	}
	s.lastMinute = current

	uids, err := s.pusher.QueryEnabledUsers()
	if err != nil {
		s.logger.WithError(err).Warn("Failed to query enabled users, skipping tick")
		return
	}

	matched := s.matchUsers(uids, current)
	if len(matched) == 0 {
		return
	}

	s.logger.WithFields(logrus.Fields{
		"time":    current,
		"matched": len(matched),
	}).Info("Dispatching scheduled pushes")

	for _, uid := range matched {
		if err := s.dispatcher.Run(uid); err != nil {
			s.logger.WithError(err).WithField("uid", uid).Error("Scheduled push failed")
		}
	}
}

// matchUsers resolves each user's push time, backfilling the default for
// users that have none stored, and returns the uids due this minute.
func (s *Scheduler) matchUsers(uids []string, current string) []string {
	var matched []string
	for _, uid := range uids {
		pushTime, err := s.prefs.EnsureDefaultPushTime(uid)
		if err != nil {
			s.logger.WithError(err).WithField("uid", uid).Warn("Failed to resolve push time, using default")
			pushTime = models.DefaultPushTime
		}
		if pushTime == current {
			matched = append(matched, uid)
		}
	}
	return matched
}

// RunAll pushes to every enabled user immediately, regardless of push time.
// This backs the --test run-once mode.
func (s *Scheduler) RunAll() error {
	uids, err := s.pusher.QueryEnabledUsers()
	if err != nil {
		return err
	}

	s.logger.WithField("users", len(uids)).Info("Running immediate push for all enabled users")
	for _, uid := range uids {
		if err := s.dispatcher.Run(uid); err != nil {
			s.logger.WithError(err).WithField("uid", uid).Error("Immediate push failed")
		}
	}
	return nil
}
