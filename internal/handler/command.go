package handler

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"weather-assistant/internal/formatter"
	"weather-assistant/internal/models"
	"weather-assistant/internal/repository"

	"github.com/sirupsen/logrus"
)

var (
	setLocationPattern    = regexp.MustCompile(`^设置地区[：:]\s*(\S+)(?:\s+(\S+))?$`)
	cityDetailPattern     = regexp.MustCompile(`^城市详情[：:]\s*(\S+)$`)
	provinceDetailPattern = regexp.MustCompile(`^省份详情[：:]\s*(\S+)$`)
	setPushTimePattern    = regexp.MustCompile(`^设置推送时间[：:]\s*(\S+)$`)
)

// CommandHandler turns free-text user commands into formatted replies. It
// never returns an error to its caller: malformed input becomes an error
// card, unknown input becomes the unrecognized-command card.
type CommandHandler struct {
	logger    *logrus.Entry
	prefs     repository.PreferenceRepository
	directory *repository.LocationDirectory
}

func NewCommandHandler(logger *logrus.Entry, prefs repository.PreferenceRepository, directory *repository.LocationDirectory) *CommandHandler {
	return &CommandHandler{
		logger:    logger,
		prefs:     prefs,
		directory: directory,
	}
}

func (h *CommandHandler) Handle(message, uid string) models.Reply {
	text := strings.TrimSpace(message)

	h.logger.WithFields(logrus.Fields{
		"uid":  uid,
		"text": text,
	}).Info("Handling command")

	switch {
	case setLocationPattern.MatchString(text):
		return h.handleSetLocation(text, uid)
	case text == "地区列表":
		return htmlReply(formatter.CityListCard(h.directory.Cities()))
	case cityDetailPattern.MatchString(text):
		name := cityDetailPattern.FindStringSubmatch(text)[1]
		return h.handleRegionDetail(name, fmt.Sprintf("🏙 %s 下属地区", name))
	case provinceDetailPattern.MatchString(text):
		name := provinceDetailPattern.FindStringSubmatch(text)[1]
		return h.handleRegionDetail(name, fmt.Sprintf("🗺 %s 下属地区", name))
	case text == "当前地区":
		return htmlReply(formatter.CurrentPreferenceCard(h.prefs.GetPreference(uid)))
	case setPushTimePattern.MatchString(text):
		return h.handleSetPushTime(text, uid)
	case text == "推送时间":
		pref := h.prefs.GetPreference(uid)
		return htmlReply(formatter.Card("⏰ 推送时间", fmt.Sprintf("<p>每天 %s 推送天气预报</p>", pref.PushTime)))
	case text == "帮助" || strings.EqualFold(text, "help"):
		return htmlReply(formatter.HelpCard())
	default:
		return htmlReply(formatter.UnrecognizedCard())
	}
}

func (h *CommandHandler) handleSetLocation(text, uid string) models.Reply {
	matches := setLocationPattern.FindStringSubmatch(text)
	city := matches[1]
	district := matches[2]
	if district == "" {
		// 只给城市名时，地区就用同名条目（例如「设置地区：北京」）
		district = city
	}

	loc, ok := h.directory.Find(city, district)
	if !ok {
		return htmlReply(formatter.ErrorCard(
			fmt.Sprintf("没有找到「%s %s」，发送「城市详情：%s」查看支持的地区", city, district, city)))
	}

	saved, err := h.prefs.SetLocation(uid, loc.Code)
	if err != nil {
		h.logger.WithError(err).WithField("uid", uid).Error("Failed to set location")
		if models.IsValidation(err) {
			return htmlReply(formatter.ErrorCard(err.Error()))
		}
		return htmlReply(formatter.ErrorCard("保存地区设置失败，请稍后再试"))
	}

	return htmlReply(formatter.SuccessCard(
		fmt.Sprintf("推送地区已更新为 %s·%s（%s）", saved.City, saved.Name, saved.Code)))
}

func (h *CommandHandler) handleRegionDetail(name, title string) models.Reply {
	districts, ok := h.directory.Districts(name)
	if !ok {
		return htmlReply(formatter.ErrorCard(
			fmt.Sprintf("没有找到「%s」，发送「地区列表」查看支持的地区", name)))
	}
	return htmlReply(formatter.DistrictTableCard(title, districts))
}

func (h *CommandHandler) handleSetPushTime(text, uid string) models.Reply {
	raw := setPushTimePattern.FindStringSubmatch(text)[1]

	saved, err := h.prefs.SetPushTime(uid, raw)
	if err != nil {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			return htmlReply(formatter.ErrorCard(
				fmt.Sprintf("「%s」不是有效的时间，请使用 24 小时制，例如「设置推送时间：8:30」", raw)))
		}
		h.logger.WithError(err).WithField("uid", uid).Error("Failed to set push time")
		return htmlReply(formatter.ErrorCard("保存推送时间失败，请稍后再试"))
	}

	return htmlReply(formatter.SuccessCard(fmt.Sprintf("推送时间已更新为每天 %s", saved)))
}

func htmlReply(content string) models.Reply {
	return models.Reply{Content: content, IsHTML: true}
}
