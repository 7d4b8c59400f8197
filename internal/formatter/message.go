package formatter

import (
	"fmt"
	"strings"

	"weather-assistant/internal/models"
)

const cardStyle = "border-radius:10px;border:1px solid #e0e0e0;padding:14px;margin:6px 0;font-family:sans-serif;"

// Card wraps a body in the shared styled container used by every reply.
func Card(title, body string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<div style=\"%s\">", cardStyle))
	if title != "" {
		sb.WriteString(fmt.Sprintf("<h3 style=\"margin:0 0 8px 0;\">%s</h3>", title))
	}
	sb.WriteString(body)
	sb.WriteString("</div>")
	return sb.String()
}

func SuccessCard(text string) string {
	return Card("✅ 设置成功", fmt.Sprintf("<p>%s</p>", text))
}

func ErrorCard(text string) string {
	return Card("❌ 出错了", fmt.Sprintf("<p>%s</p>", text))
}

// DailyMessage assembles the scheduled push body: headline, today/tomorrow
// summary, the temperature trend table, the optional clothing advice and any
// chart images that rendered successfully.
func DailyMessage(forecast *models.DailyForecast, advice string, charts models.ChartLinks) string {
	var sb strings.Builder
	loc := forecast.Location

	sb.WriteString(fmt.Sprintf("<div style=\"%s\">", cardStyle))
	sb.WriteString(fmt.Sprintf("<h2 style=\"margin:0 0 4px 0;\">%s·%s 天气预报 ⛅</h2>", loc.City, loc.Name))

	if today, err := forecast.Today(); err == nil {
		sb.WriteString(fmt.Sprintf(
			"<p><b>今天（%s）</b>：白天%s，夜间%s，%s ~ %s°C</p>",
			today.FxDate, today.TextDay, today.TextNight, today.TempMin, today.TempMax))
	}
	if tomorrow, err := forecast.Tomorrow(); err == nil {
		sb.WriteString(fmt.Sprintf(
			"<p><b>明天（%s）</b>：白天%s，夜间%s，%s ~ %s°C，%s%s级，降水概率%s%%</p>",
			tomorrow.FxDate, tomorrow.TextDay, tomorrow.TextNight,
			tomorrow.TempMin, tomorrow.TempMax,
			tomorrow.WindDirDay, tomorrow.WindScaleDay, tomorrow.Pop))
	}

	if advice != "" {
		sb.WriteString(fmt.Sprintf(
			"<div style=\"background:#f0f7ff;border-radius:6px;padding:10px;margin:8px 0;\"><b>👔 穿衣建议</b><p style=\"margin:4px 0 0 0;\">%s</p></div>",
			advice))
	}

	sb.WriteString(TrendTable(forecast.Days))

	for _, chart := range []struct {
		title string
		url   string
	}{
		{"气温趋势", charts.Temperature},
		{"降水趋势", charts.Rainfall},
		{"风力趋势", charts.Wind},
	} {
		if chart.url == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf(
			"<p><b>%s</b><br/><img src=\"%s\" alt=\"%s\" style=\"max-width:100%%;\"/></p>",
			chart.title, chart.url, chart.title))
	}

	sb.WriteString("</div>")
	return sb.String()
}

// TrendTable renders every forecast day as one row of the temperature trend.
func TrendTable(days []models.ForecastDay) string {
	var sb strings.Builder
	sb.WriteString("<table style=\"border-collapse:collapse;width:100%;margin:8px 0;\">")
	sb.WriteString("<tr style=\"background:#fafafa;\">")
	for _, head := range []string{"日期", "天气", "最低", "最高", "风力", "降水"} {
		sb.WriteString(fmt.Sprintf("<th style=\"border:1px solid #e0e0e0;padding:4px;\">%s</th>", head))
	}
	sb.WriteString("</tr>")
	for _, day := range days {
		sb.WriteString("<tr>")
		cells := []string{
			day.FxDate,
			day.TextDay,
			day.TempMin + "°C",
			day.TempMax + "°C",
			day.WindDirDay + day.WindScaleDay + "级",
			day.Pop + "%",
		}
		for _, cell := range cells {
			sb.WriteString(fmt.Sprintf("<td style=\"border:1px solid #e0e0e0;padding:4px;text-align:center;\">%s</td>", cell))
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</table>")
	return sb.String()
}

// Summary is the plain-text one-liner sent alongside the HTML body.
func Summary(loc models.Location, tomorrow models.ForecastDay) string {
	return fmt.Sprintf("%s·%s %s %s", loc.City, loc.Name, tomorrow.FxDate, tomorrow.TextDay)
}

// CityListCard lists all known top-level regions.
func CityListCard(cities []string) string {
	body := fmt.Sprintf(
		"<p>%s</p><p>发送「城市详情：城市名」查看下属地区</p>",
		strings.Join(cities, "、"))
	return Card("🗺 支持的地区", body)
}

// DistrictTableCard lists the districts of one region with their codes.
func DistrictTableCard(title string, districts []models.Location) string {
	var sb strings.Builder
	sb.WriteString("<table style=\"border-collapse:collapse;width:100%;\">")
	sb.WriteString("<tr style=\"background:#fafafa;\"><th style=\"border:1px solid #e0e0e0;padding:4px;\">地区</th><th style=\"border:1px solid #e0e0e0;padding:4px;\">代码</th></tr>")
	for _, loc := range districts {
		sb.WriteString(fmt.Sprintf(
			"<tr><td style=\"border:1px solid #e0e0e0;padding:4px;\">%s</td><td style=\"border:1px solid #e0e0e0;padding:4px;\">%s</td></tr>",
			loc.District, loc.Code))
	}
	sb.WriteString("</table>")
	sb.WriteString("<p>发送「设置地区：城市 地区」即可切换推送地区</p>")
	return Card(title, sb.String())
}

// CurrentPreferenceCard shows a user's effective location and push time.
func CurrentPreferenceCard(pref models.UserPreference) string {
	body := fmt.Sprintf(
		"<p>📍 当前地区：%s·%s（%s）</p><p>⏰ 推送时间：每天 %s</p>",
		pref.Location.City, pref.Location.Name, pref.Location.Code, pref.PushTime)
	return Card("⚙️ 当前设置", body)
}

// HelpCard documents the command surface.
func HelpCard() string {
	body := `<ul style="margin:0;padding-left:18px;">
<li>设置地区：城市 地区 —— 例如「设置地区：北京 朝阳」</li>
<li>地区列表 —— 查看支持的地区</li>
<li>城市详情：城市名 —— 查看城市下属地区</li>
<li>省份详情：省份名 —— 查看省份下属地区</li>
<li>当前地区 —— 查看当前推送设置</li>
<li>设置推送时间：HH:mm —— 例如「设置推送时间：8:30」</li>
<li>推送时间 —— 查看当前推送时间</li>
<li>帮助 —— 查看本说明</li>
</ul>`
	return Card("📖 使用说明", body)
}

// UnrecognizedCard is the fallback for anything the handler cannot parse.
func UnrecognizedCard() string {
	return Card("🤔 无法识别的指令", "<p>发送「帮助」查看支持的指令列表</p>")
}
