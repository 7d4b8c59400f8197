package models

// ForecastDay is one day of the provider's daily forecast. Fetched per push,
// never persisted.
type ForecastDay struct {
	FxDate       string `json:"fxDate"` // YYYY-MM-DD
	TextDay      string `json:"textDay"`
	TextNight    string `json:"textNight"`
	TempMin      string `json:"tempMin"`
	TempMax      string `json:"tempMax"`
	WindDirDay   string `json:"windDirDay"`
	WindScaleDay string `json:"windScaleDay"`
	Humidity     string `json:"humidity"`
	Precip       string `json:"precip"`
	Pop          string `json:"pop"` // 降水概率 (%)
	Sunrise      string `json:"sunrise"`
	Sunset       string `json:"sunset"`
	UVIndex      string `json:"uvIndex"`
}

// DailyForecast is the multi-day forecast for one location.
type DailyForecast struct {
	Location Location
	Days     []ForecastDay
}

// Today returns the first entry of the daily array.
func (f *DailyForecast) Today() (ForecastDay, error) {
	if len(f.Days) < 1 {
		return ForecastDay{}, ErrForecastTooShort
	}
	return f.Days[0], nil
}

// Tomorrow returns the second entry of the daily array, the next calendar
// day. A forecast with fewer than 2 days is a domain error, never a silent
// zero value.
func (f *DailyForecast) Tomorrow() (ForecastDay, error) {
	if len(f.Days) < 2 {
		return ForecastDay{}, ErrForecastTooShort
	}
	return f.Days[1], nil
}
