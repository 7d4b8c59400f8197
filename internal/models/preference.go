package models

// Location identifies a city/district in the weather provider's directory.
type Location struct {
	City     string `json:"city"`
	District string `json:"district"`
	Code     string `json:"code"` // 天氣 API 的地區代碼，例如 "101010100"
	Name     string `json:"name"`
}

// UserPreference is what the bot remembers about a user.
type UserPreference struct {
	Location Location `json:"location"`
	PushTime string   `json:"pushTime"` // "HH:mm"
}

// PreferenceFile is the on-disk shape of the preference store.
type PreferenceFile struct {
	Users map[string]UserPreference `json:"users"`
}

const DefaultPushTime = "20:00"
