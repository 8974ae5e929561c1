package models

// CheckinMode is how the server counts a check-in as on time.
type CheckinMode string

const (
	CheckinModeStandard  CheckinMode = "standard"
	CheckinModeExtended  CheckinMode = "extended"
	CheckinModeAllPeriod CheckinMode = "all_period"
)

type ScheduleStats struct {
	ScheduleID    string      `json:"scheduleId"`
	ScheduleName  string      `json:"scheduleName"`
	TotalCheckins int         `json:"totalCheckins"`
	DailyTasks    int         `json:"dailyTasks"`
	ExpectedTasks int         `json:"expectedTasks"`
	Progress      float64     `json:"progress"`
	UniqueUsers   int         `json:"uniqueUsers"`
	ChannelInfo   ChannelInfo `json:"channelInfo"`
	DailyStats    []DailyStat `json:"dailyStats"`
	CheckinMode   CheckinMode `json:"checkinMode"`
	ExtendedHours *int        `json:"extendedHours,omitempty"`
}

type ChannelInfo struct {
	ChannelID   string `json:"channelId"`
	ChannelName string `json:"channelName"`
	GuildID     string `json:"guildId"`
	GuildName   string `json:"guildName"`
}

type DailyStat struct {
	DayLabel     string `json:"dayLabel"`
	DayNumber    int    `json:"dayNumber"`
	Date         string `json:"date"`
	ThreadTitle  string `json:"threadTitle"`
	ThreadURL    string `json:"threadUrl"`
	CheckinCount int    `json:"checkinCount"`
}

type DayDetail struct {
	DayLabel     string           `json:"dayLabel"`
	Date         string           `json:"date"`
	ThreadInfo   ThreadInfo       `json:"threadInfo"`
	CheckinCount int              `json:"checkinCount"`
	CheckinUsers []DayCheckinUser `json:"checkinUsers"`
}

type ThreadInfo struct {
	ThreadID   string `json:"threadId"`
	ThreadName string `json:"threadName"`
	ThreadURL  string `json:"threadUrl"`
}

type DayCheckinUser struct {
	DiscordUserID string  `json:"discordUserId"`
	Username      string  `json:"username"`
	DisplayName   string  `json:"displayName"`
	AvatarURL     *string `json:"avatarUrl"`
	CheckinTime   string  `json:"checkinTime"`
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Query   string         `json:"query"`
	Count   int            `json:"count"`
}

type SearchResult struct {
	DiscordUserID    string  `json:"discordUserId"`
	Username         string  `json:"username"`
	DisplayName      string  `json:"displayName"`
	AvatarURL        *string `json:"avatarUrl"`
	TotalCheckinDays int     `json:"totalCheckinDays"`
}

type ThreadListResponse struct {
	Threads []ThreadListItem `json:"threads"`
	Count   int              `json:"count"`
}

type ThreadListItem struct {
	ThreadID     string `json:"threadId"`
	DayLabel     string `json:"dayLabel"`
	ThreadName   string `json:"threadName"`
	ThreadURL    string `json:"threadUrl"`
	Date         string `json:"date"`
	CheckinCount int    `json:"checkinCount"`
}
