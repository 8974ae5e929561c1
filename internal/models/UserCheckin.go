package models

// UserCheckinItem is the list-style participant shape, also used for pinned
// users once their detail has been loaded.
type UserCheckinItem struct {
	DiscordUserID    string          `json:"discordUserId"`
	Username         string          `json:"username"`
	DisplayName      string          `json:"displayName"`
	AvatarURL        *string         `json:"avatarUrl"`
	TotalCheckinDays int             `json:"totalCheckinDays"`
	CheckinStatus    map[string]bool `json:"checkinStatus"`
}

type UserListResponse struct {
	Users      []UserCheckinItem `json:"users"`
	Pagination Pagination        `json:"pagination"`
}

type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	Limit       int  `json:"limit"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

type UserQueryParams struct {
	Page   int
	Limit  int
	Search string
}

type UserDetail struct {
	DiscordUserID    string              `json:"discordUserId"`
	Username         string              `json:"username"`
	DisplayName      string              `json:"displayName"`
	AvatarURL        *string             `json:"avatarUrl"`
	TotalCheckinDays int                 `json:"totalCheckinDays"`
	CheckinDetails   []CheckinDetailItem `json:"checkinDetails"`
}

type CheckinDetailItem struct {
	DayLabel    string  `json:"dayLabel"`
	DayNumber   int     `json:"dayNumber"`
	Date        string  `json:"date"`
	CheckedIn   bool    `json:"checkedIn"`
	CheckinTime *string `json:"checkinTime"`
	MessageID   *string `json:"messageId"`
	ThreadID    string  `json:"threadId"`
	ThreadTitle string  `json:"threadTitle"`
	ThreadURL   string  `json:"threadUrl"`
}

// Summary projects the detail record onto the list shape. A day label seen
// twice keeps the last record's flag.
func (d *UserDetail) Summary() UserCheckinItem {
	status := make(map[string]bool, len(d.CheckinDetails))
	for _, item := range d.CheckinDetails {
		status[item.DayLabel] = item.CheckedIn
	}
	return UserCheckinItem{
		DiscordUserID:    d.DiscordUserID,
		Username:         d.Username,
		DisplayName:      d.DisplayName,
		AvatarURL:        d.AvatarURL,
		TotalCheckinDays: d.TotalCheckinDays,
		CheckinStatus:    status,
	}
}
