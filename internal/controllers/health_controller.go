package controllers

import (
	"fmt"
	"net/http"
	"time"
)

type HealthSource interface {
	ScheduleIDs() []string
	CachedCount() int
	IsLoadingPinned() bool
}

type HealthController struct {
	pins      HealthSource
	startTime time.Time
}

type healthResponse struct {
	Status          string  `json:"status"`
	Uptime          string  `json:"uptime"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
	PinnedSchedules int     `json:"pinned_schedules"`
	CachedUsers     int     `json:"cached_users"`
	LoadingPinned   bool    `json:"loading_pinned"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	writeJSON(w, http.StatusOK, healthResponse{
		Status:          "ok",
		Uptime:          formatDuration(uptime),
		UptimeSeconds:   uptime.Seconds(),
		PinnedSchedules: len(hc.pins.ScheduleIDs()),
		CachedUsers:     hc.pins.CachedCount(),
		LoadingPinned:   hc.pins.IsLoadingPinned(),
	})
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(pins HealthSource) *HealthController {
	return &HealthController{
		pins:      pins,
		startTime: time.Now(),
	}
}
