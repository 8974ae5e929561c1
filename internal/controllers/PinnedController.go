package controllers

import (
	"checkinboard/internal/models"
	"checkinboard/internal/pinned"
	"checkinboard/internal/providers"
	"context"
	"net/http"
)

// PinnedStoreInterface is what the pinned endpoints need from the store.
type PinnedStoreInterface interface {
	GetPinnedIds(scheduleID string) []string
	IsPinned(scheduleID, userID string) bool
	GetPinnedCount(scheduleID string) int
	CanPin(scheduleID string) bool
	GetPinnedUserList(scheduleID string) []models.UserCheckinItem
	PinUser(scheduleID, userID string) (bool, error)
	UnpinUser(scheduleID, userID string) error
	TogglePin(scheduleID, userID string) (bool, error)
	ClearPinned(scheduleID string) error
	FetchPinnedUsers(ctx context.Context, scheduleID string)
	IsLoadingPinned() bool
}

type PinnedController struct {
	logger providers.Logger
	store  PinnedStoreInterface
}

type pinnedResponse struct {
	ScheduleID string                   `json:"scheduleId"`
	Ids        []string                 `json:"ids"`
	Count      int                      `json:"count"`
	Max        int                      `json:"max"`
	CanPin     bool                     `json:"canPin"`
	Users      []models.UserCheckinItem `json:"users"`
	Loading    bool                     `json:"loading"`
}

type toggleResponse struct {
	Pinned bool `json:"pinned"`
	pinnedResponse
}

func NewPinnedController(logger providers.Logger, store PinnedStoreInterface) *PinnedController {
	return &PinnedController{logger: logger, store: store}
}

func (pc *PinnedController) snapshot(scheduleID string) pinnedResponse {
	ids := pc.store.GetPinnedIds(scheduleID)
	return pinnedResponse{
		ScheduleID: scheduleID,
		Ids:        ids,
		Count:      len(ids),
		Max:        pinned.MaxPinned,
		CanPin:     pc.store.CanPin(scheduleID),
		Users:      pc.store.GetPinnedUserList(scheduleID),
		Loading:    pc.store.IsLoadingPinned(),
	}
}

// writePersistError answers a failed write. The store has already logged it.
func (pc *PinnedController) writePersistError(w http.ResponseWriter, err error) {
	pc.logger.Debugf(providers.TypePinned, "Pinned change not saved: %s", err)
	writeError(w, http.StatusInternalServerError, "STORAGE_ERROR", "pinned users could not be saved")
}

func (pc *PinnedController) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pc.snapshot(r.PathValue("scheduleId")))
}

type membershipResponse struct {
	ScheduleID string `json:"scheduleId"`
	UserID     string `json:"userId"`
	Pinned     bool   `json:"pinned"`
	Count      int    `json:"count"`
}

func (pc *PinnedController) Membership(w http.ResponseWriter, r *http.Request) {
	scheduleID, userID := r.PathValue("scheduleId"), r.PathValue("userId")
	writeJSON(w, http.StatusOK, membershipResponse{
		ScheduleID: scheduleID,
		UserID:     userID,
		Pinned:     pc.store.IsPinned(scheduleID, userID),
		Count:      pc.store.GetPinnedCount(scheduleID),
	})
}

func (pc *PinnedController) Pin(w http.ResponseWriter, r *http.Request) {
	scheduleID, userID := r.PathValue("scheduleId"), r.PathValue("userId")
	ok, err := pc.store.PinUser(scheduleID, userID)
	if err != nil {
		pc.writePersistError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusConflict, "PIN_LIMIT_REACHED", "at most 5 users can be pinned per schedule")
		return
	}
	writeJSON(w, http.StatusOK, pc.snapshot(scheduleID))
}

func (pc *PinnedController) Unpin(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("scheduleId")
	if err := pc.store.UnpinUser(scheduleID, r.PathValue("userId")); err != nil {
		pc.writePersistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pc.snapshot(scheduleID))
}

func (pc *PinnedController) Toggle(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("scheduleId")
	isPinned, err := pc.store.TogglePin(scheduleID, r.PathValue("userId"))
	if err != nil {
		pc.writePersistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Pinned: isPinned, pinnedResponse: pc.snapshot(scheduleID)})
}

func (pc *PinnedController) Clear(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("scheduleId")
	if err := pc.store.ClearPinned(scheduleID); err != nil {
		pc.writePersistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pc.snapshot(scheduleID))
}

// Refresh hydrates every pinned user of the schedule and answers once the
// whole batch has settled.
func (pc *PinnedController) Refresh(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("scheduleId")
	pc.store.FetchPinnedUsers(r.Context(), scheduleID)
	writeJSON(w, http.StatusOK, pc.snapshot(scheduleID))
}
