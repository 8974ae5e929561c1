package internal

import (
	"checkinboard/internal/controllers"
	"checkinboard/internal/providers"
	"net/http"
)

const schedulePrefix = "/api/schedules/{scheduleId}"

func InitRoutes(pinnedController *controllers.PinnedController, checkinController *controllers.CheckinController, preferencesController *controllers.PreferencesController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get(schedulePrefix+"/pinned", http.HandlerFunc(pinnedController.List))
	routers.Delete(schedulePrefix+"/pinned", http.HandlerFunc(pinnedController.Clear))
	routers.Post(schedulePrefix+"/pinned/refresh", http.HandlerFunc(pinnedController.Refresh))
	routers.Get(schedulePrefix+"/pinned/{userId}", http.HandlerFunc(pinnedController.Membership))
	routers.Put(schedulePrefix+"/pinned/{userId}", http.HandlerFunc(pinnedController.Pin))
	routers.Delete(schedulePrefix+"/pinned/{userId}", http.HandlerFunc(pinnedController.Unpin))
	routers.Post(schedulePrefix+"/pinned/{userId}/toggle", http.HandlerFunc(pinnedController.Toggle))

	routers.Get(schedulePrefix+"/stats", http.HandlerFunc(checkinController.Stats))
	routers.Get(schedulePrefix+"/users", http.HandlerFunc(checkinController.Users))
	routers.Post(schedulePrefix+"/users/more", http.HandlerFunc(checkinController.MoreUsers))
	routers.Get(schedulePrefix+"/users/{userId}", http.HandlerFunc(checkinController.UserDetail))
	routers.Get(schedulePrefix+"/days/{dayLabel}", http.HandlerFunc(checkinController.DayDetail))
	routers.Get(schedulePrefix+"/search", http.HandlerFunc(checkinController.Search))
	routers.Get(schedulePrefix+"/threads", http.HandlerFunc(checkinController.Threads))

	routers.Get("/api/state", http.HandlerFunc(checkinController.State))
	routers.Delete("/api/state", http.HandlerFunc(checkinController.ResetState))
	routers.Delete("/api/state/error", http.HandlerFunc(checkinController.ClearError))
	routers.Delete("/api/state/search", http.HandlerFunc(checkinController.ClearSearch))

	routers.Get("/api/preferences/theme", http.HandlerFunc(preferencesController.GetTheme))
	routers.Put("/api/preferences/theme", http.HandlerFunc(preferencesController.SetTheme))
	routers.Post("/api/preferences/theme/toggle", http.HandlerFunc(preferencesController.ToggleTheme))
	return routers
}
