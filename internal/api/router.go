package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"seatidle-backend/internal/mw"
)

// RouterOptions tunes the public-surface middleware.
type RouterOptions struct {
	RateLimitPerSec float64
	RateLimitBurst  int
	CacheTTL        time.Duration
}

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(opts.RateLimitPerSec), opts.RateLimitBurst)

	cacheStore := cache.New(opts.CacheTTL, 10*time.Minute)
	caching := mw.Cache(cacheStore, opts.CacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Public dashboard reads. Polled aggressively, so briefly cached.
		api.GET("/dashboard", caching, h.GetDashboard)
		api.GET("/logs", caching, h.GetLogs)
		api.GET("/staff", caching, h.GetPresentStaff)

		// Reservation flow.
		api.GET("/reservations", h.GetReservations)
		api.POST("/reservations", h.CreateReservation)
		api.DELETE("/reservations/:otp", h.CancelReservation)

		// Device-facing endpoints.
		api.POST("/update_data", h.UpdateData)
		api.POST("/sensor", h.SensorAction)
		api.POST("/scan", h.ScanBadge)
		api.POST("/verify_otp", h.VerifyOTP)

		// Web push.
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)

		api.POST("/admin/login", h.AdminLogin)

		admin := api.Group("/admin")
		admin.Use(mw.RequireAdmin(h.sessions))
		{
			admin.POST("/logout", h.AdminLogout)
			admin.GET("/overview", h.GetOverview)
			admin.POST("/seats/reset", h.ResetSeats)
			admin.POST("/capacity", h.UpdateCapacity)
			admin.POST("/system/toggle", h.ToggleSystem)

			admin.GET("/staff", h.GetAllStaff)
			admin.POST("/staff", h.AddStaff)
			admin.PUT("/staff/:uid", h.RenameStaff)
			admin.DELETE("/staff/:uid", h.RemoveStaff)

			admin.GET("/reservations", h.GetAllReservations)
			admin.DELETE("/reservations/:otp", h.DeleteReservation)

			admin.GET("/announcements", h.GetAnnouncements)
			admin.POST("/announcements", h.PostAnnouncement)
			admin.PUT("/announcements/:id", h.EditAnnouncement)
			admin.DELETE("/announcements/:id", h.DeleteAnnouncement)
		}
	}

	return r
}
