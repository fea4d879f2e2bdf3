package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"seatidle-backend/internal/mw"
	"seatidle-backend/internal/notification"
	"seatidle-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	sessions *mw.AdminSessions
	notify   *notification.WorkerPool
	webpush  *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, sessions *mw.AdminSessions, notify *notification.WorkerPool, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:    s,
		sessions: sessions,
		notify:   notify,
		webpush:  webpushOptions,
	}
}
