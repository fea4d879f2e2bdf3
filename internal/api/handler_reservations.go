package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"seatidle-backend/internal/store"
)

// GetReservations handles GET /api/reservations (open bookings only).
func (h *Handler) GetReservations(c *gin.Context) {
	res, err := h.store.OpenReservations(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reservations"})
		return
	}
	c.JSON(http.StatusOK, res)
}

type createReservationRequest struct {
	Name     string `json:"name" binding:"required"`
	Date     string `json:"date" binding:"required"`
	TimeSlot string `json:"time_slot" binding:"required"`
}

// CreateReservation handles POST /api/reservations and returns the new OTP.
func (h *Handler) CreateReservation(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	otp, err := h.store.CreateReservation(c.Request.Context(), req.Name, req.Date, req.TimeSlot)
	if err != nil {
		if errors.Is(err, store.ErrOTPExhausted) {
			c.JSON(http.StatusConflict, gin.H{"error": "No booking codes available. Try again later."})
			return
		}
		log.Printf("Error creating reservation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reservation"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"otp": otp})
}

// CancelReservation handles DELETE /api/reservations/:otp. Only unused
// bookings can be cancelled; the failure message never says which check
// failed.
func (h *Handler) CancelReservation(c *gin.Context) {
	err := h.store.CancelReservation(c.Request.Context(), c.Param("otp"))
	if err != nil {
		if errors.Is(err, store.ErrNotFoundOrUsed) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid OTP or booking already used."})
			return
		}
		log.Printf("Error cancelling reservation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel reservation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation cancelled successfully."})
}
