package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"seatidle-backend/internal/parse"
	"seatidle-backend/internal/store"
)

// updateDataRequest is the payload pushed by the ESP32 firmware and the
// simulator: an absolute occupancy reading plus optional badge context.
type updateDataRequest struct {
	Occupancy *int   `json:"occupancy"`
	Event     string `json:"event"`
	User      string `json:"user"`
	UID       string `json:"uid"`
}

// UpdateData handles POST /api/update_data, the device ingestion endpoint.
func (h *Handler) UpdateData(c *gin.Context) {
	var req updateDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "No JSON data"})
		return
	}

	occupancy := 0
	if req.Occupancy != nil {
		occupancy = *req.Occupancy
	}

	err := h.store.ReportEvent(c.Request.Context(), occupancy, req.Event, req.User, req.UID)
	if err != nil {
		if errors.Is(err, store.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
			return
		}
		log.Printf("Error applying device event: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "internal error"})
		return
	}

	log.Printf("SENSOR: %s | Occ: %d", req.Event, occupancy)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type sensorRequest struct {
	Action string `json:"action" binding:"required,oneof=enter exit"`
}

// SensorAction handles POST /api/sensor, the relative enter/exit signal.
func (h *Handler) SensorAction(c *gin.Context) {
	var req sensorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "action must be enter or exit"})
		return
	}

	delta := 1
	if req.Action == "enter" {
		delta = -1
	}

	if err := h.store.AdjustSeats(c.Request.Context(), delta); err != nil {
		log.Printf("Error applying sensor delta: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type scanRequest struct {
	UID string `json:"uid" binding:"required"`
}

// ScanBadge handles POST /api/scan from the RFID reader.
func (h *Handler) ScanBadge(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "uid is required"})
		return
	}

	uid, err := parse.NormalizeBadge(req.UID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	status, err := h.store.ScanBadge(c.Request.Context(), uid)
	if err != nil {
		log.Printf("Error processing badge scan: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

type verifyOTPRequest struct {
	OTP string `json:"otp" binding:"required"`
}

// VerifyOTP handles POST /api/verify_otp at the access point. The response
// is deliberately just granted or denied, nothing about why.
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"result": "ACCESS_DENIED"})
		return
	}

	err := h.store.RedeemReservation(c.Request.Context(), req.OTP)
	if err != nil {
		if !errors.Is(err, store.ErrAccessDenied) {
			log.Printf("Error redeeming OTP: %v", err)
		}
		c.JSON(http.StatusForbidden, gin.H{"result": "ACCESS_DENIED"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "ACCESS_GRANTED"})
}
