package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"seatidle-backend/internal/mw"
	"seatidle-backend/internal/parse"
	"seatidle-backend/internal/store"
)

type adminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// AdminLogin handles POST /api/admin/login, exchanging the shared secret for
// a session token.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	token, ok := h.sessions.Login(req.Password)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid Password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// AdminLogout handles POST /api/admin/logout.
func (h *Handler) AdminLogout(c *gin.Context) {
	token, err := mw.TokenFrom(c)
	if err == nil {
		h.sessions.Logout(token)
	}
	c.Status(http.StatusNoContent)
}

// GetOverview handles GET /api/admin/overview.
func (h *Handler) GetOverview(c *gin.Context) {
	overview, err := h.store.AdminOverview(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load overview"})
		return
	}
	c.JSON(http.StatusOK, overview)
}

type resetSeatsRequest struct {
	Seats *int `json:"seats" binding:"required"`
}

// ResetSeats handles POST /api/admin/seats/reset.
func (h *Handler) ResetSeats(c *gin.Context) {
	var req resetSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seats is required"})
		return
	}

	if err := h.store.ResetSeats(c.Request.Context(), *req.Seats); err != nil {
		log.Printf("Error resetting seats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset seats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Seats reset to %d", *req.Seats)})
}

type updateCapacityRequest struct {
	TotalCapacity *int `json:"total_capacity" binding:"required"`
}

// UpdateCapacity handles POST /api/admin/capacity. The number of people
// currently inside is preserved across the change.
func (h *Handler) UpdateCapacity(c *gin.Context) {
	var req updateCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "total_capacity is required"})
		return
	}

	err := h.store.UpdateCapacity(c.Request.Context(), *req.TotalCapacity)
	if err != nil {
		if errors.Is(err, store.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error updating capacity: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update capacity"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Capacity updated to %d", *req.TotalCapacity)})
}

// ToggleSystem handles POST /api/admin/system/toggle.
func (h *Handler) ToggleSystem(c *gin.Context) {
	enabled, err := h.store.ToggleSystemStatus(c.Request.Context())
	if err != nil {
		log.Printf("Error toggling system status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle system status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"system_status": enabled})
}

// --- staff ---

// GetAllStaff handles GET /api/admin/staff.
func (h *Handler) GetAllStaff(c *gin.Context) {
	staff, err := h.store.AllStaff(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load staff"})
		return
	}
	c.JSON(http.StatusOK, staff)
}

type addStaffRequest struct {
	UID  string `json:"uid" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// AddStaff handles POST /api/admin/staff with insert-or-replace semantics.
func (h *Handler) AddStaff(c *gin.Context) {
	var req addStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid, err := parse.NormalizeBadge(req.UID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.AddStaff(c.Request.Context(), uid, req.Name); err != nil {
		log.Printf("Error adding staff: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add staff"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": fmt.Sprintf("Added %s", req.Name)})
}

type renameStaffRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameStaff handles PUT /api/admin/staff/:uid.
func (h *Handler) RenameStaff(c *gin.Context) {
	var req renameStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.store.RenameStaff(c.Request.Context(), c.Param("uid"), req.Name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Staff member not found"})
			return
		}
		log.Printf("Error renaming staff: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rename staff"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staff updated"})
}

// RemoveStaff handles DELETE /api/admin/staff/:uid.
func (h *Handler) RemoveStaff(c *gin.Context) {
	if err := h.store.RemoveStaff(c.Request.Context(), c.Param("uid")); err != nil {
		log.Printf("Error removing staff: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove staff"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staff deleted."})
}

// --- reservations ---

// GetAllReservations handles GET /api/admin/reservations.
func (h *Handler) GetAllReservations(c *gin.Context) {
	res, err := h.store.AllReservations(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reservations"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// DeleteReservation handles DELETE /api/admin/reservations/:otp, removing
// the booking regardless of its state.
func (h *Handler) DeleteReservation(c *gin.Context) {
	if err := h.store.DeleteReservation(c.Request.Context(), c.Param("otp")); err != nil {
		log.Printf("Error deleting reservation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete reservation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation deleted."})
}

// --- announcements ---

// GetAnnouncements handles GET /api/admin/announcements (full history).
func (h *Handler) GetAnnouncements(c *gin.Context) {
	anns, err := h.store.Announcements(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load announcements"})
		return
	}
	c.JSON(http.StatusOK, anns)
}

type announcementRequest struct {
	Message string `json:"message" binding:"required"`
}

// PostAnnouncement handles POST /api/admin/announcements and pushes the new
// message to dashboard subscribers.
func (h *Handler) PostAnnouncement(c *gin.Context) {
	var req announcementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ann, err := h.store.PostAnnouncement(c.Request.Context(), req.Message)
	if err != nil {
		log.Printf("Error posting announcement: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post announcement"})
		return
	}

	if h.notify != nil {
		h.notify.Dispatch(ann.Message)
	}
	c.JSON(http.StatusCreated, ann)
}

// EditAnnouncement handles PUT /api/admin/announcements/:id.
func (h *Handler) EditAnnouncement(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid announcement ID"})
		return
	}

	var req announcementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.store.EditAnnouncement(c.Request.Context(), id, req.Message)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
			return
		}
		log.Printf("Error editing announcement: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to edit announcement"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Announcement updated"})
}

// DeleteAnnouncement handles DELETE /api/admin/announcements/:id.
func (h *Handler) DeleteAnnouncement(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid announcement ID"})
		return
	}

	if err := h.store.DeleteAnnouncement(c.Request.Context(), id); err != nil {
		log.Printf("Error deleting announcement: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete announcement"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Announcement Deleted"})
}
