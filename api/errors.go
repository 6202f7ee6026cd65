package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/anisurarzu/hotelseashore/internal/domain"
	"github.com/gin-gonic/gin"
)

type conflictResponse struct {
	BookingID string `json:"booking_id"`
	GuestName string `json:"guest_name"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
}

// writeError maps domain errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var conflict *domain.ConflictError
	switch {
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
			"conflict": conflictResponse{
				BookingID: conflict.BookingID,
				GuestName: conflict.GuestName,
				CheckIn:   conflict.Interval.CheckIn.Format(domain.DateLayout),
				CheckOut:  conflict.Interval.CheckOut.Format(domain.DateLayout),
			},
		})
	case errors.Is(err, domain.ErrRoomConflict), errors.Is(err, domain.ErrAlreadyCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidInterval), errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrBusy):
		c.Header("Retry-After", "1")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
