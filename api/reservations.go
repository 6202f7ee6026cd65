package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/anisurarzu/hotelseashore/internal/domain"
	"github.com/anisurarzu/hotelseashore/internal/service/reservation"
	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	service reservation.ReservationUseCase
}

type guestPayload struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type createReservationRequest struct {
	HotelID    int64        `json:"hotel_id"`
	CategoryID int64        `json:"category_id"`
	RoomID     string       `json:"room_id" binding:"required"`
	CheckIn    string       `json:"check_in" binding:"required"`
	CheckOut   string       `json:"check_out" binding:"required"`
	Guest      guestPayload `json:"guest"`
}

type editReservationRequest struct {
	CheckIn  string `json:"check_in" binding:"required"`
	CheckOut string `json:"check_out" binding:"required"`
}

type cancelReservationRequest struct {
	Reason      string `json:"reason"`
	CancelledBy string `json:"cancelled_by"`
}

type reservationResponse struct {
	ID           string       `json:"id"`
	HotelID      int64        `json:"hotel_id"`
	CategoryID   int64        `json:"category_id"`
	RoomID       string       `json:"room_id"`
	CheckIn      string       `json:"check_in"`
	CheckOut     string       `json:"check_out"`
	Nights       int          `json:"nights"`
	Status       string       `json:"status"`
	Guest        guestPayload `json:"guest"`
	CancelReason string       `json:"cancel_reason,omitempty"`
	CancelledBy  string       `json:"cancelled_by,omitempty"`
	CancelledAt  string       `json:"cancelled_at,omitempty"`
	CreatedAt    string       `json:"created_at"`
	UpdatedAt    string       `json:"updated_at"`
}

func NewReservationHandler(service reservation.ReservationUseCase) *ReservationHandler {
	return &ReservationHandler{service: service}
}

func (h *ReservationHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.edit)
	router.DELETE("/:id", h.cancel)
}

func (h *ReservationHandler) create(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkIn, checkOut, err := parseDates(req.CheckIn, req.CheckOut)
	if err != nil {
		writeError(c, err)
		return
	}

	created, err := h.service.CreateReservation(c.Request.Context(), reservation.CreateReservationInput{
		HotelID:    req.HotelID,
		CategoryID: req.CategoryID,
		RoomID:     req.RoomID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guest:      domain.Guest{Name: req.Guest.Name, Phone: req.Guest.Phone, Email: req.Guest.Email},
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReservationResponse(created))
}

func (h *ReservationHandler) get(c *gin.Context) {
	found, err := h.service.GetReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(found))
}

func (h *ReservationHandler) edit(c *gin.Context) {
	var req editReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkIn, checkOut, err := parseDates(req.CheckIn, req.CheckOut)
	if err != nil {
		writeError(c, err)
		return
	}

	edited, err := h.service.EditReservation(c.Request.Context(), c.Param("id"), reservation.EditReservationInput{
		CheckIn:  checkIn,
		CheckOut: checkOut,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(edited))
}

func (h *ReservationHandler) cancel(c *gin.Context) {
	var req cancelReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cancelled, err := h.service.CancelReservation(c.Request.Context(), c.Param("id"), reservation.CancelReservationInput{
		Reason: req.Reason,
		Actor:  req.CancelledBy,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(cancelled))
}

func parseDates(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := domain.ParseDate(checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := domain.ParseDate(checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return in, out, nil
}

func toReservationResponse(r *domain.Reservation) reservationResponse {
	resp := reservationResponse{
		ID:           r.ID,
		HotelID:      r.HotelID,
		CategoryID:   r.CategoryID,
		RoomID:       r.RoomID,
		CheckIn:      r.CheckIn.Format(domain.DateLayout),
		CheckOut:     r.CheckOut.Format(domain.DateLayout),
		Nights:       r.Interval().Nights(),
		Status:       string(r.Status),
		Guest:        guestPayload{Name: r.Guest.Name, Phone: r.Guest.Phone, Email: r.Guest.Email},
		CancelReason: r.CancelReason,
		CancelledBy:  r.CancelledBy,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
	}
	if r.CancelledAt != nil {
		resp.CancelledAt = r.CancelledAt.Format(time.RFC3339)
	}
	return resp
}
