package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/anisurarzu/hotelseashore/internal/domain"
	"github.com/anisurarzu/hotelseashore/internal/service/inventory"
	"github.com/anisurarzu/hotelseashore/internal/service/reservation"
	"github.com/gin-gonic/gin"
)

type HotelHandler struct {
	inventory    inventory.InventoryUseCase
	reservations reservation.ReservationUseCase
}

type hotelResponse struct {
	ID         int64              `json:"id"`
	Name       string             `json:"name"`
	Address    string             `json:"address"`
	Categories []categoryResponse `json:"categories"`
}

type categoryResponse struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	BasePriceCents int64    `json:"base_price_cents"`
	Rooms          []string `json:"rooms"`
}

type availableRoomsResponse struct {
	HotelID    int64    `json:"hotel_id"`
	CategoryID int64    `json:"category_id"`
	CheckIn    string   `json:"check_in,omitempty"`
	CheckOut   string   `json:"check_out,omitempty"`
	Rooms      []string `json:"rooms"`
}

func NewHotelHandler(inventory inventory.InventoryUseCase, reservations reservation.ReservationUseCase) *HotelHandler {
	return &HotelHandler{inventory: inventory, reservations: reservations}
}

func (h *HotelHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:hotelID", h.get)
	router.GET("/:hotelID/reservations", h.reservationsByHotel)
	router.GET("/:hotelID/categories/:categoryID/available-rooms", h.availableRooms)
}

func (h *HotelHandler) list(c *gin.Context) {
	hotels, err := h.inventory.ListHotels(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]hotelResponse, 0, len(hotels))
	for i := range hotels {
		out = append(out, toHotelResponse(&hotels[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *HotelHandler) get(c *gin.Context) {
	id, ok := idParam(c, "hotelID")
	if !ok {
		return
	}
	hotel, err := h.inventory.GetHotel(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toHotelResponse(hotel))
}

func (h *HotelHandler) reservationsByHotel(c *gin.Context) {
	id, ok := idParam(c, "hotelID")
	if !ok {
		return
	}

	var status domain.ReservationStatus
	if raw := c.Query("status"); raw != "" {
		parsed, err := domain.ParseReservationStatus(raw)
		if err != nil {
			writeError(c, err)
			return
		}
		status = parsed
	}

	list, err := h.reservations.ListHotelReservations(c.Request.Context(), id, status)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]reservationResponse, 0, len(list))
	for i := range list {
		out = append(out, toReservationResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *HotelHandler) availableRooms(c *gin.Context) {
	hotelID, ok := idParam(c, "hotelID")
	if !ok {
		return
	}
	categoryID, ok := idParam(c, "categoryID")
	if !ok {
		return
	}

	query := reservation.AvailabilityQuery{
		HotelID:          hotelID,
		CategoryID:       categoryID,
		ExcludeBookingID: strings.TrimSpace(c.Query("exclude_booking_id")),
	}
	if raw := c.Query("check_in"); raw != "" {
		in, err := domain.ParseDate(raw)
		if err != nil {
			writeError(c, err)
			return
		}
		query.CheckIn = &in
	}
	if raw := c.Query("check_out"); raw != "" {
		out, err := domain.ParseDate(raw)
		if err != nil {
			writeError(c, err)
			return
		}
		query.CheckOut = &out
	}

	rooms, err := h.reservations.GetAvailableRooms(c.Request.Context(), query)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := availableRoomsResponse{HotelID: hotelID, CategoryID: categoryID, Rooms: rooms}
	if query.CheckIn != nil {
		resp.CheckIn = query.CheckIn.Format(domain.DateLayout)
		resp.CheckOut = query.CheckOut.Format(domain.DateLayout)
	}
	if resp.Rooms == nil {
		resp.Rooms = []string{}
	}
	c.JSON(http.StatusOK, resp)
}

func toHotelResponse(h *domain.Hotel) hotelResponse {
	resp := hotelResponse{ID: h.ID, Name: h.Name, Address: h.Address, Categories: make([]categoryResponse, 0, len(h.Categories))}
	for _, c := range h.Categories {
		rooms := make([]string, 0, len(c.Rooms))
		for _, r := range c.Rooms {
			rooms = append(rooms, r.ID)
		}
		resp.Categories = append(resp.Categories, categoryResponse{
			ID:             c.ID,
			Name:           c.Name,
			BasePriceCents: c.BasePriceCents,
			Rooms:          rooms,
		})
	}
	return resp
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
