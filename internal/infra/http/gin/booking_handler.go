package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"homestay/internal/app/commands"
	bookingapp "homestay/internal/app/handlers/booking"
	domainbooking "homestay/internal/domain/booking"
)

type BookingHandler struct {
	Commands commands.Bus
	Bookings domainbooking.Repository
}

type commitBookingRequest struct {
	ListingID string `json:"listing_id" binding:"required"`
	Source    string `json:"source" binding:"required"`
	CheckIn   string `json:"check_in" binding:"required"`
	CheckOut  string `json:"check_out" binding:"required"`
}

func (h BookingHandler) Commit(c *gin.Context) {
	viewerID, ok := requireViewer(c)
	if !ok {
		return
	}
	var req commitBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.CommitBookingCommand{
		CommandID:       uuid.NewString(),
		ListingID:       req.ListingID,
		ViewerID:        viewerID,
		Source:          req.Source,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.CommitBookingCommand, *bookingapp.CommitBookingResult](
		c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type bookingView struct {
	ID        string `json:"id"`
	ListingID string `json:"listing_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Total     int64  `json:"total"`
}

func (h BookingHandler) MyBookings(c *gin.Context) {
	viewerID, ok := requireViewer(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	list, err := h.Bookings.ListByTenant(c.Request.Context(), viewerID, limit, page)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]bookingView, 0, len(list))
	for _, b := range list {
		out = append(out, bookingView{
			ID:        string(b.ID),
			ListingID: string(b.ListingID),
			CheckIn:   b.Range.CheckIn.Format("2006-01-02"),
			CheckOut:  b.Range.CheckOut.Format("2006-01-02"),
			Total:     b.Total,
		})
	}
	c.JSON(http.StatusOK, gin.H{"result": out})
}

var _ BookingHTTP = BookingHandler{}
