package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"homestay/internal/app/commands"
	reviewapp "homestay/internal/app/handlers/reviews"
)

type ReviewHandler struct {
	Commands commands.Bus
}

type addReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

func (h ReviewHandler) Add(c *gin.Context) {
	viewerID, ok := requireViewer(c)
	if !ok {
		return
	}
	var req addReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := reviewapp.AddReviewCommand{
		ReviewID:  uuid.NewString(),
		ListingID: c.Param("id"),
		AuthorID:  viewerID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	result, err := commands.Dispatch[reviewapp.AddReviewCommand, *reviewapp.ReviewResult](
		c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ReviewHandler) Delete(c *gin.Context) {
	viewerID, ok := requireViewer(c)
	if !ok {
		return
	}
	cmd := reviewapp.DeleteReviewCommand{
		ListingID: c.Param("id"),
		ReviewID:  c.Param("reviewId"),
		CallerID:  viewerID,
	}
	result, err := commands.Dispatch[reviewapp.DeleteReviewCommand, *reviewapp.ReviewResult](
		c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ReviewHTTP = ReviewHandler{}
