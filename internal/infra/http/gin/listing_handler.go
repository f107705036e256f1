package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"homestay/internal/app/commands"
	listingapp "homestay/internal/app/handlers/listings"
	domainlistings "homestay/internal/domain/listings"
)

type ListingHandler struct {
	Commands commands.Bus
	Catalogs *listingapp.CatalogHandler
	Listings domainlistings.Repository
}

func (h ListingHandler) Catalog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	result, err := h.Catalogs.Handle(c.Request.Context(), listingapp.CatalogQuery{
		Location: c.Query("location"),
		Sort:     domainlistings.SortOrder(c.Query("sort")),
		Limit:    limit,
		Page:     page,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"region": result.Region,
		"total":  result.Total,
		"result": listingViews(result.Result, ""),
	})
}

func (h ListingHandler) Get(c *gin.Context) {
	listing, err := h.Listings.ByID(c.Request.Context(), domainlistings.ListingID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listingView(listing, c.GetString(viewerKey)))
}

func (h ListingHandler) Calendar(c *gin.Context) {
	listing, err := h.Listings.ByID(c.Request.Context(), domainlistings.ListingID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booked": listing.Calendar.YearView()})
}

type createListingRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Type        string `json:"type" binding:"required"`
	Address     string `json:"address" binding:"required"`
	Price       int64  `json:"price"`
	NumOfGuests int    `json:"num_of_guests" binding:"required"`
	Image       string `json:"image" binding:"required"`
}

func (h ListingHandler) Create(c *gin.Context) {
	viewerID, ok := requireViewer(c)
	if !ok {
		return
	}
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := listingapp.CreateListingCommand{
		CommandID:   uuid.NewString(),
		HostID:      viewerID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Address:     req.Address,
		Price:       req.Price,
		NumOfGuests: req.NumOfGuests,
		Base64Image: req.Image,
	}
	result, err := commands.Dispatch[listingapp.CreateListingCommand, *listingapp.CreateListingResult](
		c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type reviewView struct {
	ID        string `json:"id"`
	AuthorID  string `json:"author_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at"`
}

type listingProfile struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Image       string       `json:"image"`
	HostID      string       `json:"host_id"`
	Type        string       `json:"type"`
	Address     string       `json:"address"`
	Country     string       `json:"country"`
	Admin       string       `json:"admin"`
	City        string       `json:"city"`
	Price       int64        `json:"price"`
	NumOfGuests int          `json:"num_of_guests"`
	NumReviews  int          `json:"num_reviews"`
	Rating      float64      `json:"rating"`
	Reviews     []reviewView `json:"reviews,omitempty"`
	Mine        bool         `json:"mine"`
}

func listingView(l *domainlistings.Listing, viewerID string) listingProfile {
	views := make([]reviewView, 0, len(l.Reviews))
	for _, rv := range l.Reviews {
		views = append(views, reviewView{
			ID:        string(rv.ID),
			AuthorID:  rv.AuthorID,
			Rating:    rv.Rating,
			Comment:   rv.Comment,
			CreatedAt: rv.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return listingProfile{
		ID:          string(l.ID),
		Title:       l.Title,
		Description: l.Description,
		Image:       l.Image,
		HostID:      l.HostID,
		Type:        string(l.Type),
		Address:     l.Address.Text,
		Country:     l.Address.Country,
		Admin:       l.Address.Admin,
		City:        l.Address.City,
		Price:       l.Price,
		NumOfGuests: l.NumOfGuests,
		NumReviews:  l.NumReviews,
		Rating:      l.Rating,
		Reviews:     views,
		Mine:        viewerID != "" && viewerID == l.HostID,
	}
}

func listingViews(list []*domainlistings.Listing, viewerID string) []listingProfile {
	out := make([]listingProfile, 0, len(list))
	for _, l := range list {
		out = append(out, listingView(l, viewerID))
	}
	return out
}

var _ ListingHTTP = ListingHandler{}
