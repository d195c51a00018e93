package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/dorpsplein/dorpsplein-api/internal/application"
	"github.com/dorpsplein/dorpsplein-api/internal/domain/entity"
	repo "github.com/dorpsplein/dorpsplein-api/internal/domain/repository"
	"github.com/dorpsplein/dorpsplein-api/pkg/response"
	"github.com/dorpsplein/dorpsplein-api/pkg/validation"
)

// ListingHandler serves the unified listing resource: the dishes routes
// plus the garden and products views of the same records.
type ListingHandler struct {
	Svc    *app.ListingService
	Logger *logrus.Logger
}

func NewListingHandler(svc *app.ListingService, logger *logrus.Logger) *ListingHandler {
	return &ListingHandler{Svc: svc, Logger: logger}
}

// listingPayload is the create body. Category defaults per route.
type listingPayload struct {
	Category    string         `json:"category"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      string         `json:"status" binding:"omitempty,liststatus"`
	Photos      []entity.Photo `json:"photos"`
	VideoURL    string         `json:"videoUrl"`
	Tags        []string       `json:"tags"`

	PriceCents   int    `json:"priceCents"`
	Stock        int    `json:"stock"`
	MaxStock     int    `json:"maxStock"`
	DeliveryMode string `json:"deliveryMode" binding:"omitempty,deliverymode"`

	Recipe *entity.RecipeDetails `json:"recipe,omitempty"`
	Garden *entity.GardenDetails `json:"garden,omitempty"`
	Design *entity.DesignDetails `json:"design,omitempty"`
}

// listingPatch carries partial edits. Nil fields are untouched.
type listingPatch struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Status      *string         `json:"status" binding:"omitempty,liststatus"`
	Photos      *[]entity.Photo `json:"photos"`
	VideoURL    *string         `json:"videoUrl"`
	Tags        *[]string       `json:"tags"`

	PriceCents   *int    `json:"priceCents"`
	Stock        *int    `json:"stock"`
	MaxStock     *int    `json:"maxStock"`
	DeliveryMode *string `json:"deliveryMode" binding:"omitempty,deliverymode"`

	Recipe *entity.RecipeDetails `json:"recipe"`
	Garden *entity.GardenDetails `json:"garden"`
	Design *entity.DesignDetails `json:"design"`
}

func listingJSON(l *entity.Listing) gin.H {
	return gin.H{
		"id":           l.ID,
		"userId":       l.UserID,
		"category":     l.Category,
		"title":        l.Title,
		"description":  l.Description,
		"status":       l.Status,
		"photos":       l.Photos,
		"videoUrl":     l.VideoURL,
		"tags":         l.Tags,
		"priceCents":   l.PriceCents,
		"stock":        l.Stock,
		"maxStock":     l.MaxStock,
		"deliveryMode": l.DeliveryMode,
		"recipe":       l.Recipe,
		"garden":       l.Garden,
		"design":       l.Design,
		"sellable":     l.Sellable(),
		"createdAt":    l.CreatedAt,
		"updatedAt":    l.UpdatedAt,
	}
}

func listingsJSON(ls []*entity.Listing) []gin.H {
	out := make([]gin.H, 0, len(ls))
	for _, l := range ls {
		out = append(out, listingJSON(l))
	}
	return out
}

// writeListingErr maps listing service errors onto API responses. Save
// guard violations become a 422 with every violation listed.
func (h *ListingHandler) writeListingErr(c *gin.Context, err error) {
	var saveErr *app.SaveError
	switch {
	case errors.As(err, &saveErr):
		response.Error[any](c, http.StatusUnprocessableEntity, "listing cannot be saved", gin.H{"violations": saveErr.Violations})
	case errors.Is(err, app.ErrListingNotFound), errors.Is(err, app.ErrDraftNotFound):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, app.ErrNotOwner):
		response.Error[any](c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, app.ErrUnknownCategory):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	default:
		h.Logger.WithError(err).Error("listing operation failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
	}
}

// listWith handles the GET collection routes. An empty forceCategory
// leaves the category filter to the query string.
func (h *ListingHandler) listWith(c *gin.Context, forceCategory string) {
	f := repo.ListingFilter{
		UserID:   c.DefaultQuery("userId", c.GetString("userID")),
		Category: c.Query("category"),
		View:     c.Query("view"),
	}
	if forceCategory != "" {
		f.Category = forceCategory
	}
	ls, err := h.Svc.List(c.Request.Context(), c.GetString("userID"), f)
	if err != nil {
		h.writeListingErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, listingsJSON(ls), "listings", map[string]any{"count": len(ls)})
}

func (h *ListingHandler) ListDishes(c *gin.Context) { h.listWith(c, "") }
func (h *ListingHandler) ListGarden(c *gin.Context) { h.listWith(c, entity.CategoryGrown) }

func (h *ListingHandler) createWith(c *gin.Context, forceCategory string) {
	var req listingPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if forceCategory != "" {
		req.Category = forceCategory
	}
	l := &entity.Listing{
		Category:     req.Category,
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Photos:       req.Photos,
		VideoURL:     req.VideoURL,
		Tags:         req.Tags,
		PriceCents:   req.PriceCents,
		Stock:        req.Stock,
		MaxStock:     req.MaxStock,
		DeliveryMode: req.DeliveryMode,
		Recipe:       req.Recipe,
		Garden:       req.Garden,
		Design:       req.Design,
	}
	out, err := h.Svc.Create(c.Request.Context(), c.GetString("userID"), l)
	if err != nil {
		h.writeListingErr(c, err)
		return
	}
	response.Success(c, http.StatusCreated, listingJSON(out), "listing created", nil)
}

func (h *ListingHandler) CreateDish(c *gin.Context)   { h.createWith(c, "") }
func (h *ListingHandler) CreateGarden(c *gin.Context) { h.createWith(c, entity.CategoryGrown) }

func (h *ListingHandler) Patch(c *gin.Context) {
	var req listingPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	out, err := h.Svc.Update(c.Request.Context(), c.GetString("userID"), c.Param("id"), func(l *entity.Listing) {
		if req.Title != nil {
			l.Title = *req.Title
		}
		if req.Description != nil {
			l.Description = *req.Description
		}
		if req.Status != nil {
			l.Status = *req.Status
		}
		if req.Photos != nil {
			l.Photos = *req.Photos
		}
		if req.VideoURL != nil {
			l.VideoURL = *req.VideoURL
		}
		if req.Tags != nil {
			l.Tags = *req.Tags
		}
		if req.PriceCents != nil {
			l.PriceCents = *req.PriceCents
		}
		if req.Stock != nil {
			l.Stock = *req.Stock
		}
		if req.MaxStock != nil {
			l.MaxStock = *req.MaxStock
		}
		if req.DeliveryMode != nil {
			l.DeliveryMode = *req.DeliveryMode
		}
		if req.Recipe != nil {
			l.Recipe = req.Recipe
		}
		if req.Garden != nil {
			l.Garden = req.Garden
		}
		if req.Design != nil {
			l.Design = req.Design
		}
	})
	if err != nil {
		h.writeListingErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, listingJSON(out), "listing updated", nil)
}

func (h *ListingHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		h.writeListingErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "listing deleted", nil)
}

// GetDetail is the public detail route. Private listings 404 for
// everyone but their owner.
func (h *ListingHandler) GetDetail(c *gin.Context) {
	l, err := h.Svc.Get(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		h.writeListingErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, listingJSON(l), "listing", nil)
}

// Promote creates a server-side product draft from a listing and returns
// the one-shot draft id.
func (h *ListingHandler) Promote(c *gin.Context) {
	draftID, draft, err := h.Svc.Promote(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		h.writeListingErr(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"draftId": draftID, "draft": draft}, "draft created", nil)
}

// ConsumeDraft reads and burns a product draft.
func (h *ListingHandler) ConsumeDraft(c *gin.Context) {
	draft, err := h.Svc.ConsumeDraft(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		h.writeListingErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, draft, "draft", nil)
}

// Search queries the Elasticsearch listings index.
func (h *ListingHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Warn("listing search failed")
		response.Error[any](c, http.StatusBadGateway, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}
