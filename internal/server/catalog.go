package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	auditdomain "github.com/smallbiznis/pointsale/internal/audit/domain"
	catalogdomain "github.com/smallbiznis/pointsale/internal/catalog/domain"
)

type createItemRequest struct {
	Title string           `json:"title"`
	Price *decimal.Decimal `json:"price"`
}

type itemResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Price        string    `json:"price"`
	PriceDisplay string    `json:"price_display"`
	CreatedAt    time.Time `json:"created_at"`
}

func newItemResponse(item catalogdomain.Item) itemResponse {
	return itemResponse{
		ID:           item.ID.String(),
		Title:        item.Title,
		Price:        item.Price.StringFixed(2),
		PriceDisplay: catalogdomain.FormatPrice(item.Price),
		CreatedAt:    item.CreatedAt,
	}
}

func newItemResponses(items []catalogdomain.Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, newItemResponse(item))
	}
	return out
}

func (s *Server) ListItems(c *gin.Context) {
	items, err := s.catalogSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newItemResponses(items)})
}

func (s *Server) CreateItem(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.Price == nil {
		AbortWithError(c, newValidationError("price", "invalid_price", "price is required"))
		return
	}

	item, err := s.catalogSvc.AddItem(c.Request.Context(), catalogdomain.AddItemRequest{
		Title: strings.TrimSpace(req.Title),
		Price: *req.Price,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.recordAudit(c, auditdomain.Entry{
		Action:     auditdomain.ActionItemCreated,
		TargetType: "catalog_item",
		TargetID:   item.Title,
		Metadata:   map[string]any{"price": item.Price.StringFixed(2)},
	})
	c.JSON(http.StatusCreated, gin.H{"data": newItemResponse(item)})
}

func (s *Server) DeleteItem(c *gin.Context) {
	title := c.Param("title")
	if err := s.catalogSvc.RemoveItem(c.Request.Context(), title); err != nil {
		AbortWithError(c, err)
		return
	}
	s.recordAudit(c, auditdomain.Entry{
		Action:     auditdomain.ActionItemRemoved,
		TargetType: "catalog_item",
		TargetID:   strings.TrimSpace(title),
	})
	c.Status(http.StatusNoContent)
}
