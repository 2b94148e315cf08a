package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/smallbiznis/pointsale/internal/catalog/domain"
)

type addCartItemRequest struct {
	Title string `json:"title"`
}

type cartResponse struct {
	Items        []itemResponse `json:"items"`
	Total        string         `json:"total"`
	TotalDisplay string         `json:"total_display"`
}

func (s *Server) cartView(username string) cartResponse {
	total := s.carts.Total(username)
	return cartResponse{
		Items:        newItemResponses(s.carts.Items(username)),
		Total:        total.StringFixed(2),
		TotalDisplay: catalogdomain.FormatPrice(total),
	}
}

func (s *Server) GetCart(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": s.cartView(identity.Username)})
}

func (s *Server) AddCartItem(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.catalogSvc.Get(c.Request.Context(), req.Title)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.carts.Add(identity.Username, item)
	c.JSON(http.StatusOK, gin.H{"data": s.cartView(identity.Username)})
}

func (s *Server) RemoveCartItem(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.carts.Remove(identity.Username, c.Param("title")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": s.cartView(identity.Username)})
}
