package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jdrojas/cobranza_app/internal/apperrors"
	"github.com/jdrojas/cobranza_app/internal/core/domain"
	portssvc "github.com/jdrojas/cobranza_app/internal/core/ports/services"
)

// routeHandler answers the navigation queries collectors use while walking
// their route: who is at a position, who comes next, where does a card rank.
type routeHandler struct {
	clientService   portssvc.ClientSvcFacade
	positionService portssvc.PositionSvcFacade
}

// registerRouteRoutes registers the route-order navigation endpoints.
func registerRouteRoutes(rg *gin.RouterGroup, clientService portssvc.ClientSvcFacade, positionService portssvc.PositionSvcFacade) {
	h := &routeHandler{clientService: clientService, positionService: positionService}

	route := rg.Group("/route")
	{
		route.GET("/cards", h.listRoute)
		route.GET("/next-free-position", h.nextFreePosition)
		route.GET("/first", h.firstByCollector)
		route.GET("/positions/:position", h.clientAtPosition)
		route.GET("/positions/:position/next", h.navigateNext)
		route.GET("/positions/:position/previous", h.navigatePrevious)
		route.GET("/cards/:cardCode/rank", h.cardRank)
	}
}

func positionParam(c *gin.Context) (int, bool) {
	position, err := strconv.Atoi(c.Param("position"))
	if err != nil || position <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid position"})
		return 0, false
	}
	return position, true
}

func collectorScope(c *gin.Context) *string {
	if collector := c.Query("collector"); collector != "" {
		return &collector
	}
	return nil
}

// listRoute returns the full visiting list: every active card in position
// order.
func (h *routeHandler) listRoute(c *gin.Context) {
	cards, err := h.positionService.ListRoute(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

// nextFreePosition returns the position a card appended to the route would
// take.
func (h *routeHandler) nextFreePosition(c *gin.Context) {
	next, err := h.positionService.NextFreePosition(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nextFreePosition": next})
}

// firstByCollector returns the first client on a collector's route.
func (h *routeHandler) firstByCollector(c *gin.Context) {
	collector := c.Query("collector")
	if collector == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "collector query parameter is required"})
		return
	}
	overview, err := h.clientService.FirstByCollector(c.Request.Context(), collector)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// clientAtPosition resolves a route position to its client.
func (h *routeHandler) clientAtPosition(c *gin.Context) {
	position, ok := positionParam(c)
	if !ok {
		return
	}
	overview, err := h.clientService.GetClientByPosition(c.Request.Context(), position)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *routeHandler) navigate(c *gin.Context, direction domain.Direction) {
	position, ok := positionParam(c)
	if !ok {
		return
	}

	overview, err := h.clientService.Navigate(c.Request.Context(), position, direction, collectorScope(c))
	if err != nil {
		// Running off either end of the route is a normal outcome for a
		// collector flipping through clients, not an error.
		if errors.Is(err, apperrors.ErrNoMoreInDirection) {
			c.JSON(http.StatusOK, gin.H{"message": "No more clients in that direction"})
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// navigateNext returns the client at the next route position.
func (h *routeHandler) navigateNext(c *gin.Context) {
	h.navigate(c, domain.Next)
}

// navigatePrevious returns the client at the previous route position.
func (h *routeHandler) navigatePrevious(c *gin.Context) {
	h.navigate(c, domain.Previous)
}

// cardRank returns a card's 1-based rank within the whole route or one
// collector's slice of it, for "client X of Y" display.
func (h *routeHandler) cardRank(c *gin.Context) {
	rank, total, err := h.positionService.PositionWithinScope(c.Request.Context(), c.Param("cardCode"), collectorScope(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rank": rank, "total": total})
}
