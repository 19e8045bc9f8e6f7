package http

import (
	"github.com/labstack/echo/v4"
)

// RegisterBOMRoutes registers the explosion and item routes
func RegisterBOMRoutes(e *echo.Echo, h *BOMHandler) {
	api := e.Group("/api/v1")
	{
		api.POST("/bom", h.ExplodeTree)         // POST /api/v1/bom
		api.GET("/items", h.ListItems)          // GET /api/v1/items
		api.GET("/items/:id/bom", h.GetItemBOM) // GET /api/v1/items/MNT-1000/bom?operations=true
	}
}

// RegisterEventRoutes registers the explosion event log routes
func RegisterEventRoutes(e *echo.Echo, h *EventHandler) {
	api := e.Group("/api/v1")
	{
		api.GET("/events", h.ListEvents)           // GET /api/v1/events?from=0
		api.GET("/items/:id/events", h.ItemEvents) // GET /api/v1/items/MNT-1000/events
	}
}
