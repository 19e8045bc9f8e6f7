package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vsinha/bomview/pkg/application/dto"
	"github.com/vsinha/bomview/pkg/application/services"
	"github.com/vsinha/bomview/pkg/domain/entities"
	"github.com/vsinha/bomview/pkg/domain/repositories"
	"github.com/vsinha/bomview/pkg/infrastructure/events"
	"github.com/vsinha/bomview/pkg/interfaces/cli/output"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExplodeRequest is the body of POST /api/v1/bom
type ExplodeRequest struct {
	Tree              *entities.MethodNode `json:"tree"`
	IncludeOperations bool                 `json:"includeOperations"`
	Quantities        []float64            `json:"quantities"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}

// BOMHandler handles explosion requests
type BOMHandler struct {
	service   *services.BOMService
	precision int32
}

// NewBOMHandler creates a new BOM handler
func NewBOMHandler(service *services.BOMService, precision int32) *BOMHandler {
	return &BOMHandler{
		service:   service,
		precision: precision,
	}
}

// ExplodeTree explodes a tree posted in the request body
// POST /api/v1/bom
func (h *BOMHandler) ExplodeTree(c echo.Context) error {
	var req ExplodeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	result, err := h.service.Explode(c.Request().Context(), req.Tree, services.ExplodeOptions{
		IncludeOperations: req.IncludeOperations,
		Quantities:        req.Quantities,
		Source:            events.SourceAPI,
	})
	if err != nil {
		return err
	}

	return h.render(c, result)
}

// GetItemBOM explodes the stored tree of an item
// GET /api/v1/items/:id/bom?operations=true&quantities=1,10,50&format=json
func (h *BOMHandler) GetItemBOM(c echo.Context) error {
	itemID := c.Param("id")

	includeOperations := false
	if raw := c.QueryParam("operations"); raw != "" {
		var err error
		includeOperations, err = strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid operations flag: %s", raw))
		}
	}

	quantities, err := ParseQuantities(c.QueryParam("quantities"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.ExplodeItem(c.Request().Context(), itemID, services.ExplodeOptions{
		IncludeOperations: includeOperations,
		Quantities:        quantities,
		Source:            events.SourceRepository,
	})
	if err != nil {
		return err
	}

	return h.render(c, result)
}

// ListItems lists the items with a stored tree
// GET /api/v1/items
func (h *BOMHandler) ListItems(c echo.Context) error {
	ids, err := h.service.ListItems(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": ids,
		"count": len(ids),
	})
}

// render writes result in the format named by the "format" query parameter
func (h *BOMHandler) render(c echo.Context, result *dto.BOMResult) error {
	name := result.Summary.RootItemID
	if name == "" {
		name = "bom"
	}

	var buf bytes.Buffer
	switch format := c.QueryParam("format"); format {
	case "", "json":
		return c.JSON(http.StatusOK, output.RoundResult(result, h.precision))
	case "text":
		if err := output.WriteText(&buf, result, h.precision); err != nil {
			return err
		}
		return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, buf.Bytes())
	case "csv":
		if err := output.WriteLinesCSV(&buf, result, h.precision); err != nil {
			return err
		}
		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case "xlsx":
		if err := output.WriteXLSX(&buf, result, h.precision); err != nil {
			return err
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name+".xlsx"))
		return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unsupported format: %s", format))
	}
}

// ParseQuantities parses a comma separated list such as "1,10,50". Range
// checks are left to the service.
func ParseQuantities(raw string) ([]float64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	quantities := make([]float64, 0, len(parts))
	for _, part := range parts {
		q, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity %q", part)
		}
		quantities = append(quantities, q)
	}
	return quantities, nil
}

// EventHandler serves the explosion event log
type EventHandler struct {
	store events.EventStore
}

// NewEventHandler creates a new event handler
func NewEventHandler(store events.EventStore) *EventHandler {
	return &EventHandler{store: store}
}

// ListEvents returns retained events from a position on
// GET /api/v1/events?from=0
func (h *EventHandler) ListEvents(c echo.Context) error {
	from := 0
	if raw := c.QueryParam("from"); raw != "" {
		var err error
		from, err = strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid from: %s", raw))
		}
	}

	evts, err := h.store.ReadAllEvents(from)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"events": evts,
	})
}

// ItemEvents returns the retained events of one root item
// GET /api/v1/items/:id/events
func (h *EventHandler) ItemEvents(c echo.Context) error {
	evts, err := h.store.ReadEvents(c.Param("id"), 0)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"events": evts,
	})
}

// errorHandler maps service errors to status codes
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, message := statusFor(err)
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, ErrorResponse{Error: message})
}

func statusFor(err error) (int, string) {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code, fmt.Sprint(httpErr.Message)
	case services.IsValidationError(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}
