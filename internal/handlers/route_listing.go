package handlers

import (
	"net/http"
	"sort"
	"strings"

	"studyapp/internal/middleware"
	"studyapp/internal/observability"

	"github.com/gin-gonic/gin"
)

// RouteInfo represents information about a single route
type RouteInfo struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	HandlerName string `json:"handler_name"`
	// Documented is true when the API description lists the route.
	Documented    bool   `json:"documented"`
	RequestSchema string `json:"request_schema,omitempty"`
}

// RouteListingHandler lists the routes registered on an engine
type RouteListingHandler struct {
	serviceName string
	schemas     *middleware.SchemaLoader
	routes      []RouteInfo
}

// NewRouteListingHandler creates a new route listing handler. schemas may be
// nil, in which case no route is reported as documented.
func NewRouteListingHandler(serviceName string, schemas *middleware.SchemaLoader) *RouteListingHandler {
	return &RouteListingHandler{
		serviceName: serviceName,
		schemas:     schemas,
		routes:      []RouteInfo{},
	}
}

// CollectRoutes extracts all routes from a Gin engine
func (h *RouteListingHandler) CollectRoutes(engine *gin.Engine) {
	h.routes = []RouteInfo{}

	for _, route := range engine.Routes() {
		// Skip internal Gin routes
		if strings.HasPrefix(route.Path, "/debug/") {
			continue
		}
		info := RouteInfo{
			Method:      route.Method,
			Path:        route.Path,
			HandlerName: route.Handler,
		}
		if h.schemas != nil {
			if ep, ok := h.schemas.Endpoint(route.Method, route.Path); ok {
				info.Documented = true
				info.RequestSchema = ep.RequestSchema
			}
		}
		h.routes = append(h.routes, info)
	}

	sort.Slice(h.routes, func(i, j int) bool {
		if h.routes[i].Path != h.routes[j].Path {
			return h.routes[i].Path < h.routes[j].Path
		}
		return h.routes[i].Method < h.routes[j].Method
	})
}

// Routes returns the collected routes.
func (h *RouteListingHandler) Routes() []RouteInfo {
	return h.routes
}

// GetRouteListingJSON returns the route listing as JSON
func (h *RouteListingHandler) GetRouteListingJSON(c *gin.Context) {
	_, span := observability.TraceHandlerFunction(c.Request.Context(), "get_route_listing_json")
	defer observability.FinishSpan(span, nil)
	c.JSON(http.StatusOK, gin.H{
		"service": h.serviceName,
		"count":   len(h.routes),
		"routes":  h.routes,
	})
}
