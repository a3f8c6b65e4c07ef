package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	respond "github.com/Tooltu-deve/Travel-App-sub003/internal/api/respond"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/api/validate"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/model"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/services"
)

// RouteHandler is the thin HTTP transport over generation and itinerary
// services. Owner identity always comes from the request context.
type RouteHandler struct {
	gen *services.GenerationService
	its *services.ItineraryService
}

func NewRouteHandler(gen *services.GenerationService, its *services.ItineraryService) *RouteHandler {
	return &RouteHandler{gen: gen, its: its}
}

// Generate POST /api/routes/generate
func (h *RouteHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var constraints model.GenerationConstraints
	if err := json.NewDecoder(r.Body).Decode(&constraints); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	it, err := h.gen.Generate(r.Context(), ownerFrom(r), constraints)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, it)
}

// List GET /api/routes?status=
func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *model.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := model.ParseStatus(raw)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		status = &parsed
	}
	routes, err := h.its.List(r.Context(), ownerFrom(r), status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"routes": routes, "total": len(routes)})
}

// Get GET /api/routes/{routeId}
func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	it, err := h.its.Get(r.Context(), ownerFrom(r), mux.Vars(r)["routeId"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, it)
}

// UpdateStatus PATCH /api/routes/{routeId}/status
func (h *RouteHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string  `json:"status"`
		Title  *string `json:"title,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	to, err := model.ParseStatus(req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if req.Title != nil {
		if err := validate.Title(*req.Title); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}
	it, err := h.its.UpdateStatus(r.Context(), ownerFrom(r), mux.Vars(r)["routeId"], to, req.Title)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, it)
}

// Delete DELETE /api/routes/{routeId}
// Only drafts are deletable. A wrong-status record reads as 404 so the
// response does not disclose lifecycle state.
func (h *RouteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.its.Delete(r.Context(), ownerFrom(r), mux.Vars(r)["routeId"]); err != nil {
		if errors.Is(err, model.ErrInvalidTransition) {
			respond.WriteNotFound(w, "itinerary not found")
			return
		}
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// MainCalendar GET /api/routes/main/calendar?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *RouteHandler) MainCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to, err := validate.DateRange(q.Get("from"), q.Get("to"))
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	grid, err := h.its.MainCalendar(r.Context(), ownerFrom(r), from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, grid)
}
