package api

import (
	"github.com/gorilla/mux"

	"github.com/Tooltu-deve/Travel-App-sub003/internal/api/recovery"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/services"
)

// NewRouter wires the HTTP surface. Everything under /api/routes requires
// the gateway-issued caller identity; health does not.
func NewRouter(gen *services.GenerationService, its *services.ItineraryService) *mux.Router {
	router := mux.NewRouter()
	router.Use(recovery.Middleware)

	healthHandler := NewHealthHandler()
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	routeHandler := NewRouteHandler(gen, its)
	routes := router.PathPrefix("/api/routes").Subrouter()
	routes.Use(OwnerMiddleware)

	routes.HandleFunc("/generate", routeHandler.Generate).Methods("POST")
	// Registered before {routeId} so "main" is never captured as an id.
	routes.HandleFunc("/main/calendar", routeHandler.MainCalendar).Methods("GET")
	routes.HandleFunc("", routeHandler.List).Methods("GET")
	routes.HandleFunc("/{routeId}", routeHandler.Get).Methods("GET")
	routes.HandleFunc("/{routeId}/status", routeHandler.UpdateStatus).Methods("PATCH")
	routes.HandleFunc("/{routeId}", routeHandler.Delete).Methods("DELETE")

	return router
}
