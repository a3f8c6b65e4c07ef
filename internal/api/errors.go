package api

import (
	"errors"
	"net/http"

	respond "github.com/Tooltu-deve/Travel-App-sub003/internal/api/respond"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/model"
)

// writeDomainError maps service errors onto HTTP statuses. ErrForbidden is
// deliberately presented as 404 so the API does not reveal whether an id
// exists under another owner; the service layer already logged the real
// cause.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrForbidden):
		respond.WriteNotFound(w, "itinerary not found")
	case errors.Is(err, model.ErrInvalidTransition):
		respond.WriteConflict(w, err.Error())
	case errors.Is(err, model.ErrNoCandidates):
		respond.WriteUnprocessable(w, err.Error())
	case errors.Is(err, model.ErrOptimizer):
		respond.WriteBadGateway(w, "route optimization unavailable")
	default:
		respond.WriteInternalError(w, "internal error")
	}
}
