// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package round

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/fairwaylabs/fairway/internal/platform/request"
	"github.com/fairwaylabs/fairway/internal/platform/respond"
	"github.com/fairwaylabs/fairway/internal/platform/validate"
)

// Middleware is a chi-compatible middleware function. The round routes take
// the request gate's checks as plain dependencies so this package stays free
// of the auth domain.
type Middleware = func(http.Handler) http.Handler

// Handler implements the round HTTP surface under /users/{userId}/rounds.
type Handler struct {
	roundService *Service
	gates        []Middleware
}

// NewHandler constructs the round [Handler]. The gate middlewares
// (authenticate, authorize, CSRF) are applied to every route in order.
func NewHandler(service *Service, gates ...Middleware) *Handler {
	return &Handler{roundService: service, gates: gates}
}

// Routes returns a [chi.Router] with the round endpoints mounted.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(handler.gates...)

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Put("/{roundId}", handler.update)
	router.Delete("/{roundId}", handler.remove)

	return router
}

// # Request Payloads

type roundRequest struct {
	Date    time.Time `json:"date"`
	Course  string    `json:"course"`
	Type    string    `json:"type"`
	Holes   int       `json:"holes"`
	Strokes int       `json:"strokes"`
	Seconds int       `json:"seconds"`
	Notes   string    `json:"notes"`
}

func (input roundRequest) toInput() Input {
	return Input{
		Date:    input.Date,
		Course:  input.Course,
		Type:    input.Type,
		Holes:   input.Holes,
		Strokes: input.Strokes,
		Seconds: input.Seconds,
		Notes:   input.Notes,
	}
}

/*
List returns the user's round history.

GET /users/{userId}/rounds

Response:
  - 200: []View: Rounds with display fields
  - 404: Unknown user
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "userId")

	views, err := handler.roundService.List(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, views)
}

/*
Create logs a new round.

POST /users/{userId}/rounds

Response:
  - 201: View: Created round
  - 400: Validation failure
  - 404: Unknown user
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "userId")

	var input roundRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	view, err := handler.roundService.Create(request.Context(), userID, input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, view)
}

/*
Update replaces the stored fields of a round.

PUT /users/{userId}/rounds/{roundId}

Response:
  - 200: View: Updated round
  - 400: Validation failure
  - 404: Unknown user or round
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "userId")
	roundID := requestutil.Param(request, "roundId")

	var input roundRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	view, err := handler.roundService.Update(request.Context(), userID, roundID, input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

/*
Remove deletes a round.

DELETE /users/{userId}/rounds/{roundId}

Response:
  - 200: Success message
  - 404: Unknown user or round
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "userId")
	roundID := requestutil.Param(request, "roundId")

	if err := handler.roundService.Delete(request.Context(), userID, roundID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		"message": "Round deleted",
	})
}
