// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package account

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/fairwaylabs/fairway/internal/platform/request"
	"github.com/fairwaylabs/fairway/internal/platform/respond"
	"github.com/fairwaylabs/fairway/internal/platform/validate"
	"github.com/fairwaylabs/fairway/internal/users/auth"
	"github.com/fairwaylabs/fairway/internal/users/round"
	"github.com/fairwaylabs/fairway/pkg/pagination"
	"github.com/fairwaylabs/fairway/pkg/pointer"
)

// Handler implements the account HTTP surface under /users.
type Handler struct {
	accountService *Service
	gate           *auth.Gate
}

// NewHandler constructs the account [Handler].
func NewHandler(service *Service, gate *auth.Gate) *Handler {
	return &Handler{accountService: service, gate: gate}
}

// Routes returns a [chi.Router] with the account endpoints mounted.
//
// Every route sits behind the full request gate. The directory listing has
// no userId path parameter, so the ownership check admits admins only.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(handler.gate.Authenticate, handler.gate.Authorize, handler.gate.CSRF)

	router.Get("/", handler.list)
	router.Get("/{userId}", handler.getProfile)
	router.Put("/{userId}", handler.updateProfile)
	router.Delete("/{userId}", handler.deleteAccount)

	return router
}

// # Member Directory

/*
List returns a page of sanitized member profiles.

GET /users?page=&limit=

Response:
  - 200: []PublicUser with pagination metadata
  - 401: Non-admin caller
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, meta, err := handler.accountService.ListUsers(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, meta)
}

// # Profile Endpoints

/*
GetProfile returns the sanitized profile of a user.

GET /users/{userId}

Response:
  - 200: PublicUser
  - 404: Unknown user
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, auth.FieldUserID)

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// personalBestRequest is the replacement personal-best block.
type personalBestRequest struct {
	Strokes int    `json:"strokes"`
	Seconds int    `json:"seconds"`
	Course  string `json:"course"`
}

// updateProfileRequest defines the expected JSON payload for profile
// updates. Absent fields are left unchanged.
type updateProfileRequest struct {
	DisplayName  *string              `json:"displayName"`
	ProfilePic   *string              `json:"profilePic"`
	Bio          *string              `json:"bio"`
	HomeCourse   *string              `json:"homeCourse"`
	FirstRound   *time.Time           `json:"firstRound"`
	PersonalBest *personalBestRequest `json:"personalBest"`
}

/*
UpdateProfile applies partial updates to a user's profile blocks.

PUT /users/{userId}

Request:
  - body: updateProfileRequest (Partial JSON)

Response:
  - 200: PublicUser: The updated profile
  - 400: Invalid input data
  - 404: Unknown user
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, auth.FieldUserID)

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.DisplayName != nil {
		v.Required("displayName", *input.DisplayName).MaxLen("displayName", *input.DisplayName, 50)
	}
	v.MaxLen("bio", pointer.Val(input.Bio), 500)
	v.MaxLen("homeCourse", pointer.Val(input.HomeCourse), 100)
	if input.PersonalBest != nil {
		v.Range("personalBest.strokes", input.PersonalBest.Strokes, round.MinStrokes, round.MaxStrokes)
		v.Range("personalBest.seconds", input.PersonalBest.Seconds, 0, round.MaxSeconds)
		v.Required("personalBest.course", input.PersonalBest.Course)
	}

	if v.HasErrors() {
		respond.Error(writer, request, v.Err())
		return
	}

	update := UpdateProfileInput{
		DisplayName: input.DisplayName,
		ProfilePic:  input.ProfilePic,
		Bio:         input.Bio,
		HomeCourse:  input.HomeCourse,
		FirstRound:  input.FirstRound,
	}
	if input.PersonalBest != nil {
		update.PersonalBest = &PersonalBestInput{
			Strokes: input.PersonalBest.Strokes,
			Seconds: input.PersonalBest.Seconds,
			Course:  input.PersonalBest.Course,
		}
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, update)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DeleteAccount permanently removes a user and their session.

DELETE /users/{userId}

Response:
  - 204: No Content
  - 404: Unknown user
*/
func (handler *Handler) deleteAccount(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, auth.FieldUserID)

	if err := handler.accountService.DeleteAccount(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
