// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fairwaylabs/fairway/internal/platform/ctxutil"
	"github.com/fairwaylabs/fairway/internal/users/auth"
	"github.com/fairwaylabs/fairway/pkg/pagination"
	"github.com/fairwaylabs/fairway/pkg/pointer"
)

// # Service Layer

// Service orchestrates business logic for profile management and account
// administration.
type Service struct {
	accounts AccountRepository
	sessions auth.SessionStore
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accounts AccountRepository, sessions auth.SessionStore) *Service {
	return &Service{
		accounts: accounts,
		sessions: sessions,
	}
}

// # Member Directory

/*
ListUsers returns a page of sanitized public profiles.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*auth.PublicUser: Sanitized page of members
  - pagination.Meta: Navigation metadata
  - error: Execution failures
*/
func (service *Service) ListUsers(context context.Context, params pagination.Params) ([]*auth.PublicUser, pagination.Meta, error) {

	users, total, err := service.accounts.List(context, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("account_service_list_failed: %w", err)
	}

	sanitized := make([]*auth.PublicUser, 0, len(users))
	for index := range users {
		sanitized = append(sanitized, auth.Sanitize(&users[index]))
	}

	return sanitized, pagination.NewMeta(params.Page, params.Limit, int(total)), nil
}

// # Profile Management

/*
GetProfile retrieves the sanitized profile of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.PublicUser: The sanitized profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.PublicUser, error) {
	user, err := service.accounts.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return auth.Sanitize(user), nil
}

// PersonalBestInput carries a replacement personal-best block.
type PersonalBestInput struct {
	Strokes int
	Seconds int
	Course  string
}

// UpdateProfileInput defines the mutable subset of profile fields. Nil
// pointers mean "leave unchanged".
type UpdateProfileInput struct {
	DisplayName  *string
	ProfilePic   *string
	Bio          *string
	HomeCourse   *string
	FirstRound   *time.Time
	PersonalBest *PersonalBestInput
}

/*
UpdateProfile applies a partial set of changes to a user's profile blocks.

Description: Fetches the existing user state, overlays the provided fields,
and synchronizes the change to persistent storage. Credential state cannot
be reached through this path.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.PublicUser: The updated sanitized profile
  - error: Update or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.PublicUser, error) {

	user, err := service.accounts.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	// Apply delta updates
	user.IdentityInfo.DisplayName = pointer.Fallback(input.DisplayName, user.IdentityInfo.DisplayName)
	user.IdentityInfo.ProfilePic = pointer.Fallback(input.ProfilePic, user.IdentityInfo.ProfilePic)
	user.GolfInfo.Bio = pointer.Fallback(input.Bio, user.GolfInfo.Bio)
	user.GolfInfo.HomeCourse = pointer.Fallback(input.HomeCourse, user.GolfInfo.HomeCourse)

	if input.FirstRound != nil {
		user.GolfInfo.FirstRound = input.FirstRound
	}

	if input.PersonalBest != nil {
		user.GolfInfo.PersonalBest = auth.PersonalBest{
			Strokes: input.PersonalBest.Strokes,
			Seconds: input.PersonalBest.Seconds,
			Course:  input.PersonalBest.Course,
		}
	}

	// Persist changes
	if err := service.accounts.UpdateProfile(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_profile_updated",
		slog.String("user_id", userID),
	)

	return auth.Sanitize(user), nil
}

// # Account Removal

/*
DeleteAccount permanently removes a user document and tears down any active
session so outstanding refresh tokens stop working immediately.

Description: The document removal is authoritative. A session teardown
failure after the document is gone is logged rather than surfaced, since the
session expires on its own and the account no longer exists.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: apperr.NotFound or storage failures
*/
func (service *Service) DeleteAccount(context context.Context, userID string) error {

	if err := service.accounts.Delete(context, userID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	if err := service.sessions.Delete(context, userID); err != nil {
		ctxutil.GetLogger(context).ErrorContext(context, "session_teardown_failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_account_deleted",
		slog.String("user_id", userID),
	)

	return nil
}
