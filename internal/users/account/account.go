// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

/*
Package account handles user profile management and account administration.

It provides functionalities for users to view and update their display and
golf profile data, for administrators to browse the member directory, and for
accounts to be removed together with their active session.

# Architecture

  - Entities: this package depends on the auth package for the User entity
    and its sanitized public view.
  - Security: every endpoint sits behind the request gate; the member
    directory is reachable by admins only.
*/
package account

import (
	"context"

	"github.com/fairwaylabs/fairway/internal/users/auth"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for account management.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their document ID.

		Parameters:
		  - context: context.Context
		  - id: string (24-char hex document ID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		List returns a page of user accounts ordered by creation time,
		newest first, together with the total account count.

		Parameters:
		  - context: context.Context
		  - limit: int (page size)
		  - offset: int (documents to skip)

		Returns:
		  - []auth.User: The requested page
		  - int64: Total number of accounts
		  - error: Storage failures
	*/
	List(context context.Context, limit, offset int) ([]auth.User, int64, error)

	/*
		UpdateProfile persists the mutable profile blocks of an existing
		user. Credential state is never touched by this call.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes applied)

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	UpdateProfile(context context.Context, user *auth.User) error

	/*
		Delete permanently removes a user document, rounds included.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	Delete(context context.Context, id string) error
}
