// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package round

import (
	"context"
)

// # Round Data Access

// Repository defines the data access contract for the rounds embedded in a
// user document.
type Repository interface {

	/*
		ListByUser returns a user's rounds in stored order.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - []Round: Stored rounds (empty slice when none)
		  - error: apperr.NotFound or retrieval failures
	*/
	ListByUser(context context.Context, userID string) ([]Round, error)

	/*
		Append adds a round to the user's history and assigns its ID.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - round: *Round

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Append(context context.Context, userID string, round *Round) error

	/*
		Replace overwrites the stored fields of one round.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - round: *Round (ID selects the target)

		Returns:
		  - error: apperr.NotFound (user or round) or persistence failures
	*/
	Replace(context context.Context, userID string, round *Round) error

	/*
		Remove deletes one round from the user's history.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - roundID: string

		Returns:
		  - error: apperr.NotFound (user or round) or persistence failures
	*/
	Remove(context context.Context, userID, roundID string) error
}
