// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package round

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fairwaylabs/fairway/internal/platform/apperr"
	"github.com/fairwaylabs/fairway/internal/platform/validate"
)

// Service implements round management use cases.
//
// Derived display fields are computed here, at the boundary, right before a
// round leaves the service. The storage layer never sees them.
type Service struct {
	rounds Repository
}

// NewService constructs the round service.
func NewService(rounds Repository) *Service {
	return &Service{rounds: rounds}
}

// Input holds the writable fields of a round.
type Input struct {
	Date    time.Time
	Course  string
	Type    string
	Holes   int
	Strokes int
	Seconds int
	Notes   string
}

// validateInput applies the round constraints shared by create and update.
func validateInput(input Input) error {
	v := &validate.Validator{}
	v.Custom(FieldDate, input.Date.IsZero(), "This field is required").
		Required(FieldCourse, input.Course).
		MaxLen(FieldCourse, input.Course, 100).
		OneOf(FieldType, input.Type, string(TypePractice), string(TypeTournament)).
		Custom(FieldHoles, input.Holes != 9 && input.Holes != 18, "Must be 9 or 18").
		Range(FieldStrokes, input.Strokes, MinStrokes, MaxStrokes).
		Range(FieldSeconds, input.Seconds, 0, MaxSeconds).
		MaxLen(FieldNotes, input.Notes, MaxNotesLen)
	return v.Err()
}

/*
List returns a user's rounds with display fields computed.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []View: Rounds in stored order
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) List(context context.Context, userID string) ([]View, error) {
	rounds, err := service.rounds.ListByUser(context, userID)
	if err != nil {
		return nil, err
	}
	return Views(rounds), nil
}

/*
Create validates and appends a new round.

Parameters:
  - context: context.Context
  - userID: string
  - input: Input

Returns:
  - *View: Created round with display fields
  - error: Validation, apperr.NotFound, or persistence failures
*/
func (service *Service) Create(context context.Context, userID string, input Input) (*View, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	entity := Round{
		Date:    input.Date,
		Course:  input.Course,
		Type:    Type(input.Type),
		Holes:   input.Holes,
		Strokes: input.Strokes,
		Seconds: input.Seconds,
		Notes:   input.Notes,
	}

	if err := service.rounds.Append(context, userID, &entity); err != nil {
		return nil, err
	}

	view := NewView(entity)
	return &view, nil
}

/*
Update validates and replaces the stored fields of an existing round.

Parameters:
  - context: context.Context
  - userID: string
  - roundID: string
  - input: Input

Returns:
  - *View: Updated round with display fields
  - error: Validation, apperr.NotFound, or persistence failures
*/
func (service *Service) Update(context context.Context, userID, roundID string, input Input) (*View, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	v := &validate.Validator{}
	v.ObjectID(FieldRoundID, roundID)
	if err := v.Err(); err != nil {
		return nil, err
	}

	objectID, err := objectIDFromHex(roundID)
	if err != nil {
		return nil, err
	}

	entity := Round{
		ID:      objectID,
		Date:    input.Date,
		Course:  input.Course,
		Type:    Type(input.Type),
		Holes:   input.Holes,
		Strokes: input.Strokes,
		Seconds: input.Seconds,
		Notes:   input.Notes,
	}

	if err := service.rounds.Replace(context, userID, &entity); err != nil {
		return nil, err
	}

	view := NewView(entity)
	return &view, nil
}

/*
Delete removes a round from the user's history.

Parameters:
  - context: context.Context
  - userID: string
  - roundID: string

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (service *Service) Delete(context context.Context, userID, roundID string) error {
	return service.rounds.Remove(context, userID, roundID)
}

// objectIDFromHex parses a document ID, reporting a malformed value the same
// way as an absent round.
func objectIDFromHex(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound("Round")
	}
	return objectID, nil
}
