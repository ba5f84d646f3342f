// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

/*
Package round implements golf round tracking for user accounts.

Rounds are an owned subcollection of the user document: they are created,
listed, updated, and deleted only through their owning user, and their
lifecycle ends with the account.

# Architecture

The entity here is pure storage shape. Display values derived from the
stored counts (speedgolf score, elapsed time) are computed at the service
boundary immediately before a round is returned, and are never persisted.
*/
package round

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// # Domain Entities

// Type classifies how a round was played.
type Type string

const (
	TypePractice   Type = "practice"
	TypeTournament Type = "tournament"
)

// Round represents a single played round, embedded in the user document.
type Round struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date    time.Time          `bson:"date" json:"date"`
	Course  string             `bson:"course" json:"course"`
	Type    Type               `bson:"type" json:"type"`
	Holes   int                `bson:"holes" json:"holes"`
	Strokes int                `bson:"strokes" json:"strokes"`
	Seconds int                `bson:"seconds" json:"seconds"`
	Notes   string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// View is a Round enriched with its derived display fields.
//
// SGS is the speedgolf score: strokes plus playing time, expressed as
// "min:sec". Time/Min/Sec break the stored playing seconds into display
// units. None of these are stored.
type View struct {
	Round
	SGS  string `json:"SGS"`
	Time string `json:"time"`
	Min  int    `json:"min"`
	Sec  int    `json:"sec"`
}

// NewView computes the derived display fields for a round.
func NewView(r Round) View {
	sgsTotal := r.Strokes*60 + r.Seconds
	return View{
		Round: r,
		SGS:   fmt.Sprintf("%d:%02d", sgsTotal/60, sgsTotal%60),
		Time:  fmt.Sprintf("%d:%02d", r.Seconds/60, r.Seconds%60),
		Min:   r.Seconds / 60,
		Sec:   r.Seconds % 60,
	}
}

// Views computes display fields for a slice of rounds, preserving order.
func Views(rounds []Round) []View {
	views := make([]View, 0, len(rounds))
	for _, r := range rounds {
		views = append(views, NewView(r))
	}
	return views
}

// # Field Identifiers

// Field names for validation in the round domain.
const (
	FieldDate    = "date"
	FieldCourse  = "course"
	FieldType    = "type"
	FieldHoles   = "holes"
	FieldStrokes = "strokes"
	FieldSeconds = "seconds"
	FieldNotes   = "notes"
	FieldRoundID = "roundId"
)

// # Constraints

const (
	// MinStrokes and MaxStrokes bound the stored stroke count.
	MinStrokes = 1
	MaxStrokes = 300

	// MaxSeconds caps the stored playing time at six hours.
	MaxSeconds = 21600

	// MaxNotesLen caps the free-text notes field.
	MaxNotesLen = 500
)
