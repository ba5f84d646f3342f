// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

/*
Package auth implements the user identity and credential lifecycle.

It defines the core domain entities (User and its credential state) and the
logic for registration, email verification, login, password reset, the
time-boxed MFA protocol, session issuance, and the per-request gate.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no
transport dependencies and encapsulate all business rules related to user
identity.
*/
package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fairwaylabs/fairway/internal/platform/sec"
	"github.com/fairwaylabs/fairway/internal/users/round"
)

// # Domain Entities

// OauthProvider identifies the third party that owns a user's credentials.
type OauthProvider string

const (
	// ProviderNone means the account authenticates with a local password.
	ProviderNone OauthProvider = "none"
	// ProviderGithub means the account authenticates via GitHub OAuth and
	// holds no password hash.
	ProviderGithub OauthProvider = "github"
)

// AccountInfo is the credential root of a user document.
//
// Invariant: PasswordHash is non-empty iff OauthProvider == ProviderNone.
// The MFA fields form a small state machine — MfaAttempts is only meaningful
// while MfaStartTime is set, and MfaVerified implies MfaSecret is present.
type AccountInfo struct {
	Email             string     `bson:"email" json:"email"`
	PasswordHash      string     `bson:"password,omitempty" json:"-"`
	EmailVerified     bool       `bson:"emailVerified" json:"emailVerified"`
	VerificationDueBy *time.Time `bson:"verificationDueBy,omitempty" json:"-"`

	// Two-stage password reset. The first token embeds the emailed 6-digit
	// code; the second proves the code stage passed and is the only thing
	// the completion step trusts.
	PassResetToken         string `bson:"passResetToken,omitempty" json:"-"`
	PassResetVerifiedToken string `bson:"passResetVerifiedToken,omitempty" json:"-"`

	// MfaSecret is encrypted at rest; never stored or returned in plaintext.
	MfaSecret    string     `bson:"mfaSecret,omitempty" json:"-"`
	MfaVerified  bool       `bson:"mfaVerified" json:"-"`
	MfaAttempts  int        `bson:"mfaAttempts" json:"-"`
	MfaStartTime *time.Time `bson:"mfaStartTime,omitempty" json:"-"`

	OauthProvider OauthProvider `bson:"oauthProvider" json:"-"`
}

// DefaultProfilePic is assigned to new accounts until the user uploads one.
const DefaultProfilePic = "images/DefaultProfilePic.jpg"

// IdentityInfo holds display-facing profile fields.
type IdentityInfo struct {
	DisplayName string `bson:"displayName" json:"displayName"`
	ProfilePic  string `bson:"profilePic" json:"profilePic"`
}

// PersonalBest records a user's best round to date.
type PersonalBest struct {
	Strokes int    `bson:"strokes" json:"strokes"`
	Seconds int    `bson:"seconds" json:"seconds"`
	Course  string `bson:"course" json:"course"`
}

// GolfInfo holds golf-specific profile fields.
type GolfInfo struct {
	Bio          string       `bson:"bio" json:"bio"`
	HomeCourse   string       `bson:"homeCourse" json:"homeCourse"`
	FirstRound   *time.Time   `bson:"firstRound,omitempty" json:"firstRound,omitempty"`
	PersonalBest PersonalBest `bson:"personalBest" json:"personalBest"`
}

// User represents a registered member, stored as a single document with the
// round history embedded.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AccountInfo  AccountInfo        `bson:"accountInfo" json:"accountInfo"`
	IdentityInfo IdentityInfo       `bson:"identityInfo" json:"identityInfo"`
	GolfInfo     GolfInfo           `bson:"golfInfo" json:"golfInfo"`
	Role         sec.Role           `bson:"role" json:"role"`
	Rounds       []round.Round      `bson:"rounds" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasPassword reports whether the account authenticates with a local password.
func (u *User) HasPassword() bool {
	return u.AccountInfo.OauthProvider == ProviderNone && u.AccountInfo.PasswordHash != ""
}

// # Sanitized Views

// PublicAccountInfo is the only slice of credential state that leaves the
// service boundary.
type PublicAccountInfo struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	MfaVerified   bool   `json:"mfaVerified"`
}

// PublicUser is a User with every secret and internal credential field
// stripped, and round display fields computed.
type PublicUser struct {
	ID           string            `json:"id"`
	AccountInfo  PublicAccountInfo `json:"accountInfo"`
	IdentityInfo IdentityInfo      `json:"identityInfo"`
	GolfInfo     GolfInfo          `json:"golfInfo"`
	Role         sec.Role          `json:"role"`
	Rounds       []round.View      `json:"rounds"`
}

// Sanitize converts a stored User into its public representation.
//
// Password hash, reset tokens, and MFA internals never leave this function.
func Sanitize(user *User) *PublicUser {
	return &PublicUser{
		ID: user.ID.Hex(),
		AccountInfo: PublicAccountInfo{
			Email:         user.AccountInfo.Email,
			EmailVerified: user.AccountInfo.EmailVerified,
			MfaVerified:   user.AccountInfo.MfaVerified,
		},
		IdentityInfo: user.IdentityInfo,
		GolfInfo:     user.GolfInfo,
		Role:         user.Role,
		Rounds:       round.Views(user.Rounds),
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the auth domain.
const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldNewPassword = "newPassword"
	FieldCode        = "code"
	FieldToken       = "token"
	FieldUserID      = "userId"
	FieldMessage     = "message"
)
