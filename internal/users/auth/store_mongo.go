// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fairwaylabs/fairway/internal/platform/apperr"
)

// UsersCollection is the canonical collection name for user documents.
const UsersCollection = "users"

// MongoUserRepository implements UserRepository on a MongoDB collection.
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a Mongo-backed UserRepository.
func NewUserRepository(database *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: database.Collection(UsersCollection)}
}

// EnsureIndexes creates the unique email index the registration flow
// depends on. Called once at startup.
func (repository *MongoUserRepository) EnsureIndexes(context context.Context) error {
	_, err := repository.collection.Indexes().CreateOne(context, mongo.IndexModel{
		Keys:    bson.D{{Key: "accountInfo.email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo_user_index_failed: %w", err)
	}
	return nil
}

/*
FindByID returns the account with the given ID.

Description: Returns apperr.NotFound both for a malformed ID and for an
absent document, so callers cannot distinguish the two.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *User: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (repository *MongoUserRepository) FindByID(context context.Context, id string) (*User, error) {

	// Reject malformed IDs without a round trip
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("User")
	}

	var user User
	err = repository.collection.FindOne(context, bson.M{"_id": objectID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("mongo_user_find_by_id_failed: %w", err)
	}

	return &user, nil
}

/*
FindByEmail returns the account with the given email.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (repository *MongoUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	var user User
	err := repository.collection.FindOne(context, bson.M{"accountInfo.email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("mongo_user_find_by_email_failed: %w", err)
	}

	return &user, nil
}

/*
Create persists a brand-new user account.

Description: A duplicate-key violation on the unique email index is mapped to
apperr.DuplicateEmail so concurrent registrations of the same address resolve
deterministically: one 201, one DuplicateEmail.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: apperr.DuplicateEmail or persistence failures
*/
func (repository *MongoUserRepository) Create(context context.Context, user *User) error {
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := repository.collection.InsertOne(context, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.DuplicateEmail()
		}
		return fmt.Errorf("mongo_user_create_failed: %w", err)
	}

	return nil
}

// MarkEmailVerified flips emailVerified and clears the verification window.
func (repository *MongoUserRepository) MarkEmailVerified(context context.Context, userID string) error {
	return repository.updateAccount(context, userID, bson.M{
		"$set":   bson.M{"accountInfo.emailVerified": true, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"accountInfo.verificationDueBy": ""},
	})
}

// RenewVerificationWindow resets the verification due-by timestamp.
func (repository *MongoUserRepository) RenewVerificationWindow(context context.Context, userID string, dueBy time.Time) error {
	return repository.updateAccount(context, userID, bson.M{
		"$set": bson.M{"accountInfo.verificationDueBy": dueBy, "updatedAt": time.Now().UTC()},
	})
}

// SetResetToken stores the first-stage reset token, overwriting any prior one.
func (repository *MongoUserRepository) SetResetToken(context context.Context, userID, token string) error {
	return repository.updateAccount(context, userID, bson.M{
		"$set": bson.M{"accountInfo.passResetToken": token, "updatedAt": time.Now().UTC()},
	})
}

// SetResetVerifiedToken stores the second-stage reset token.
func (repository *MongoUserRepository) SetResetVerifiedToken(context context.Context, userID, token string) error {
	return repository.updateAccount(context, userID, bson.M{
		"$set": bson.M{"accountInfo.passResetVerifiedToken": token, "updatedAt": time.Now().UTC()},
	})
}

// CompletePasswordReset swaps the password hash and clears both reset tokens
// in one update.
func (repository *MongoUserRepository) CompletePasswordReset(context context.Context, userID, newHash string) error {
	return repository.updateAccount(context, userID, bson.M{
		"$set": bson.M{"accountInfo.password": newHash, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{
			"accountInfo.passResetToken":         "",
			"accountInfo.passResetVerifiedToken": "",
		},
	})
}

// EnrollMfaSecret stores the encrypted secret with verification pending.
func (repository *MongoUserRepository) EnrollMfaSecret(context context.Context, userID, encryptedSecret string) error {
	return repository.updateAccount(context, userID, bson.M{
		"$set": bson.M{
			"accountInfo.mfaSecret":   encryptedSecret,
			"accountInfo.mfaVerified": false,
			"updatedAt":               time.Now().UTC(),
		},
	})
}

// OpenMfaWindow stamps the window start and zeroes the attempt counter.
func (repository *MongoUserRepository) OpenMfaWindow(context context.Context, userID string, startedAt time.Time) error {
	return repository.updateAccount(context, userID, bson.M{
		"$set": bson.M{
			"accountInfo.mfaStartTime": startedAt,
			"accountInfo.mfaAttempts":  0,
			"updatedAt":                time.Now().UTC(),
		},
	})
}

/*
ConsumeMfaAttempt atomically increments the attempt counter while it is
below MaxMfaAttempts.

Description: The filter carries the counter bound, so two concurrent calls
can never push the counter past the budget — the loser of the race gets
ErrMfaAttemptsExhausted instead of a stale increment.

Returns:
  - int: Counter value after the increment
  - error: ErrMfaAttemptsExhausted, apperr.NotFound, or storage failures
*/
func (repository *MongoUserRepository) ConsumeMfaAttempt(context context.Context, userID string) (int, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, apperr.NotFound("User")
	}

	filter := bson.M{
		"_id":                     objectID,
		"accountInfo.mfaAttempts": bson.M{"$lt": MaxMfaAttempts},
	}
	update := bson.M{
		"$inc": bson.M{"accountInfo.mfaAttempts": 1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	var updated User
	err = repository.collection.FindOneAndUpdate(
		context, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Either the user is gone or the budget is spent. Distinguish
			// with a plain lookup so callers get the right failure.
			if _, findErr := repository.FindByID(context, userID); findErr != nil {
				return 0, findErr
			}
			return MaxMfaAttempts, ErrMfaAttemptsExhausted
		}
		return 0, fmt.Errorf("mongo_user_consume_mfa_attempt_failed: %w", err)
	}

	return updated.AccountInfo.MfaAttempts, nil
}

// CompleteMfaVerification marks possession of the secret as proven.
func (repository *MongoUserRepository) CompleteMfaVerification(context context.Context, userID string) error {
	return repository.updateAccount(context, userID, bson.M{
		"$set": bson.M{
			"accountInfo.mfaVerified": true,
			"accountInfo.mfaAttempts": 0,
			"updatedAt":               time.Now().UTC(),
		},
		"$unset": bson.M{"accountInfo.mfaStartTime": ""},
	})
}

// LinkOauthAccount converts an account to third-party authentication.
func (repository *MongoUserRepository) LinkOauthAccount(context context.Context, userID string, provider OauthProvider) error {
	return repository.updateAccount(context, userID, bson.M{
		"$set": bson.M{
			"accountInfo.oauthProvider": provider,
			"accountInfo.emailVerified": true,
			"updatedAt":                 time.Now().UTC(),
		},
		"$unset": bson.M{"accountInfo.password": ""},
	})
}

// updateAccount applies a single update to a user document, translating a
// zero-match result into apperr.NotFound.
func (repository *MongoUserRepository) updateAccount(context context.Context, userID string, update bson.M) error {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperr.NotFound("User")
	}

	result, err := repository.collection.UpdateOne(context, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("mongo_user_update_failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("User")
	}

	return nil
}
