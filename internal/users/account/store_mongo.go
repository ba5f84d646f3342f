// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package account

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
	"github.com/fairwaylabs/fairway/internal/users/auth"
)

// MongoAccountRepository implements AccountRepository on the shared users
// collection.
type MongoAccountRepository struct {
	collection *mongo.Collection
}

// NewAccountRepository creates a Mongo-backed AccountRepository.
func NewAccountRepository(database *mongo.Database) *MongoAccountRepository {
	return &MongoAccountRepository{collection: database.Collection(auth.UsersCollection)}
}

/*
FindByID retrieves a user record by their document ID.

Description: Returns apperr.NotFound both for a malformed ID and for an
absent document, so callers cannot distinguish the two.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *auth.User: Loaded account entity
  - error: apperr.NotFound or storage failures
*/
func (repository *MongoAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {

	// Reject malformed IDs without a round trip
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("User")
	}

	var user auth.User
	err = repository.collection.FindOne(context, bson.M{"_id": objectID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("mongo_account_find_by_id_failed: %w", err)
	}

	return &user, nil
}

/*
List returns a page of user accounts ordered by creation time, newest first,
together with the total account count.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []auth.User: The requested page
  - int64: Total number of accounts
  - error: Storage failures
*/
func (repository *MongoAccountRepository) List(context context.Context, limit, offset int) ([]auth.User, int64, error) {

	total, err := repository.collection.CountDocuments(context, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("mongo_account_count_failed: %w", err)
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := repository.collection.Find(context, bson.M{}, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("mongo_account_list_failed: %w", err)
	}
	defer cursor.Close(context)

	users := []auth.User{}
	if err := cursor.All(context, &users); err != nil {
		return nil, 0, fmt.Errorf("mongo_account_decode_failed: %w", err)
	}

	return users, total, nil
}

/*
UpdateProfile persists the mutable profile blocks of an existing user.

Description: Only identityInfo and golfInfo are written; the credential
subtree is left untouched no matter what the hydrated entity carries.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: apperr.NotFound or storage failures
*/
func (repository *MongoAccountRepository) UpdateProfile(context context.Context, user *auth.User) error {

	update := bson.M{"$set": bson.M{
		"identityInfo": user.IdentityInfo,
		"golfInfo":     user.GolfInfo,
		"updatedAt":    time.Now().UTC(),
	}}

	result, err := repository.collection.UpdateOne(context, bson.M{"_id": user.ID}, update)
	if err != nil {
		return fmt.Errorf("mongo_account_update_failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
Delete permanently removes a user document, rounds included.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or storage failures
*/
func (repository *MongoAccountRepository) Delete(context context.Context, id string) error {

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFound("User")
	}

	result, err := repository.collection.DeleteOne(context, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("mongo_account_delete_failed: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("User")
	}

	return nil
}
