// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package round

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fairwaylabs/fairway/internal/platform/apperr"
)

// usersCollection matches the auth domain's collection: rounds live inside
// the user document, not in their own collection.
const usersCollection = "users"

// MongoRepository implements Repository against the embedded rounds array.
type MongoRepository struct {
	collection *mongo.Collection
}

// NewRepository creates a Mongo-backed round Repository.
func NewRepository(database *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: database.Collection(usersCollection)}
}

/*
ListByUser returns a user's rounds in stored order.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []Round: Stored rounds
  - error: apperr.NotFound or retrieval failures
*/
func (repository *MongoRepository) ListByUser(context context.Context, userID string) ([]Round, error) {
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperr.NotFound("User")
	}

	var document struct {
		Rounds []Round `bson:"rounds"`
	}

	err = repository.collection.FindOne(context, bson.M{"_id": ownerID}).Decode(&document)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("mongo_round_list_failed: %w", err)
	}

	if document.Rounds == nil {
		document.Rounds = []Round{}
	}
	return document.Rounds, nil
}

/*
Append adds a round to the user's history.

Parameters:
  - context: context.Context
  - userID: string
  - round: *Round

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (repository *MongoRepository) Append(context context.Context, userID string, round *Round) error {
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperr.NotFound("User")
	}

	round.ID = primitive.NewObjectID()

	result, err := repository.collection.UpdateOne(context,
		bson.M{"_id": ownerID},
		bson.M{
			"$push": bson.M{"rounds": round},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("mongo_round_append_failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
Replace overwrites the stored fields of one round using a positional update.

Parameters:
  - context: context.Context
  - userID: string
  - round: *Round

Returns:
  - error: apperr.NotFound (user or round) or persistence failures
*/
func (repository *MongoRepository) Replace(context context.Context, userID string, round *Round) error {
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperr.NotFound("User")
	}
	if round.ID.IsZero() {
		return apperr.NotFound("Round")
	}

	result, err := repository.collection.UpdateOne(context,
		bson.M{"_id": ownerID, "rounds._id": round.ID},
		bson.M{
			"$set": bson.M{
				"rounds.$": round,
				"updatedAt": time.Now().UTC(),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("mongo_round_replace_failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("Round")
	}

	return nil
}

/*
Remove deletes one round from the user's history.

Parameters:
  - context: context.Context
  - userID: string
  - roundID: string

Returns:
  - error: apperr.NotFound (user or round) or persistence failures
*/
func (repository *MongoRepository) Remove(context context.Context, userID, roundID string) error {
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperr.NotFound("User")
	}
	targetID, err := primitive.ObjectIDFromHex(roundID)
	if err != nil {
		return apperr.NotFound("Round")
	}

	result, err := repository.collection.UpdateOne(context,
		bson.M{"_id": ownerID},
		bson.M{
			"$pull": bson.M{"rounds": bson.M{"_id": targetID}},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("mongo_round_remove_failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("User")
	}
	if result.ModifiedCount == 0 {
		return apperr.NotFound("Round")
	}

	return nil
}
