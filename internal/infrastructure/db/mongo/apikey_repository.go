package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/verityai/kyc-platform/internal/core/domain"
)

const apiKeysCollection = "api_keys"

type APIKeyRepository struct {
	coll *mongo.Collection
}

func NewAPIKeyRepository(db *mongo.Database) *APIKeyRepository {
	return &APIKeyRepository{coll: db.Collection(apiKeysCollection)}
}

func (r *APIKeyRepository) Create(ctx context.Context, key *domain.APIKey) error {
	if _, err := r.coll.InsertOne(ctx, key); err != nil {
		return fmt.Errorf("insert api key: %w", err)
	}
	return nil
}

func (r *APIKeyRepository) ListByOrg(ctx context.Context, orgID string) ([]*domain.APIKey, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"org_id": orgID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer cur.Close(ctx)

	var keys []*domain.APIKey
	for cur.Next(ctx) {
		var k domain.APIKey
		if err := cur.Decode(&k); err != nil {
			return nil, fmt.Errorf("decode api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, cur.Err()
}

// Deactivate flips is_active off. Revoked keys are kept for the audit trail.
func (r *APIKeyRepository) Deactivate(ctx context.Context, orgID, keyID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": keyID, "org_id": orgID, "is_active": true},
		bson.M{"$set": bson.M{"is_active": false}},
	)
	if err != nil {
		return fmt.Errorf("deactivate api key: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAPIKeyNotFound
	}
	return nil
}

func (r *APIKeyRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "org_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
