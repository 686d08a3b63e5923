package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/verityai/kyc-platform/internal/core/domain"
)

const checksCollection = "verification_checks"

type CheckRepository struct {
	coll *mongo.Collection
}

func NewCheckRepository(db *mongo.Database) *CheckRepository {
	return &CheckRepository{coll: db.Collection(checksCollection)}
}

func (r *CheckRepository) InsertMany(ctx context.Context, checks []*domain.VerificationCheck) error {
	if len(checks) == 0 {
		return nil
	}
	docs := make([]any, len(checks))
	for i, chk := range checks {
		docs[i] = chk
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert checks: %w", err)
	}
	return nil
}

func (r *CheckRepository) ListByCase(ctx context.Context, caseID string) ([]*domain.VerificationCheck, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"case_id": caseID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	defer cur.Close(ctx)

	var checks []*domain.VerificationCheck
	for cur.Next(ctx) {
		var chk domain.VerificationCheck
		if err := cur.Decode(&chk); err != nil {
			return nil, fmt.Errorf("decode check: %w", err)
		}
		checks = append(checks, &chk)
	}
	return checks, cur.Err()
}

func (r *CheckRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "case_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	return err
}
