package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/verityai/kyc-platform/internal/core/domain"
)

const orgsCollection = "organizations"

type OrgRepository struct {
	coll *mongo.Collection
}

func NewOrgRepository(db *mongo.Database) *OrgRepository {
	return &OrgRepository{coll: db.Collection(orgsCollection)}
}

type mongoOrg struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Slug      string    `bson:"slug"`
	Plan      string    `bson:"plan"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r *OrgRepository) Create(ctx context.Context, org *domain.Organization) error {
	doc := mongoOrg{
		ID:        org.ID,
		Name:      org.Name,
		Slug:      org.Slug,
		Plan:      org.Plan,
		CreatedAt: org.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

func (r *OrgRepository) FindByID(ctx context.Context, id string) (*domain.Organization, error) {
	var mo mongoOrg
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrgNotFound
		}
		return nil, fmt.Errorf("find organization: %w", err)
	}
	return &domain.Organization{
		ID:        mo.ID,
		Name:      mo.Name,
		Slug:      mo.Slug,
		Plan:      mo.Plan,
		CreatedAt: mo.CreatedAt,
	}, nil
}

func (r *OrgRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}
	return nil
}
