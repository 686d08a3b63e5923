package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/verityai/kyc-platform/internal/core/domain"
	"github.com/verityai/kyc-platform/internal/core/ports"
)

const casesCollection = "cases"

// CaseRepository persists verification cases.
type CaseRepository struct {
	coll *mongo.Collection
}

func NewCaseRepository(db *mongo.Database) *CaseRepository {
	return &CaseRepository{coll: db.Collection(casesCollection)}
}

func (r *CaseRepository) Create(ctx context.Context, c *domain.Case) error {
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert case: %w", err)
	}
	return nil
}

func (r *CaseRepository) FindByID(ctx context.Context, id, orgID string) (*domain.Case, error) {
	filter := bson.M{"_id": id}
	if orgID != "" {
		filter["org_id"] = orgID
	}

	var c domain.Case
	if err := r.coll.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCaseNotFound
		}
		return nil, fmt.Errorf("find case: %w", err)
	}
	return &c, nil
}

func (r *CaseRepository) List(ctx context.Context, filter ports.ListCasesFilter) ([]*domain.Case, int64, error) {
	query := bson.M{"org_id": filter.OrgID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.AssignedTo != "" {
		query["assigned_to"] = filter.AssignedTo
	}
	if filter.Search != "" {
		pattern := regexp.QuoteMeta(filter.Search)
		query["$or"] = bson.A{
			bson.M{"applicant_name": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"applicant_email": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	createdAt := bson.M{}
	if !filter.DateFrom.IsZero() {
		createdAt["$gte"] = filter.DateFrom
	}
	if !filter.DateTo.IsZero() {
		createdAt["$lte"] = filter.DateTo
	}
	if len(createdAt) > 0 {
		query["created_at"] = createdAt
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count cases: %w", err)
	}

	skip := int64(filter.Page-1) * int64(filter.PageSize)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(filter.PageSize))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list cases: %w", err)
	}
	defer cur.Close(ctx)

	var cases []*domain.Case
	for cur.Next(ctx) {
		var c domain.Case
		if err := cur.Decode(&c); err != nil {
			return nil, 0, fmt.Errorf("decode case: %w", err)
		}
		cases = append(cases, &c)
	}
	return cases, total, cur.Err()
}

func (r *CaseRepository) UpdateStatus(ctx context.Context, id string, status domain.CaseStatus, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": at}},
	)
	if err != nil {
		return fmt.Errorf("update case status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCaseNotFound
	}
	return nil
}

func (r *CaseRepository) UpdateAssignee(ctx context.Context, id, orgID, assigneeID string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "org_id": orgID},
		bson.M{"$set": bson.M{"assigned_to": assigneeID, "updated_at": at}},
	)
	if err != nil {
		return fmt.Errorf("update case assignee: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCaseNotFound
	}
	return nil
}

func (r *CaseRepository) UpdateRiskScore(ctx context.Context, id string, score float64, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"risk_score": score, "updated_at": at}},
	)
	if err != nil {
		return fmt.Errorf("update risk score: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCaseNotFound
	}
	return nil
}

func (r *CaseRepository) IncrementDocuments(ctx context.Context, id string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"documents_count": 1},
			"$set": bson.M{"updated_at": at},
		},
	)
	if err != nil {
		return fmt.Errorf("increment documents: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCaseNotFound
	}
	return nil
}

const highRiskThreshold = 70

// Stats aggregates the dashboard counters in a single facet pipeline so the
// dashboard costs one round trip.
func (r *CaseRepository) Stats(ctx context.Context, orgID string, since time.Time) (*domain.DashboardStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"org_id": orgID}}},
		{{Key: "$facet", Value: bson.M{
			"total": bson.A{
				bson.M{"$count": "n"},
			},
			"today": bson.A{
				bson.M{"$match": bson.M{"created_at": bson.M{"$gte": since}}},
				bson.M{"$count": "n"},
			},
			"decided": bson.A{
				bson.M{"$match": bson.M{"status": bson.M{"$in": bson.A{
					string(domain.CaseApproved), string(domain.CaseRejected),
				}}}},
				bson.M{"$group": bson.M{
					"_id": nil,
					"total": bson.M{"$sum": 1},
					"approved": bson.M{"$sum": bson.M{"$cond": bson.A{
						bson.M{"$eq": bson.A{"$status", string(domain.CaseApproved)}}, 1, 0,
					}}},
					"avgHours": bson.M{"$avg": bson.M{"$divide": bson.A{
						bson.M{"$subtract": bson.A{"$updated_at", "$created_at"}},
						1000 * 60 * 60,
					}}},
				}},
			},
			"pending": bson.A{
				bson.M{"$match": bson.M{"status": bson.M{"$in": bson.A{
					string(domain.CaseDocumentsUploaded), string(domain.CaseUnderReview),
				}}}},
				bson.M{"$count": "n"},
			},
			"highRisk": bson.A{
				bson.M{"$match": bson.M{"risk_score": bson.M{"$gte": highRiskThreshold}}},
				bson.M{"$count": "n"},
			},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}
	defer cur.Close(ctx)

	var raw []struct {
		Total   []struct{ N int64 }                `bson:"total"`
		Today   []struct{ N int64 }                `bson:"today"`
		Decided []struct {
			Total    int64   `bson:"total"`
			Approved int64   `bson:"approved"`
			AvgHours float64 `bson:"avgHours"`
		} `bson:"decided"`
		Pending  []struct{ N int64 } `bson:"pending"`
		HighRisk []struct{ N int64 } `bson:"highRisk"`
	}
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}

	stats := &domain.DashboardStats{}
	if len(raw) == 0 {
		return stats, nil
	}

	f := raw[0]
	if len(f.Total) > 0 {
		stats.TotalCases = f.Total[0].N
	}
	if len(f.Today) > 0 {
		stats.CasesToday = f.Today[0].N
	}
	if len(f.Decided) > 0 && f.Decided[0].Total > 0 {
		stats.ApprovalRate = float64(f.Decided[0].Approved) / float64(f.Decided[0].Total) * 100
		stats.AvgProcessingTime = f.Decided[0].AvgHours
	}
	if len(f.Pending) > 0 {
		stats.PendingReviews = f.Pending[0].N
	}
	if len(f.HighRisk) > 0 {
		stats.HighRiskCases = f.HighRisk[0].N
	}
	return stats, nil
}

// EnsureIndexes creates the query indexes the list and stats paths depend on.
func (r *CaseRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "org_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "org_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "org_id", Value: 1}, {Key: "assigned_to", Value: 1}}},
	})
	return err
}
