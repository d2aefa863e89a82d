package mongo

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sgea/academic-events/internal/core/domain"
)

const collectionAuditLogs = "audit_logs"

type auditDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      *string            `bson:"user_id"`
	Action      string             `bson:"action"`
	Timestamp   time.Time          `bson:"timestamp"`
	IP          *string            `bson:"ip"`
	Description string             `bson:"description"`
}

// AuditRepository stores the append-only audit trail. It exposes no update
// or delete operations.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAuditLogs)}
}

// Insert appends an entry and writes the generated ID back.
func (r *AuditRepository) Insert(ctx context.Context, e *domain.AuditLog) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := auditDocument{
		ID:          primitive.NewObjectID(),
		UserID:      e.UserID,
		Action:      string(e.Action),
		Timestamp:   e.Timestamp,
		IP:          e.IP,
		Description: e.Description,
	}
	if doc.Timestamp.IsZero() {
		doc.Timestamp = time.Now().UTC()
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return err
	}
	e.ID = doc.ID.Hex()
	return nil
}

// Query returns entries matching the filter, newest first, and the total
// number of matches.
func (r *AuditRepository) Query(ctx context.Context, f domain.AuditFilter) ([]domain.AuditLog, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := buildAuditQuery(f)

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	limit := int64(f.Limit)
	if limit <= 0 {
		limit = 20
	}
	page := int64(f.Page)
	if page < 1 {
		page = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var docs []auditDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	out := make([]domain.AuditLog, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.AuditLog{
			ID:          d.ID.Hex(),
			UserID:      d.UserID,
			Action:      domain.AuditAction(d.Action),
			Timestamp:   d.Timestamp,
			IP:          d.IP,
			Description: d.Description,
		})
	}
	return out, total, nil
}

// EnsureIndexes creates the indexes backing the supported filters.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "action", Value: 1}, {Key: "timestamp", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// buildAuditQuery translates the filter into a MongoDB query. Date selects the
// whole UTC calendar day; Text is a case-insensitive literal substring match
// on the description.
func buildAuditQuery(f domain.AuditFilter) bson.M {
	query := bson.M{}
	if f.Date != nil {
		from := domain.Day(*f.Date)
		query["timestamp"] = bson.M{"$gte": from, "$lt": from.AddDate(0, 0, 1)}
	}
	if f.UserID != "" {
		query["user_id"] = f.UserID
	}
	if f.Action != "" {
		query["action"] = string(f.Action)
	}
	if f.Text != "" {
		query["description"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Text), Options: "i"}
	}
	return query
}
