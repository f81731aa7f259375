package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smilecare/clinic-admin-api/internal/core/domain"
)

const pageAccessCollection = "page_access"

// PageAccessRepository persists per-page tier overrides set through the
// superuser tooling. The hardcoded defaults stay in code; only overrides
// live here.
type PageAccessRepository struct {
	coll *mongo.Collection
}

func NewPageAccessRepository(db *mongo.Database) *PageAccessRepository {
	return &PageAccessRepository{coll: db.Collection(pageAccessCollection)}
}

type pageAccessDoc struct {
	PageID    string `bson:"page_id"`
	Tier      int    `bson:"tier"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (r *PageAccessRepository) Load(ctx context.Context) (map[string]domain.AccessTier, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("load page access: %w", err)
	}
	defer cursor.Close(ctx)

	out := make(map[string]domain.AccessTier)
	for cursor.Next(ctx) {
		var doc pageAccessDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode page access: %w", err)
		}
		out[doc.PageID] = domain.AccessTier(doc.Tier)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("load page access: %w", err)
	}
	return out, nil
}

func (r *PageAccessRepository) Save(ctx context.Context, pageID string, tier domain.AccessTier) error {
	update := bson.M{"$set": pageAccessDoc{
		PageID:    pageID,
		Tier:      int(tier),
		UpdatedAt: time.Now().Unix(),
	}}
	_, err := r.coll.UpdateOne(ctx, bson.M{"page_id": pageID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save page access: %w", err)
	}
	return nil
}
