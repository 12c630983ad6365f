// Package convlogs reads the prompt/response history recorded by the
// conversational assistant. The console only ever reads these documents.
package convlogs

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/visualmate/visualmate/backend/admin-service/internal/database"
	"github.com/visualmate/visualmate/backend/admin-service/internal/models"
)

// Repository lists conversation logs for one user, newest first.
type Repository interface {
	ListByUser(ctx context.Context, uid string) ([]*models.ConversationLog, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{col: db.Collection(database.ConversationLogsCollection)}
}

func (r *MongoRepository) ListByUser(ctx context.Context, uid string) ([]*models.ConversationLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"uid": uid}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.ConversationLog{}
	for cur.Next(ctx) {
		var l models.ConversationLog
		if err := cur.Decode(&l); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, cur.Err()
}

// MemoryRepository backs tests.
type MemoryRepository struct {
	mu   sync.RWMutex
	logs []*models.ConversationLog
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Add(l *models.ConversationLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *l
	r.logs = append(r.logs, &cp)
}

func (r *MemoryRepository) ListByUser(ctx context.Context, uid string) ([]*models.ConversationLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.ConversationLog{}
	for _, l := range r.logs {
		if l.UID == uid {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}
