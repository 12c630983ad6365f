// Package actionlog records administrative actions in an append-only audit
// collection. Failures to record are logged and never fail the action that
// triggered them.
package actionlog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/visualmate/visualmate/backend/admin-service/internal/database"
	"github.com/visualmate/visualmate/backend/admin-service/internal/models"
	"github.com/visualmate/visualmate/backend/admin-service/pkg/logger"
)

// Recorder appends audit records.
type Recorder interface {
	Record(ctx context.Context, adminID, adminName, action, targetUser string)
}

// MongoRecorder appends to the admin_logs collection.
type MongoRecorder struct {
	col *mongo.Collection
}

func NewMongoRecorder(db *mongo.Database) *MongoRecorder {
	return &MongoRecorder{col: db.Collection(database.AdminLogsCollection)}
}

func (r *MongoRecorder) Record(ctx context.Context, adminID, adminName, action, targetUser string) {
	entry := models.AdminAction{
		ID:         uuid.NewString(),
		AdminID:    adminID,
		AdminName:  adminName,
		Action:     action,
		TargetUser: targetUser,
		Timestamp:  time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, entry); err != nil {
		logger.Error().Err(err).Str("action", action).Msg("failed to record admin action")
	}
}

// MemoryRecorder collects entries for tests.
type MemoryRecorder struct {
	mu      sync.Mutex
	Entries []models.AdminAction
}

func NewMemoryRecorder() *MemoryRecorder { return &MemoryRecorder{} }

func (r *MemoryRecorder) Record(ctx context.Context, adminID, adminName, action, targetUser string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, models.AdminAction{
		ID:         uuid.NewString(),
		AdminID:    adminID,
		AdminName:  adminName,
		Action:     action,
		TargetUser: targetUser,
		Timestamp:  time.Now().UTC(),
	})
}
