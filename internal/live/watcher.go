package live

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/visualmate/visualmate/backend/admin-service/pkg/logger"
)

// Watcher tails MongoDB change streams so writes made outside this service,
// e.g. by the mobile app, still reach live subscribers. Requires a replica
// set; on standalone deployments the watch fails and only in-process writes
// trigger snapshots.
type Watcher struct {
	db  *mongo.Database
	hub *Hub
}

func NewWatcher(db *mongo.Database, hub *Hub) *Watcher {
	return &Watcher{db: db, hub: hub}
}

// Watch follows one collection's change stream until ctx is cancelled,
// reopening the stream with a delay after errors.
func (w *Watcher) Watch(ctx context.Context, collection string) {
	for {
		if err := w.watchOnce(ctx, collection); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn().Err(err).Str("collection", collection).Msg("change stream interrupted, retrying")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func (w *Watcher) watchOnce(ctx context.Context, collection string) error {
	stream, err := w.db.Collection(collection).Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return err
	}
	defer stream.Close(ctx)
	for stream.Next(ctx) {
		w.hub.Notify(collection)
	}
	return stream.Err()
}
