// Package live pushes full collection snapshots to subscribers whenever the
// underlying data changes. Subscribers always see the latest complete
// snapshot; intermediate states may be skipped under load.
package live

import (
	"context"
	"errors"
	"sync"

	"github.com/visualmate/visualmate/backend/admin-service/pkg/logger"
	"github.com/visualmate/visualmate/backend/admin-service/pkg/metrics"
)

// ErrUnknownCollection is returned when subscribing to a collection no
// loader was registered for.
var ErrUnknownCollection = errors.New("unknown live collection")

// Loader produces a full snapshot of one collection.
type Loader func(ctx context.Context) (interface{}, error)

// Snapshot is one complete collection state delivered to a subscriber.
type Snapshot struct {
	Collection string      `json:"collection"`
	Data       interface{} `json:"data"`
}

// Subscriber receives snapshots on C. The channel holds at most one
// snapshot; a slow consumer gets the newest state, never a backlog.
type Subscriber struct {
	C          chan Snapshot
	collection string
}

type collectionState struct {
	loader  Loader
	refresh chan struct{}
	subs    map[*Subscriber]struct{}
}

// Hub fans collection changes out to subscribers. One worker goroutine per
// collection coalesces change bursts into single reloads.
type Hub struct {
	mu     sync.Mutex
	colls  map[string]*collectionState
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{colls: make(map[string]*collectionState), ctx: ctx, cancel: cancel}
}

// RegisterCollection wires a loader and starts the collection's worker.
func (h *Hub) RegisterCollection(name string, loader Loader) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.colls[name]; ok {
		return
	}
	st := &collectionState{
		loader:  loader,
		refresh: make(chan struct{}, 1),
		subs:    make(map[*Subscriber]struct{}),
	}
	h.colls[name] = st
	h.wg.Add(1)
	go h.run(name, st)
}

func (h *Hub) run(name string, st *collectionState) {
	defer h.wg.Done()
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-st.refresh:
			snap, err := st.loader(h.ctx)
			if err != nil {
				logger.Error().Err(err).Str("collection", name).Msg("live snapshot load failed")
				continue
			}
			h.deliver(name, st, snap)
		}
	}
}

func (h *Hub) deliver(name string, st *collectionState, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range st.subs {
		// drop the stale snapshot if the subscriber hasn't consumed it
		select {
		case <-sub.C:
		default:
		}
		sub.C <- Snapshot{Collection: name, Data: data}
		metrics.SnapshotsDelivered.WithLabelValues(name).Inc()
	}
}

// Notify schedules a reload of the collection. Calls while a reload is
// already pending coalesce into one.
func (h *Hub) Notify(collection string) {
	h.mu.Lock()
	st, ok := h.colls[collection]
	h.mu.Unlock()
	if !ok {
		return
	}
	select {
	case st.refresh <- struct{}{}:
	default:
	}
}

// Subscribe registers a subscriber and schedules its initial snapshot.
func (h *Hub) Subscribe(collection string) (*Subscriber, error) {
	h.mu.Lock()
	st, ok := h.colls[collection]
	if !ok {
		h.mu.Unlock()
		return nil, ErrUnknownCollection
	}
	sub := &Subscriber{C: make(chan Snapshot, 1), collection: collection}
	st.subs[sub] = struct{}{}
	h.mu.Unlock()

	metrics.LiveSubscribers.WithLabelValues(collection).Inc()
	h.Notify(collection)
	return sub, nil
}

// Unsubscribe removes the subscriber. Its channel is not closed; a pending
// snapshot may still be read.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	st, ok := h.colls[sub.collection]
	if ok {
		if _, present := st.subs[sub]; present {
			delete(st.subs, sub)
			metrics.LiveSubscribers.WithLabelValues(sub.collection).Dec()
		}
	}
	h.mu.Unlock()
}

// Close stops all collection workers and waits for them to exit.
func (h *Hub) Close() {
	h.cancel()
	h.wg.Wait()
}
