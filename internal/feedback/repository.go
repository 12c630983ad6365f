package feedback

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/visualmate/visualmate/backend/admin-service/internal/database"
	"github.com/visualmate/visualmate/backend/admin-service/internal/models"
)

// ErrNotFound is returned when no FAQ exists for the id.
var ErrNotFound = errors.New("faq not found")

// Repository reads end-user feedback and manages FAQ entries. Feedback is
// written by the mobile app, never from here.
type Repository interface {
	ListFeedback(ctx context.Context) ([]*models.Feedback, error)
	ListFAQs(ctx context.Context) ([]*models.FAQ, error)
	CreateFAQ(ctx context.Context, f *models.FAQ) error
	UpdateFAQ(ctx context.Context, id, question, answer string) error
	DeleteFAQ(ctx context.Context, id string) error
}

// MongoRepository backs Repository with the feedback and faqs collections.
type MongoRepository struct {
	feedback *mongo.Collection
	faqs     *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		feedback: db.Collection(database.FeedbackCollection),
		faqs:     db.Collection(database.FAQsCollection),
	}
}

// ListFeedback returns all feedback newest first.
func (r *MongoRepository) ListFeedback(ctx context.Context) ([]*models.Feedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cur, err := r.feedback.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.Feedback{}
	for cur.Next(ctx) {
		var f models.Feedback
		if err := cur.Decode(&f); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, cur.Err()
}

// ListFAQs returns all FAQ entries newest first.
func (r *MongoRepository) ListFAQs(ctx context.Context) ([]*models.FAQ, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.faqs.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.FAQ{}
	for cur.Next(ctx) {
		var f models.FAQ
		if err := cur.Decode(&f); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, cur.Err()
}

func (r *MongoRepository) CreateFAQ(ctx context.Context, f *models.FAQ) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	_, err := r.faqs.InsertOne(ctx, f)
	return err
}

func (r *MongoRepository) UpdateFAQ(ctx context.Context, id, question, answer string) error {
	res, err := r.faqs.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"question": question, "answer": answer}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) DeleteFAQ(ctx context.Context, id string) error {
	res, err := r.faqs.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MemoryRepository is the in-memory Repository used in tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	feedback []*models.Feedback
	faqs     map[string]*models.FAQ
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{faqs: make(map[string]*models.FAQ)}
}

// AddFeedback seeds a feedback record.
func (r *MemoryRepository) AddFeedback(f *models.Feedback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *f
	r.feedback = append(r.feedback, &cp)
}

func (r *MemoryRepository) ListFeedback(ctx context.Context) ([]*models.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Feedback, 0, len(r.feedback))
	for _, f := range r.feedback {
		cp := *f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (r *MemoryRepository) ListFAQs(ctx context.Context) ([]*models.FAQ, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.FAQ, 0, len(r.faqs))
	for _, f := range r.faqs {
		cp := *f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) CreateFAQ(ctx context.Context, f *models.FAQ) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	cp := *f
	r.faqs[cp.ID] = &cp
	return nil
}

func (r *MemoryRepository) UpdateFAQ(ctx context.Context, id, question, answer string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.faqs[id]
	if !ok {
		return ErrNotFound
	}
	f.Question = question
	f.Answer = answer
	return nil
}

func (r *MemoryRepository) DeleteFAQ(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.faqs[id]; !ok {
		return ErrNotFound
	}
	delete(r.faqs, id)
	return nil
}
