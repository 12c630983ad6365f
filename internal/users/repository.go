package users

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/visualmate/visualmate/backend/admin-service/internal/database"
	"github.com/visualmate/visualmate/backend/admin-service/internal/models"
)

// ErrNotFound is returned when no profile exists for the uid.
var ErrNotFound = errors.New("profile not found")

// ProfileRepository defines persistence operations for profile documents.
// SetActive writes only the active flag so concurrent profile edits are
// never clobbered by an activation toggle.
type ProfileRepository interface {
	Create(ctx context.Context, p *models.Profile) error
	GetByUID(ctx context.Context, uid string) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error
	SetActive(ctx context.Context, uid string, active bool) error
	Delete(ctx context.Context, uid string) error
	CountByRole(ctx context.Context, role string) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

// MongoProfileRepository implements ProfileRepository using MongoDB.
type MongoProfileRepository struct {
	col *mongo.Collection
}

func NewMongoProfileRepository(db *mongo.Database) *MongoProfileRepository {
	return &MongoProfileRepository{col: db.Collection(database.UsersCollection)}
}

func (r *MongoProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, p)
	return err
}

func (r *MongoProfileRepository) GetByUID(ctx context.Context, uid string) (*models.Profile, error) {
	var p models.Profile
	if err := r.col.FindOne(ctx, bson.M{"_id": uid}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// List returns all profiles ordered newest first.
func (r *MongoProfileRepository) List(ctx context.Context) ([]*models.Profile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.Profile{}
	for cur.Next(ctx) {
		var p models.Profile
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

func (r *MongoProfileRepository) UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProfileRepository) SetActive(ctx context.Context, uid string, active bool) error {
	return r.UpdateFields(ctx, uid, map[string]interface{}{"active": active})
}

func (r *MongoProfileRepository) Delete(ctx context.Context, uid string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": uid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProfileRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"role": role})
}

func (r *MongoProfileRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": since}})
}
