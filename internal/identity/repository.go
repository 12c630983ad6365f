package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/visualmate/visualmate/backend/admin-service/internal/database"
	"github.com/visualmate/visualmate/backend/admin-service/internal/models"
)

// CredentialRepository persists identity-provider records. Lookups by email
// are case-insensitive; emails are stored lowercased.
type CredentialRepository interface {
	Create(ctx context.Context, c *models.Credential) error
	GetByUID(ctx context.Context, uid string) (*models.Credential, error)
	GetByEmail(ctx context.Context, email string) (*models.Credential, error)
	UpdatePasswordHash(ctx context.Context, uid, hash string) error
	Delete(ctx context.Context, uid string) error
}

// MongoCredentialRepository stores credentials in the credentials collection.
type MongoCredentialRepository struct {
	coll *mongo.Collection
}

func NewMongoCredentialRepository(db *mongo.Database) *MongoCredentialRepository {
	return &MongoCredentialRepository{coll: db.Collection(database.CredentialsCollection)}
}

func (r *MongoCredentialRepository) Create(ctx context.Context, c *models.Credential) error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, c)
	return err
}

func (r *MongoCredentialRepository) GetByUID(ctx context.Context, uid string) (*models.Credential, error) {
	var c models.Credential
	err := r.coll.FindOne(ctx, bson.M{"_id": uid}).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *MongoCredentialRepository) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	var c models.Credential
	err := r.coll.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *MongoCredentialRepository) UpdatePasswordHash(ctx context.Context, uid, hash string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": bson.M{"passwordHash": hash}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoSuchAccount
	}
	return nil
}

func (r *MongoCredentialRepository) Delete(ctx context.Context, uid string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": uid})
	return err
}

// MemoryCredentialRepository is an in-memory implementation used in tests.
type MemoryCredentialRepository struct {
	mu    sync.RWMutex
	byUID map[string]*models.Credential
}

func NewMemoryCredentialRepository() *MemoryCredentialRepository {
	return &MemoryCredentialRepository{byUID: make(map[string]*models.Credential)}
}

func (r *MemoryCredentialRepository) Create(ctx context.Context, c *models.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	cp.Email = strings.ToLower(strings.TrimSpace(cp.Email))
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	r.byUID[cp.UID] = &cp
	return nil
}

func (r *MemoryCredentialRepository) GetByUID(ctx context.Context, uid string) (*models.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byUID[uid]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *MemoryCredentialRepository) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, c := range r.byUID {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *MemoryCredentialRepository) UpdatePasswordHash(ctx context.Context, uid, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byUID[uid]
	if !ok {
		return ErrNoSuchAccount
	}
	c.PasswordHash = hash
	return nil
}

func (r *MemoryCredentialRepository) Delete(ctx context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUID, uid)
	return nil
}
