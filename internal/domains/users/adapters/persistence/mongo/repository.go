package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/onecart/storefront-api/internal/domains/users/domain"
	"github.com/onecart/storefront-api/internal/domains/users/ports"
)

// CollectionName is the collection holding user documents.
const CollectionName = "users"

var _ ports.Repository = (*Repository)(nil)

// Repository persists users as MongoDB documents.
type Repository struct {
	coll *mongo.Collection
}

// NewRepository wires a MongoDB-backed repository. Caller owns the client lifecycle.
func NewRepository(db *mongo.Database) *Repository {
	if db == nil {
		return &Repository{}
	}
	return &Repository{coll: db.Collection(CollectionName)}
}

type userDocument struct {
	ID           string                    `bson:"_id"`
	Name         string                    `bson:"name"`
	Email        string                    `bson:"email"`
	PasswordHash string                    `bson:"password,omitempty"`
	Providers    []string                  `bson:"providers"`
	Cart         map[string]map[string]int `bson:"cartData"`
	CreatedAt    time.Time                 `bson:"createdAt"`
	UpdatedAt    time.Time                 `bson:"updatedAt"`
}

// EnsureIndexes creates the unique email index.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	if err := r.ensureColl(); err != nil {
		return err
	}
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Create inserts a new user document.
func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	doc := toDocument(user)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ports.ErrDuplicateEmail
		}
		return nil, err
	}
	return r.GetByID(ctx, doc.ID)
}

// Update replaces the mutable fields of an existing user.
func (r *Repository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user is nil")
	}
	doc := toDocument(user)
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now().UTC()
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": bson.M{
		"name":      doc.Name,
		"email":     doc.Email,
		"password":  doc.PasswordHash,
		"providers": doc.Providers,
		"cartData":  doc.Cart,
		"updatedAt": doc.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ports.ErrDuplicateEmail
		}
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, doc.ID)
}

// GetByID fetches a user by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail fetches a user by normalised email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *Repository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *Repository) ensureColl() error {
	if r == nil || r.coll == nil {
		return errors.New("mongo user repository not configured")
	}
	return nil
}

func toDocument(user *domain.User) userDocument {
	providers := make([]string, 0, len(user.Providers))
	for _, p := range user.Providers {
		providers = append(providers, string(p))
	}
	return userDocument{
		ID:           user.ID,
		Name:         user.Name,
		Email:        domain.NormalizeEmail(user.Email),
		PasswordHash: user.PasswordHash,
		Providers:    providers,
		Cart:         user.Cart.Clone(),
		CreatedAt:    user.CreatedAt.UTC(),
		UpdatedAt:    user.UpdatedAt.UTC(),
	}
}

func (d userDocument) toDomain() *domain.User {
	providers := make([]domain.Provider, 0, len(d.Providers))
	for _, p := range d.Providers {
		providers = append(providers, domain.Provider(p))
	}
	return &domain.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Providers:    providers,
		Cart:         domain.Cart(d.Cart).Clone(),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
