package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/onecart/storefront-api/internal/domains/orders/domain"
	"github.com/onecart/storefront-api/internal/domains/orders/ports"
)

// CollectionName is the collection holding order documents.
const CollectionName = "orders"

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders as MongoDB documents.
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

type orderDocument struct {
	ID            string               `bson:"_id"`
	OwnerID       string               `bson:"ownerId"`
	Items         []itemDocument       `bson:"items"`
	Amount        primitive.Decimal128 `bson:"amount"`
	Address       addressDocument      `bson:"address"`
	PaymentMethod string               `bson:"paymentMethod"`
	Paid          bool                 `bson:"payment"`
	Status        string               `bson:"status"`
	Version       int64                `bson:"version"`
	CreatedAt     time.Time            `bson:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt"`
}

type itemDocument struct {
	ProductID string               `bson:"productId"`
	Name      string               `bson:"name,omitempty"`
	Image     string               `bson:"image,omitempty"`
	Size      string               `bson:"size,omitempty"`
	Quantity  int                  `bson:"quantity"`
	Price     primitive.Decimal128 `bson:"price"`
}

type addressDocument struct {
	FirstName string `bson:"firstName,omitempty"`
	LastName  string `bson:"lastName,omitempty"`
	Email     string `bson:"email,omitempty"`
	Street    string `bson:"street,omitempty"`
	City      string `bson:"city,omitempty"`
	State     string `bson:"state,omitempty"`
	PinCode   string `bson:"pinCode,omitempty"`
	Country   string `bson:"country,omitempty"`
	Phone     string `bson:"phone,omitempty"`
}

// EnsureIndexes creates the indexes the list queries rely on.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	if err := r.ensureColl(); err != nil {
		return err
	}
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "paymentMethod", Value: 1}, {Key: "payment", Value: 1}, {Key: "createdAt", Value: 1}}},
	})
	return err
}

// Create inserts a new order document.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	doc, err := toDocument(order)
	if err != nil {
		return nil, err
	}
	if doc.Version == 0 {
		doc.Version = 1
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ports.ErrAlreadyExists
		}
		return nil, err
	}
	return r.GetByID(ctx, doc.ID)
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	var doc orderDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain()
}

// ListByOwner returns the orders placed by ownerID, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error) {
	return r.find(ctx, bson.M{"ownerId": ownerID})
}

// List returns all orders, newest first.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.find(ctx, bson.M{})
}

// Update sets the mutable fields when the stored version still matches.
func (r *Repository) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	updatedAt := order.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": order.ID, "version": order.Version},
		bson.M{
			"$set": bson.M{
				"status":    string(order.Status),
				"payment":   order.Paid,
				"updatedAt": updatedAt,
			},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		if _, err := r.GetByID(ctx, order.ID); err != nil {
			return nil, err
		}
		return nil, ports.ErrVersionConflict
	}
	return r.GetByID(ctx, order.ID)
}

// ListUnpaid returns unpaid orders of the given method created before cutoff.
func (r *Repository) ListUnpaid(ctx context.Context, method domain.PaymentMethod, cutoff time.Time) ([]*domain.Order, error) {
	return r.find(ctx, bson.M{
		"paymentMethod": string(method),
		"payment":       false,
		"createdAt":     bson.M{"$lt": cutoff},
	})
}

func (r *Repository) find(ctx context.Context, filter bson.M) ([]*domain.Order, error) {
	if err := r.ensureColl(); err != nil {
		return nil, err
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(docs))
	for i := range docs {
		order, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *Repository) ensureColl() error {
	if r == nil || r.coll == nil {
		return errors.New("mongo order repository not configured")
	}
	return nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	value, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode decimal %s: %w", d, err)
	}
	return value, nil
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("decode decimal %s: %w", d, err)
	}
	return value, nil
}

func toDocument(order *domain.Order) (orderDocument, error) {
	amount, err := toDecimal128(order.Amount)
	if err != nil {
		return orderDocument{}, err
	}
	items := make([]itemDocument, 0, len(order.Items))
	for _, item := range order.Items {
		price, err := toDecimal128(item.Price)
		if err != nil {
			return orderDocument{}, err
		}
		items = append(items, itemDocument{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     price,
		})
	}
	return orderDocument{
		ID:            order.ID,
		OwnerID:       order.OwnerID,
		Items:         items,
		Amount:        amount,
		Address:       addressDocument(order.Address),
		PaymentMethod: string(order.PaymentMethod),
		Paid:          order.Paid,
		Status:        string(order.Status),
		Version:       order.Version,
		CreatedAt:     order.CreatedAt.UTC(),
		UpdatedAt:     order.UpdatedAt.UTC(),
	}, nil
}

func (d orderDocument) toDomain() (*domain.Order, error) {
	amount, err := fromDecimal128(d.Amount)
	if err != nil {
		return nil, err
	}
	items := make([]domain.LineItem, 0, len(d.Items))
	for _, item := range d.Items {
		price, err := fromDecimal128(item.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.LineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     price,
		})
	}
	return &domain.Order{
		ID:            d.ID,
		OwnerID:       d.OwnerID,
		Items:         items,
		Amount:        amount,
		Address:       domain.Address(d.Address),
		PaymentMethod: domain.PaymentMethod(d.PaymentMethod),
		Paid:          d.Paid,
		Status:        domain.Status(d.Status),
		Version:       d.Version,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}, nil
}
