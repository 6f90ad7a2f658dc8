package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/onecart/storefront-api/internal/domains/orders/domain"
	"github.com/onecart/storefront-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. The schema is owned by
// internal/platform/migrations.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	ID            string          `gorm:"primaryKey;column:id;type:varchar(36)"`
	OwnerID       string          `gorm:"column:owner_id;type:varchar(36);index:idx_orders_owner_created"`
	Items         []itemRecord    `gorm:"column:items;type:jsonb;serializer:json"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(12,2)"`
	Address       addressRecord   `gorm:"column:address;type:jsonb;serializer:json"`
	PaymentMethod string          `gorm:"column:payment_method;type:varchar(16);index:idx_orders_unpaid"`
	Paid          bool            `gorm:"column:paid;index:idx_orders_unpaid"`
	Status        string          `gorm:"column:status;type:varchar(32);index"`
	Version       int64           `gorm:"column:version;not null;default:1"`
	CreatedAt     time.Time       `gorm:"column:created_at;index:idx_orders_owner_created"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type itemRecord struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name,omitempty"`
	Image     string          `json:"image,omitempty"`
	Size      string          `json:"size,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type addressRecord struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Street    string `json:"street,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	PinCode   string `json:"pinCode,omitempty"`
	Country   string `json:"country,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Create inserts a new order row.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if record.Version == 0 {
		record.Version = 1
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ports.ErrAlreadyExists
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListByOwner returns the orders placed by ownerID.
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("owner_id = ?", ownerID))
}

// List returns all orders.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.find(ctx, r.db.WithContext(ctx))
}

// Update writes the mutable columns guarded by the version column.
func (r *Repository) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	updatedAt := order.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]any{
			"status":     string(order.Status),
			"paid":       order.Paid,
			"version":    gorm.Expr("version + 1"),
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, order.ID); err != nil {
			return nil, err
		}
		return nil, ports.ErrVersionConflict
	}
	return r.GetByID(ctx, order.ID)
}

// ListUnpaid returns unpaid orders of the given method created before cutoff.
func (r *Repository) ListUnpaid(ctx context.Context, method domain.PaymentMethod, cutoff time.Time) ([]*domain.Order, error) {
	return r.find(ctx, r.db.WithContext(ctx).
		Where("payment_method = ? AND paid = ? AND created_at < ?", string(method), false, cutoff))
}

func (r *Repository) find(_ context.Context, query *gorm.DB) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := query.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	items := make([]itemRecord, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, itemRecord(item))
	}
	return orderRecord{
		ID:            order.ID,
		OwnerID:       order.OwnerID,
		Items:         items,
		Amount:        order.Amount,
		Address:       addressRecord(order.Address),
		PaymentMethod: string(order.PaymentMethod),
		Paid:          order.Paid,
		Status:        string(order.Status),
		Version:       order.Version,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	items := make([]domain.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.LineItem(item))
	}
	return &domain.Order{
		ID:            r.ID,
		OwnerID:       r.OwnerID,
		Items:         items,
		Amount:        r.Amount,
		Address:       domain.Address(r.Address),
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
		Paid:          r.Paid,
		Status:        domain.Status(r.Status),
		Version:       r.Version,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
