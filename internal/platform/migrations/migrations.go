package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the relational schema for every bounded context. Adapters do not
// migrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&checkoutKeyRecord{},
		&userRecord{},
		&sessionRecord{},
	)
}

// Tables lists the tables Run manages, in creation order.
func Tables() []string {
	return []string{
		orderRecord{}.TableName(),
		checkoutKeyRecord{}.TableName(),
		userRecord{}.TableName(),
		sessionRecord{}.TableName(),
	}
}

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID            string          `gorm:"primaryKey;column:id;type:varchar(36)"`
	OwnerID       string          `gorm:"column:owner_id;type:varchar(36);index:idx_orders_owner_created"`
	Items         []byte          `gorm:"column:items;type:jsonb;not null;default:'[]'"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(12,2)"`
	Address       []byte          `gorm:"column:address;type:jsonb;not null;default:'{}'"`
	PaymentMethod string          `gorm:"column:payment_method;type:varchar(16);index:idx_orders_unpaid"`
	Paid          bool            `gorm:"column:paid;index:idx_orders_unpaid"`
	Status        string          `gorm:"column:status;type:varchar(32);index"`
	Version       int64           `gorm:"column:version;not null;default:1"`
	CreatedAt     time.Time       `gorm:"column:created_at;index:idx_orders_owner_created"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Checkout keys mirror the orders idempotency store.
type checkoutKeyRecord struct {
	OwnerID     string    `gorm:"primaryKey;column:owner_id;type:varchar(36)"`
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;type:varchar(36)"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (checkoutKeyRecord) TableName() string { return "order_idempotency_keys" }

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID           string         `gorm:"primaryKey;column:id;type:varchar(36)"`
	Name         string         `gorm:"column:name"`
	Email        string         `gorm:"column:email;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash"`
	Providers    pq.StringArray `gorm:"column:providers;type:text[]"`
	Cart         []byte         `gorm:"column:cart;type:jsonb;not null;default:'{}'"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Session schema mirrors the Postgres session store.
type sessionRecord struct {
	Token     string    `gorm:"primaryKey;column:token;size:512"`
	UserID    string    `gorm:"column:user_id;type:varchar(320);index"`
	Role      string    `gorm:"column:role;type:varchar(16)"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (sessionRecord) TableName() string { return "user_sessions" }
