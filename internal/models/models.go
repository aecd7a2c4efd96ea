package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Collection names as used by the store and the cache layer.
const (
	CollectionCustomers = "customers"
	CollectionProducts  = "products"
	CollectionOrders    = "orders"
	CollectionUsers     = "users"
)

type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Name      string    `gorm:"not null;index"        json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"  json:"id"`
	Name        string          `gorm:"not null;index"        json:"name"`
	Price       decimal.Decimal `gorm:"type:numeric;not null" json:"price"`
	Description string          `gorm:"not null"              json:"description"`
	FrontImage  string          `json:"front_image"`
	BackImage   string          `json:"back_image"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Order references Customer and Product by id. The product images are
// copied into the order at creation time, so later product edits do not
// change what the order shows.
type Order struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Status     string    `gorm:"not null;default:pending" json:"status"`
	OrderDate  string    `gorm:"not null"                 json:"order_date"`
	FrontImage string    `json:"front_image"`
	BackImage  string    `json:"back_image"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"not null"             json:"name"`
	Email        string    `gorm:"unique;not null"      json:"email"`
	PasswordHash string    `gorm:"not null"             json:"-"`
	Role         string    `gorm:"not null"             json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// All lists every persisted model, in automigrate order.
func All() []any {
	return []any{&Customer{}, &Product{}, &Order{}, &User{}}
}
