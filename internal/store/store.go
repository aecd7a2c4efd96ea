// Package store is the entity store: gorm-backed CRUD over the named
// collections (customers, products, orders, users). All taxonomy mapping
// happens here; callers never see raw gorm errors for the common cases.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftline/orderdesk/internal/apperrors"
	"github.com/craftline/orderdesk/internal/models"
	"github.com/craftline/orderdesk/internal/status"
)

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// ListOptions carries the equality filters and ordering of a list call.
// Filter and sort columns are both whitelisted per collection to keep user
// input out of the WHERE and ORDER BY clauses.
type ListOptions struct {
	Filter  map[string]any
	OrderBy string
	Desc    bool
}

var sortColumns = map[string]map[string]bool{
	models.CollectionCustomers: {"name": true, "created_at": true},
	models.CollectionProducts:  {"name": true, "price": true, "created_at": true},
	models.CollectionOrders:    {"order_date": true, "status": true, "created_at": true},
	models.CollectionUsers:     {"name": true, "email": true, "created_at": true},
}

var filterColumns = map[string]map[string]bool{
	models.CollectionCustomers: {"name": true, "phone": true},
	models.CollectionProducts:  {"name": true},
	models.CollectionOrders:    {"status": true, "customer_id": true, "product_id": true, "order_date": true},
	models.CollectionUsers:     {"email": true, "role": true},
}

func (o ListOptions) apply(q *gorm.DB, collection string) (*gorm.DB, error) {
	for col, val := range o.Filter {
		c := strings.ToLower(col)
		if !filterColumns[collection][c] {
			return nil, fmt.Errorf("%w: cannot filter %s by %q", apperrors.ErrValidation, collection, col)
		}
		q = q.Where(fmt.Sprintf("%s = ?", c), val)
	}
	order := "created_at"
	if o.OrderBy != "" && sortColumns[collection][strings.ToLower(o.OrderBy)] {
		order = strings.ToLower(o.OrderBy)
	}
	if o.Desc {
		order += " DESC"
	}
	return q.Order(order), nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated), errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.ErrConstraint
	default:
		return fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
}

// Customers

func (s *Store) CreateCustomer(ctx context.Context, c *models.Customer) (*models.Customer, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, fmt.Errorf("%w: customer name is required", apperrors.ErrValidation)
	}
	if err := s.DB.WithContext(ctx).Create(c).Error; err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, id uuid.UUID, in models.Customer) (*models.Customer, error) {
	var c models.Customer
	if err := s.DB.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: customer name is required", apperrors.ErrValidation)
	}
	c.Name, c.Phone, c.Address, c.Notes = in.Name, in.Phone, in.Address, in.Notes
	if err := s.DB.WithContext(ctx).Save(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Store) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Delete(&models.Customer{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *Store) ListCustomers(ctx context.Context, opts ListOptions) ([]models.Customer, error) {
	var out []models.Customer
	q, err := opts.apply(s.DB.WithContext(ctx).Model(&models.Customer{}), models.CollectionCustomers)
	if err != nil {
		return nil, err
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// Products

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Create(p).Error; err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id uuid.UUID, in models.Product) (*models.Product, error) {
	var p models.Product
	if err := s.DB.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	if err := validateProduct(&in); err != nil {
		return nil, err
	}
	p.Name, p.Price, p.Description = in.Name, in.Price, in.Description
	p.FrontImage, p.BackImage = in.FrontImage, in.BackImage
	if err := s.DB.WithContext(ctx).Save(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *Store) ListProducts(ctx context.Context, opts ListOptions) ([]models.Product, error) {
	var out []models.Product
	q, err := opts.apply(s.DB.WithContext(ctx).Model(&models.Product{}), models.CollectionProducts)
	if err != nil {
		return nil, err
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := s.DB.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func validateProduct(p *models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(p.Description) == "" {
		return fmt.Errorf("%w: product description is required", apperrors.ErrValidation)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: product price must not be negative", apperrors.ErrValidation)
	}
	return nil
}

// Orders

func (s *Store) CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	if err := s.validateOrder(ctx, o); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Create(o).Error; err != nil {
		return nil, translate(err)
	}
	return o, nil
}

func (s *Store) UpdateOrder(ctx context.Context, id uuid.UUID, in models.Order) (*models.Order, error) {
	var o models.Order
	if err := s.DB.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	if err := s.validateOrder(ctx, &in); err != nil {
		return nil, err
	}
	o.CustomerID, o.ProductID = in.CustomerID, in.ProductID
	o.Status, o.OrderDate, o.Notes = in.Status, in.OrderDate, in.Notes
	o.FrontImage, o.BackImage = in.FrontImage, in.BackImage
	if err := s.DB.WithContext(ctx).Save(&o).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (s *Store) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *Store) ListOrders(ctx context.Context, opts ListOptions) ([]models.Order, error) {
	var out []models.Order
	q, err := opts.apply(s.DB.WithContext(ctx).Model(&models.Order{}), models.CollectionOrders)
	if err != nil {
		return nil, err
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	if err := s.DB.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// validateOrder checks the required fields and that both references resolve
// to live rows at write time. A reference going stale later is tolerated,
// the resolver falls back to an empty display.
func (s *Store) validateOrder(ctx context.Context, o *models.Order) error {
	if o.CustomerID == uuid.Nil {
		return fmt.Errorf("%w: order customer is required", apperrors.ErrValidation)
	}
	if o.ProductID == uuid.Nil {
		return fmt.Errorf("%w: order product is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(o.OrderDate) == "" {
		return fmt.Errorf("%w: order date is required", apperrors.ErrValidation)
	}
	st, err := status.Parse(o.Status)
	if err != nil {
		return err
	}
	o.Status = string(st)

	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", o.CustomerID).Count(&n).Error; err != nil {
		return translate(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: customer %s", apperrors.ErrConstraint, o.CustomerID)
	}
	if err := s.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", o.ProductID).Count(&n).Error; err != nil {
		return translate(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: product %s", apperrors.ErrConstraint, o.ProductID)
	}
	return nil
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	if strings.TrimSpace(u.Email) == "" || strings.TrimSpace(u.Name) == "" {
		return nil, fmt.Errorf("%w: user name and email are required", apperrors.ErrValidation)
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", u.Email).Count(&n).Error; err != nil {
		return nil, translate(err)
	}
	if n > 0 {
		return nil, fmt.Errorf("%w: email %s already registered", apperrors.ErrConstraint, u.Email)
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id uuid.UUID, in models.User) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	if strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: user name and email are required", apperrors.ErrValidation)
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ? AND id <> ?", in.Email, id).Count(&n).Error; err != nil {
		return nil, translate(err)
	}
	if n > 0 {
		return nil, fmt.Errorf("%w: email %s already registered", apperrors.ErrConstraint, in.Email)
	}
	u.Name, u.Email, u.Role = in.Name, in.Email, in.Role
	if in.PasswordHash != "" {
		u.PasswordHash = in.PasswordHash
	}
	if err := s.DB.WithContext(ctx).Save(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context, opts ListOptions) ([]models.User, error) {
	var out []models.User
	q, err := opts.apply(s.DB.WithContext(ctx).Model(&models.User{}), models.CollectionUsers)
	if err != nil {
		return nil, err
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}
