// Package resolver translates between human-facing names and foreign-key
// identifiers. The add-order form collects customer and product names; the
// stored order keeps durable ids, so a later rename never invalidates it.
package resolver

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftline/orderdesk/internal/apperrors"
	"github.com/craftline/orderdesk/internal/models"
	"github.com/craftline/orderdesk/internal/status"
)

type Resolver struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Resolver {
	return &Resolver{DB: db}
}

// CustomerByName resolves a display name to exactly one customer. Zero or
// multiple matches reject the write rather than silently picking one.
func (r *Resolver) CustomerByName(ctx context.Context, name string) (*models.Customer, error) {
	var matches []models.Customer
	if err := r.DB.WithContext(ctx).Where("name = ?", name).Limit(2).Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	if len(matches) != 1 {
		return nil, fmt.Errorf("%w: customer %q matched %d records", apperrors.ErrReferenceNotFound, name, len(matches))
	}
	return &matches[0], nil
}

// ProductByName resolves a display name to exactly one product. The full
// record is returned because order creation copies the product images.
func (r *Resolver) ProductByName(ctx context.Context, name string) (*models.Product, error) {
	var matches []models.Product
	if err := r.DB.WithContext(ctx).Where("name = ?", name).Limit(2).Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	if len(matches) != 1 {
		return nil, fmt.Errorf("%w: product %q matched %d records", apperrors.ErrReferenceNotFound, name, len(matches))
	}
	return &matches[0], nil
}

// OrderView is an order joined with its referenced display values, ready for
// presentation. Dangling references come out as empty strings.
type OrderView struct {
	ID           uuid.UUID `json:"id"`
	CustomerID   uuid.UUID `json:"customer_id"`
	CustomerName string    `json:"customer"`
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product"`
	Status       string    `json:"status"`
	StatusLabel  string    `json:"status_label"`
	OrderDate    string    `json:"order_date"`
	FrontImage   string    `json:"front_image"`
	BackImage    string    `json:"back_image"`
	Notes        string    `json:"notes"`
}

// ResolveOrders performs the reverse join for a batch of orders. Referenced
// entities are loaded once per batch, not once per row.
func (r *Resolver) ResolveOrders(ctx context.Context, orders []models.Order, lang string) ([]OrderView, error) {
	customerIDs := make([]uuid.UUID, 0, len(orders))
	productIDs := make([]uuid.UUID, 0, len(orders))
	for i := range orders {
		customerIDs = append(customerIDs, orders[i].CustomerID)
		productIDs = append(productIDs, orders[i].ProductID)
	}

	customers := map[uuid.UUID]string{}
	if len(customerIDs) > 0 {
		var rows []models.Customer
		if err := r.DB.WithContext(ctx).Where("id IN ?", customerIDs).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
		}
		for i := range rows {
			customers[rows[i].ID] = rows[i].Name
		}
	}

	products := map[uuid.UUID]string{}
	if len(productIDs) > 0 {
		var rows []models.Product
		if err := r.DB.WithContext(ctx).Where("id IN ?", productIDs).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
		}
		for i := range rows {
			products[rows[i].ID] = rows[i].Name
		}
	}

	views := make([]OrderView, len(orders))
	for i := range orders {
		o := &orders[i]
		views[i] = OrderView{
			ID:           o.ID,
			CustomerID:   o.CustomerID,
			CustomerName: customers[o.CustomerID],
			ProductID:    o.ProductID,
			ProductName:  products[o.ProductID],
			Status:       o.Status,
			StatusLabel:  status.Status(o.Status).Label(lang),
			OrderDate:    o.OrderDate,
			FrontImage:   o.FrontImage,
			BackImage:    o.BackImage,
			Notes:        o.Notes,
		}
	}
	return views, nil
}

// ResolveOrder is the single-row variant used by the details dialog.
func (r *Resolver) ResolveOrder(ctx context.Context, o models.Order, lang string) (*OrderView, error) {
	views, err := r.ResolveOrders(ctx, []models.Order{o}, lang)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
