package resolver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/craftline/orderdesk/internal/apperrors"
	"github.com/craftline/orderdesk/internal/models"
	"github.com/craftline/orderdesk/internal/store"
)

func newTestResolver(t *testing.T) (*Resolver, *store.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return New(db), store.New(db)
}

func TestForwardResolveUniqueMatch(t *testing.T) {
	r, s := newTestResolver(t)
	ctx := context.Background()

	want, err := s.CreateCustomer(ctx, &models.Customer{Name: "Jane Smith"})
	require.NoError(t, err)
	_, err = s.CreateCustomer(ctx, &models.Customer{Name: "Mike Johnson"})
	require.NoError(t, err)

	got, err := r.CustomerByName(ctx, "Jane Smith")
	require.NoError(t, err)
	require.Equal(t, want.ID, got.ID)
}

func TestForwardResolveMissing(t *testing.T) {
	r, _ := newTestResolver(t)

	_, err := r.CustomerByName(context.Background(), "Nobody")
	require.ErrorIs(t, err, apperrors.ErrReferenceNotFound)
	_, err = r.ProductByName(context.Background(), "Nothing")
	require.ErrorIs(t, err, apperrors.ErrReferenceNotFound)
}

func TestForwardResolveAmbiguous(t *testing.T) {
	r, s := newTestResolver(t)
	ctx := context.Background()

	_, err := s.CreateCustomer(ctx, &models.Customer{Name: "Jane Smith"})
	require.NoError(t, err)
	_, err = s.CreateCustomer(ctx, &models.Customer{Name: "Jane Smith"})
	require.NoError(t, err)

	// Two matches must reject the write, not silently pick one.
	_, err = r.CustomerByName(ctx, "Jane Smith")
	require.ErrorIs(t, err, apperrors.ErrReferenceNotFound)
}

func TestReverseJoin(t *testing.T) {
	r, s := newTestResolver(t)
	ctx := context.Background()

	customer, err := s.CreateCustomer(ctx, &models.Customer{Name: "Jane Smith"})
	require.NoError(t, err)
	product, err := s.CreateProduct(ctx, &models.Product{
		Name:        "Wooden Table",
		Price:       decimal.NewFromInt(800),
		Description: "Solid oak dining table",
	})
	require.NoError(t, err)
	order, err := s.CreateOrder(ctx, &models.Order{
		CustomerID: customer.ID,
		ProductID:  product.ID,
		Status:     "pending",
		OrderDate:  "2023-05-18",
	})
	require.NoError(t, err)

	views, err := r.ResolveOrders(ctx, []models.Order{*order}, "en")
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "Jane Smith", views[0].CustomerName)
	require.Equal(t, "Wooden Table", views[0].ProductName)
	require.Equal(t, "pending", views[0].Status)
	require.Equal(t, "Pending", views[0].StatusLabel)
	require.Equal(t, "2023-05-18", views[0].OrderDate)
}

func TestReverseJoinDanglingReference(t *testing.T) {
	r, s := newTestResolver(t)
	ctx := context.Background()

	customer, err := s.CreateCustomer(ctx, &models.Customer{Name: "Jane Smith"})
	require.NoError(t, err)
	product, err := s.CreateProduct(ctx, &models.Product{
		Name:        "Wooden Table",
		Price:       decimal.NewFromInt(800),
		Description: "Solid oak dining table",
	})
	require.NoError(t, err)
	order, err := s.CreateOrder(ctx, &models.Order{
		CustomerID: customer.ID,
		ProductID:  product.ID,
		OrderDate:  "2023-05-18",
	})
	require.NoError(t, err)

	// Deleting the referenced customer leaves the order in place; its
	// display name resolves to empty, not an error.
	require.NoError(t, s.DeleteCustomer(ctx, customer.ID))

	view, err := r.ResolveOrder(ctx, *order, "en")
	require.NoError(t, err)
	require.Empty(t, view.CustomerName)
	require.Equal(t, "Wooden Table", view.ProductName)
}

func TestStatusLabelLocalized(t *testing.T) {
	r, s := newTestResolver(t)
	ctx := context.Background()

	customer, err := s.CreateCustomer(ctx, &models.Customer{Name: "مايكل"})
	require.NoError(t, err)
	product, err := s.CreateProduct(ctx, &models.Product{
		Name:        "Custom Cabinet",
		Price:       decimal.NewFromInt(1200),
		Description: "Walnut cabinet",
	})
	require.NoError(t, err)
	order, err := s.CreateOrder(ctx, &models.Order{
		CustomerID: customer.ID,
		ProductID:  product.ID,
		Status:     "completed",
		OrderDate:  "2023-05-20",
	})
	require.NoError(t, err)

	view, err := r.ResolveOrder(ctx, *order, "ar")
	require.NoError(t, err)
	require.Equal(t, "مكتمل", view.StatusLabel)
}
