package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/craftline/orderdesk/internal/auth"
	"github.com/craftline/orderdesk/internal/cache"
	"github.com/craftline/orderdesk/internal/images"
	"github.com/craftline/orderdesk/internal/models"
	"github.com/craftline/orderdesk/internal/resolver"
	"github.com/craftline/orderdesk/internal/store"
)

type testEnv struct {
	T         *testing.T
	E         *echo.Echo
	DB        *gorm.DB
	Store     *store.Store
	Cache     *cache.Cache
	Auth      *auth.Service
	Customers *CustomerHandler
	Products  *ProductHandler
	Orders    *OrderHandler
	Users     *UserHandler
	Dashboard *DashboardHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	st := store.New(db)
	c := cache.New(nil)
	c.RegisterFetcher(models.CollectionCustomers, func(ctx context.Context) (any, error) {
		return st.ListCustomers(ctx, store.ListOptions{OrderBy: "name"})
	})
	c.RegisterFetcher(models.CollectionProducts, func(ctx context.Context) (any, error) {
		return st.ListProducts(ctx, store.ListOptions{OrderBy: "name"})
	})
	c.RegisterFetcher(models.CollectionOrders, func(ctx context.Context) (any, error) {
		return st.ListOrders(ctx, store.ListOptions{OrderBy: "created_at", Desc: true})
	})
	c.RegisterFetcher(models.CollectionUsers, func(ctx context.Context) (any, error) {
		return st.ListUsers(ctx, store.ListOptions{OrderBy: "name"})
	})

	imgs := images.NewResolver(0)
	return &testEnv{
		T:         t,
		E:         echo.New(),
		DB:        db,
		Store:     st,
		Cache:     c,
		Auth:      auth.NewService(st, []byte("test-secret")),
		Customers: &CustomerHandler{Store: st, Cache: c},
		Products:  &ProductHandler{Store: st, Cache: c, Images: imgs},
		Orders:    &OrderHandler{Store: st, Cache: c, Resolver: resolver.New(db), Images: imgs},
		Users:     &UserHandler{Store: st, Cache: c},
		Dashboard: &DashboardHandler{Cache: c},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var resp struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data
}

func TestOrderLifecycleScenario(t *testing.T) {
	env := newTestEnv(t)

	// Insert the customer.
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/customers", map[string]any{"name": "Jane Smith"})
	require.NoError(t, env.Customers.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	// Insert the product.
	rec, c = env.doJSONRequest(http.MethodPost, "/api/v1/products", map[string]any{
		"name":        "Wooden Table",
		"price":       "800",
		"description": "Solid oak dining table",
	})
	require.NoError(t, env.Products.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	// Insert the order by display names.
	rec, c = env.doJSONRequest(http.MethodPost, "/api/v1/orders", map[string]any{
		"customer":   "Jane Smith",
		"product":    "Wooden Table",
		"status":     "pending",
		"order_date": "2023-05-18",
	})
	require.NoError(t, env.Orders.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	// The orders list shows one fully resolved row.
	rec, c = env.doJSONRequest(http.MethodGet, "/api/v1/orders", nil)
	require.NoError(t, env.Orders.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rows := decodeList(t, rec)
	require.Len(t, rows, 1)
	require.Equal(t, "Jane Smith", rows[0]["customer"])
	require.Equal(t, "Wooden Table", rows[0]["product"])
	require.Equal(t, "pending", rows[0]["status"])
	require.Equal(t, "2023-05-18", rows[0]["order_date"])
}

func TestOrderCreateUnknownCustomer(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/products", map[string]any{
		"name": "Wooden Table", "price": "800", "description": "Solid oak dining table",
	})
	require.NoError(t, env.Products.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, c = env.doJSONRequest(http.MethodPost, "/api/v1/orders", map[string]any{
		"customer":   "Nobody",
		"product":    "Wooden Table",
		"order_date": "2023-05-18",
	})
	require.NoError(t, env.Orders.Create(c))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestOrderCreateCopiesProductImages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Store.CreateCustomer(ctx, &models.Customer{Name: "Jane Smith"})
	require.NoError(t, err)
	product := &models.Product{
		Name:        "Custom Cabinet",
		Description: "Walnut cabinet",
		FrontImage:  "https://images.example.com/front.jpg",
		BackImage:   "https://images.example.com/back.jpg",
	}
	_, err = env.Store.CreateProduct(ctx, product)
	require.NoError(t, err)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", map[string]any{
		"customer":   "Jane Smith",
		"product":    "Custom Cabinet",
		"order_date": "2023-05-20",
	})
	require.NoError(t, env.Orders.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "https://images.example.com/front.jpg", created.FrontImage)
	require.Equal(t, "https://images.example.com/back.jpg", created.BackImage)

	// Later product edits must not leak into the stored order.
	_, err = env.Store.UpdateProduct(ctx, product.ID, models.Product{
		Name:        "Custom Cabinet",
		Description: "Walnut cabinet",
		FrontImage:  "https://images.example.com/new.jpg",
	})
	require.NoError(t, err)

	got, err := env.Store.GetOrder(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "https://images.example.com/front.jpg", got.FrontImage)
}

func TestOrderStatusOutsideVocabularyRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer, err := env.Store.CreateCustomer(ctx, &models.Customer{Name: "Jane Smith"})
	require.NoError(t, err)
	product, err := env.Store.CreateProduct(ctx, &models.Product{Name: "Wooden Table", Description: "Oak"})
	require.NoError(t, err)
	order, err := env.Store.CreateOrder(ctx, &models.Order{
		CustomerID: customer.ID, ProductID: product.ID, OrderDate: "2023-05-18",
	})
	require.NoError(t, err)

	rec, c := env.doJSONRequest(http.MethodPut, "/api/v1/orders/"+order.ID.String(), map[string]any{
		"customer_id": customer.ID.String(),
		"product_id":  product.ID.String(),
		"status":      "shipped",
		"order_date":  "2023-05-18",
	})
	c.SetParamNames("id")
	c.SetParamValues(order.ID.String())
	require.NoError(t, env.Orders.Update(c))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	got, err := env.Store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, "pending", got.Status)
}

func TestListReflectsMutationAcrossConsumers(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/customers", nil)
	require.NoError(t, env.Customers.List(c))
	require.Len(t, decodeList(t, rec), 0)

	rec, c = env.doJSONRequest(http.MethodPost, "/api/v1/customers", map[string]any{"name": "Mike Johnson"})
	require.NoError(t, env.Customers.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	// A second consumer reading the same collection sees the new record on
	// its next fetch; no stale read survives the invalidation.
	rec, c = env.doJSONRequest(http.MethodGet, "/api/v1/customers", nil)
	require.NoError(t, env.Customers.List(c))
	rows := decodeList(t, rec)
	require.Len(t, rows, 1)
	require.Equal(t, "Mike Johnson", rows[0]["name"])
}

func TestUserViewsCarryDerivedPermissions(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/users", map[string]any{
		"name":     "Manager User",
		"email":    "manager@example.com",
		"password": "hunter22",
		"role":     "Manager",
	})
	require.NoError(t, env.Users.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created userView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, []auth.Permission{auth.PermRead, auth.PermCreate, auth.PermUpdate}, created.Permissions)

	// The response never echoes credentials.
	require.NotContains(t, rec.Body.String(), "hunter22")
	require.NotContains(t, rec.Body.String(), "password_hash")
}

func TestUserCreateRejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/users", map[string]any{
		"name":     "Odd",
		"email":    "odd@example.com",
		"password": "x",
		"role":     "Superuser",
	})
	require.NoError(t, env.Users.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer, err := env.Store.CreateCustomer(ctx, &models.Customer{Name: "Jane Smith"})
	require.NoError(t, err)
	product, err := env.Store.CreateProduct(ctx, &models.Product{Name: "Wooden Table", Description: "Oak"})
	require.NoError(t, err)
	for _, st := range []string{"pending", "pending", "completed"} {
		_, err = env.Store.CreateOrder(ctx, &models.Order{
			CustomerID: customer.ID, ProductID: product.ID, Status: st, OrderDate: "2023-05-18",
		})
		require.NoError(t, err)
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/dashboard", nil)
	require.NoError(t, env.Dashboard.Summary(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Orders         int            `json:"orders"`
		OrdersByStatus map[string]int `json:"orders_by_status"`
		Customers      int            `json:"customers"`
		Products       int            `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 3, resp.Orders)
	require.Equal(t, 2, resp.OrdersByStatus["pending"])
	require.Equal(t, 1, resp.OrdersByStatus["completed"])
	require.Equal(t, 0, resp.OrdersByStatus["rejected"])
	require.Equal(t, 1, resp.Customers)
	require.Equal(t, 1, resp.Products)
}

func TestProductCreateWithInlineImage(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/products", map[string]any{
		"name":        "Kitchen Drawer",
		"price":       "120.50",
		"description": "Soft-close drawer",
		"front_image": map[string]any{"data": "iVBORw0KGgo=", "content_type": "image/png"},
	})
	require.NoError(t, env.Products.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Contains(t, created.FrontImage, "data:image/png;base64,")
	require.Equal(t, images.Placeholder, created.BackImage)
}
