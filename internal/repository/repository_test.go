package repository

import (
	"context"
	"testing"
	"time"

	"order_fulfillment/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Product{}, &model.Order{}))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, p model.Product) model.Product {
	t.Helper()
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestProductUpdateRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	p := &model.Product{Name: "USB Cable", Type: model.ProductTypeNormal, Available: 30, LeadTime: 15}
	require.NoError(t, repo.Create(ctx, p))
	require.NotZero(t, p.ID)

	p.Available = 29
	updated, err := repo.Update(ctx, *p)
	require.NoError(t, err)
	assert.Equal(t, 29, updated.Available)

	var stored model.Product
	require.NoError(t, db.First(&stored, p.ID).Error)
	assert.Equal(t, 29, stored.Available)
}

func TestProductUpdateMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)

	_, err := repo.Update(context.Background(), model.Product{ID: 999, Name: "Ghost"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Update(context.Background(), model.Product{Name: "No ID"})
	require.ErrorIs(t, err, ErrNotFound)

	// A rejected update must not insert anything either.
	var count int64
	require.NoError(t, db.Model(&model.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProductUpdateKeepsOptionalDates(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	expiry := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	p := seedProduct(t, db, model.Product{
		Name: "Milk", Type: model.ProductTypeExpirable, Available: 6,
		ExpiryDate: &expiry,
	})

	p.Available = 5
	updated, err := repo.Update(ctx, p)
	require.NoError(t, err)
	require.NotNil(t, updated.ExpiryDate)
	assert.True(t, updated.ExpiryDate.Equal(expiry))
}

func TestProductList(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)

	seedProduct(t, db, model.Product{Name: "A", Type: model.ProductTypeNormal})
	seedProduct(t, db, model.Product{Name: "B", Type: model.ProductTypeSeasonal})

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestOrderFindWithProducts(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderRepository(db)
	ctx := context.Background()

	a := seedProduct(t, db, model.Product{Name: "USB Cable", Type: model.ProductTypeNormal, Available: 30})
	b := seedProduct(t, db, model.Product{Name: "Butter", Type: model.ProductTypeExpirable, Available: 6})

	order := &model.Order{}
	require.NoError(t, orders.Create(ctx, order))
	require.NoError(t, orders.AddProducts(ctx, order.ID, []model.Product{{ID: a.ID}, {ID: b.ID}}))

	found, err := orders.FindWithProducts(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, found.Products, 2)

	names := []string{found.Products[0].Name, found.Products[1].Name}
	assert.ElementsMatch(t, []string{"USB Cable", "Butter"}, names)
}

func TestOrderFindWithProductsMissing(t *testing.T) {
	orders := NewOrderRepository(newTestDB(t))

	_, err := orders.FindWithProducts(context.Background(), 404)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOrderFindWithProductsEmpty(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderRepository(db)
	ctx := context.Background()

	order := &model.Order{}
	require.NoError(t, orders.Create(ctx, order))

	found, err := orders.FindWithProducts(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Products)
}

func TestAddProductsMissingOrder(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderRepository(db)

	p := seedProduct(t, db, model.Product{Name: "USB Cable", Type: model.ProductTypeNormal})

	err := orders.AddProducts(context.Background(), 404, []model.Product{{ID: p.ID}})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddProductsMissingProduct(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderRepository(db)
	ctx := context.Background()

	order := &model.Order{}
	require.NoError(t, orders.Create(ctx, order))

	err := orders.AddProducts(ctx, order.ID, []model.Product{{ID: 999}})
	require.ErrorIs(t, err, ErrNotFound)

	found, err := orders.FindWithProducts(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Products)
}

func TestAddProductsNoops(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderRepository(db)
	ctx := context.Background()

	order := &model.Order{}
	require.NoError(t, orders.Create(ctx, order))
	require.NoError(t, orders.AddProducts(ctx, order.ID, nil))
}

func TestProductSharedAcrossOrders(t *testing.T) {
	// Products outlive orders and may sit on several orders at once.
	db := newTestDB(t)
	orders := NewOrderRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, model.Product{Name: "USB Cable", Type: model.ProductTypeNormal, Available: 30})

	first := &model.Order{}
	second := &model.Order{}
	require.NoError(t, orders.Create(ctx, first))
	require.NoError(t, orders.Create(ctx, second))
	require.NoError(t, orders.AddProducts(ctx, first.ID, []model.Product{{ID: p.ID}}))
	require.NoError(t, orders.AddProducts(ctx, second.ID, []model.Product{{ID: p.ID}}))

	foundFirst, err := orders.FindWithProducts(ctx, first.ID)
	require.NoError(t, err)
	foundSecond, err := orders.FindWithProducts(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, foundFirst.Products, 1)
	require.Len(t, foundSecond.Products, 1)
	assert.Equal(t, p.ID, foundFirst.Products[0].ID)
	assert.Equal(t, p.ID, foundSecond.Products[0].ID)
}
