package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rokko/warranty-tracker/internal/domain"
	"github.com/rokko/warranty-tracker/internal/repository"
	"github.com/rokko/warranty-tracker/internal/repository/postgres"
	"github.com/rokko/warranty-tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarrantyRepository_RoundTrip(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewWarrantyRepository(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	price := 499.99
	w := &domain.Warranty{UserID: owner.ID}
	require.NoError(t, w.Apply(domain.WarrantyInput{
		ProductName:     "Laptop",
		Brand:           "Acme",
		PurchaseDate:    domain.NewDate(2024, 1, 1),
		WarrantyExpires: domain.NewDate(2026, 1, 1),
		Category:        "Electronics",
		Price:           &price,
	}))
	require.NoError(t, repo.Create(ctx, w))
	require.NotEqual(t, uuid.Nil, w.ID)

	got, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laptop", got.ProductName)
	assert.Equal(t, domain.NewDate(2024, 1, 1), got.PurchaseDate)
	assert.Equal(t, domain.NewDate(2026, 1, 1), got.WarrantyExpires)
	require.NotNil(t, got.Brand)
	assert.Equal(t, "Acme", *got.Brand)
	require.NotNil(t, got.Price)
	assert.InDelta(t, 499.99, *got.Price, 0.001)
	assert.Nil(t, got.Store)
	assert.Nil(t, got.ReceiptPath)
}

func TestWarrantyRepository_OwnerScoping(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewWarrantyRepository(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	stranger, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	w := testutil.NewWarrantyBuilder().WithOwner(owner).Build(t, testDB.DB)

	_, err := repo.GetForOwner(ctx, w.ID, stranger.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := repo.GetForOwner(ctx, w.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, w.ID, got.ID)

	list, err := repo.ListByOwner(ctx, stranger.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	deleted, err := repo.Delete(ctx, w.ID, stranger.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.Delete(ctx, w.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.GetByID(ctx, w.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWarrantyRepository_ListExpiringOn(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewWarrantyRepository(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	target := domain.NewDate(2025, 6, 15)

	match := testutil.NewWarrantyBuilder().WithOwner(owner).WithExpires(target).Build(t, testDB.DB)
	testutil.NewWarrantyBuilder().WithOwner(owner).WithExpires(target.AddDays(-1)).Build(t, testDB.DB)
	testutil.NewWarrantyBuilder().WithOwner(owner).WithExpires(target.AddDays(1)).Build(t, testDB.DB)
	testutil.NewWarrantyBuilder().WithOwner(other).WithExpires(target).Build(t, testDB.DB)

	got, err := repo.ListExpiringOn(ctx, owner.ID, target)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, match.ID, got[0].ID)

	between, err := repo.ListExpiringBetween(ctx, owner.ID, target.AddDays(-1), target)
	require.NoError(t, err)
	require.Len(t, between, 2)
	assert.Equal(t, target.AddDays(-1), between[0].WarrantyExpires)
	assert.Equal(t, target, between[1].WarrantyExpires)
}

func TestWarrantyRepository_TransferOwnership(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewWarrantyRepository(testDB.DB)
	ctx := context.Background()

	from, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	to, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	w := testutil.NewWarrantyBuilder().WithOwner(from).Build(t, testDB.DB)

	moved, err := repo.TransferOwnership(ctx, w.ID, from.ID, to.ID)
	require.NoError(t, err)
	assert.True(t, moved)

	// from no longer owns it
	moved, err = repo.TransferOwnership(ctx, w.ID, from.ID, from.ID)
	require.NoError(t, err)
	assert.False(t, moved)

	got, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, to.ID, got.UserID)
}

func TestWarrantyRepository_Update(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewWarrantyRepository(testDB.DB)
	ctx := context.Background()

	t.Run("writes editable fields and clears optionals", func(t *testing.T) {
		owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		w := testutil.NewWarrantyBuilder().WithOwner(owner).WithBrand("Acme").Build(t, testDB.DB)

		stale, err := repo.GetForOwner(ctx, w.ID, owner.ID)
		require.NoError(t, err)
		require.NoError(t, stale.Apply(domain.WarrantyInput{
			ProductName:     "Renamed",
			PurchaseDate:    stale.PurchaseDate,
			WarrantyExpires: stale.WarrantyExpires.AddDays(30),
		}))
		require.NoError(t, repo.Update(ctx, stale))

		got, err := repo.GetByID(ctx, w.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.ProductName)
		assert.Equal(t, w.WarrantyExpires.AddDays(30), got.WarrantyExpires)
		assert.Nil(t, got.Brand)
		assert.Equal(t, owner.ID, got.UserID)
	})

	t.Run("stale copy cannot undo a transfer", func(t *testing.T) {
		from, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		to, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		w := testutil.NewWarrantyBuilder().WithOwner(from).Build(t, testDB.DB)

		stale, err := repo.GetForOwner(ctx, w.ID, from.ID)
		require.NoError(t, err)

		moved, err := repo.TransferOwnership(ctx, w.ID, from.ID, to.ID)
		require.NoError(t, err)
		require.True(t, moved)

		stale.ProductName = "Edited by previous owner"
		err = repo.Update(ctx, stale)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		got, err := repo.GetByID(ctx, w.ID)
		require.NoError(t, err)
		assert.Equal(t, to.ID, got.UserID)
		assert.Equal(t, w.ProductName, got.ProductName)
	})

	t.Run("deleted row is not recreated", func(t *testing.T) {
		owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		w := testutil.NewWarrantyBuilder().WithOwner(owner).Build(t, testDB.DB)

		stale, err := repo.GetForOwner(ctx, w.ID, owner.ID)
		require.NoError(t, err)
		deleted, err := repo.Delete(ctx, w.ID, owner.ID)
		require.NoError(t, err)
		require.True(t, deleted)

		assert.ErrorIs(t, repo.Update(ctx, stale), repository.ErrNotFound)

		_, err = repo.GetByID(ctx, w.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}
