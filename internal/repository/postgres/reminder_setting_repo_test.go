package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/rokko/warranty-tracker/internal/domain"
	"github.com/rokko/warranty-tracker/internal/repository"
	"github.com/rokko/warranty-tracker/internal/repository/postgres"
	"github.com/rokko/warranty-tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderSettingRepository_Upsert(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewReminderSettingRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	_, err := repo.Get(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Upsert(ctx, &domain.ReminderSetting{
		UserID:       user.ID,
		EmailEnabled: true,
		InAppEnabled: true,
		ReminderDays: 14,
		Locale:       "hr",
		UpdatedAt:    time.Now(),
	}))

	// second write replaces the first, including a zero lead time
	require.NoError(t, repo.Upsert(ctx, &domain.ReminderSetting{
		UserID:       user.ID,
		EmailEnabled: false,
		InAppEnabled: true,
		ReminderDays: 0,
		Locale:       "de",
		UpdatedAt:    time.Now(),
	}))

	got, err := repo.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, got.EmailEnabled)
	assert.True(t, got.InAppEnabled)
	assert.Equal(t, 0, got.ReminderDays)
	assert.Equal(t, "de", got.Locale)

	var count int64
	require.NoError(t, testDB.DB.Model(&domain.ReminderSetting{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReminderSettingRepository_ListEmailEnabled(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewReminderSettingRepository(testDB.DB)
	ctx := context.Background()

	on, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	off, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	for _, s := range []*domain.ReminderSetting{
		{UserID: on.ID, EmailEnabled: true, ReminderDays: 7, Locale: "en"},
		{UserID: off.ID, EmailEnabled: false, ReminderDays: 7, Locale: "en"},
	} {
		require.NoError(t, repo.Upsert(ctx, s))
	}

	got, err := repo.ListEmailEnabled(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, on.ID, got[0].UserID)
}
