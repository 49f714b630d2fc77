package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/erp/amazon-sync/internal/domain/shared"
)

// newMockDB creates a GORM DB backed by a mocked SQL connection
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormSettingsRepository_Get(t *testing.T) {
	t.Run("returns the settings record", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSettingsRepository(gormDB)

		rows := sqlmock.NewRows([]string{"id", "enabled", "refresh_token", "lwa_client_id", "lwa_client_secret", "endpoint", "marketplace_id", "sales_person"}).
			AddRow(1, true, "refresh", "client", "secret", "https://sellingpartnerapi-eu.amazon.com", "A1PA6795UKMFR9", "Amazon Sales Team")

		mock.ExpectQuery(`SELECT \* FROM "amazon_settings" ORDER BY id,.* LIMIT .*`).
			WillReturnRows(rows)

		settings, err := repo.Get(context.Background())

		require.NoError(t, err)
		assert.True(t, settings.Enabled)
		assert.Equal(t, "refresh", settings.RefreshToken)
		assert.Equal(t, "A1PA6795UKMFR9", settings.MarketplaceID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when unconfigured", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSettingsRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "amazon_settings"`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.Get(context.Background())

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
