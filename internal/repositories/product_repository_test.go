package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"shopkart/internal/models"
	"shopkart/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB opens a private in-memory SQLite database for a single test.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.User{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func repositoriesUnderTest(t *testing.T) map[string]repositories.ProductRepository {
	return map[string]repositories.ProductRepository{
		"gorm":   repositories.NewGORMProductRepository(openTestDB(t)),
		"memory": repositories.NewMemoryProductRepository(),
	}
}

func newTestProduct(t *testing.T, name string) *models.Product {
	t.Helper()
	p, err := models.NewProduct(name, "This is a test product", 99.99, "https://example.com/image.jpg")
	require.NoError(t, err)
	return p
}

func TestProductRepository_SaveAssignsIDAndRoundTrips(t *testing.T) {
	for name, repo := range repositoriesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := newTestProduct(t, "Test Product")
			require.NoError(t, repo.Save(ctx, p))
			assert.NotZero(t, p.ID)

			found, ok, err := repo.FindByID(ctx, p.ID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.True(t, p.Equal(*found))

			second := newTestProduct(t, "Second Product")
			require.NoError(t, repo.Save(ctx, second))
			assert.Greater(t, second.ID, p.ID)
		})
	}
}

func TestProductRepository_SaveUpdatesExisting(t *testing.T) {
	for name, repo := range repositoriesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := newTestProduct(t, "Test Product")
			require.NoError(t, repo.Save(ctx, p))

			p.Price = 0
			p.Name = "Renamed Product"
			require.NoError(t, repo.Save(ctx, p))

			found, ok, err := repo.FindByID(ctx, p.ID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, 0.0, found.Price)
			assert.Equal(t, "Renamed Product", found.Name)
		})
	}
}

func TestProductRepository_SaveMissingID(t *testing.T) {
	for name, repo := range repositoriesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			p := newTestProduct(t, "Ghost Product")
			p.ID = 404
			err := repo.Save(context.Background(), p)
			assert.True(t, errors.Is(err, models.ErrProductNotFound))
		})
	}
}

func TestProductRepository_FindAllOrdered(t *testing.T) {
	for name, repo := range repositoriesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			all, err := repo.FindAll(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)

			for _, n := range []string{"Laptop", "Keyboard", "Mouse pad"} {
				require.NoError(t, repo.Save(ctx, newTestProduct(t, n)))
			}
			all, err = repo.FindAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "Laptop", all[0].Name)
			assert.Equal(t, "Mouse pad", all[2].Name)
			assert.Less(t, all[0].ID, all[1].ID)
		})
	}
}

func TestProductRepository_FindByName(t *testing.T) {
	for name, repo := range repositoriesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := newTestProduct(t, "Keyboard")
			require.NoError(t, repo.Save(ctx, p))

			found, ok, err := repo.FindByName(ctx, "Keyboard")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, p.ID, found.ID)

			_, ok, err = repo.FindByName(ctx, "keyboard")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestProductRepository_ExistsAndDelete(t *testing.T) {
	for name, repo := range repositoriesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := newTestProduct(t, "Keyboard")
			require.NoError(t, repo.Save(ctx, p))

			exists, err := repo.ExistsByID(ctx, p.ID)
			require.NoError(t, err)
			assert.True(t, exists)

			removed, err := repo.DeleteByID(ctx, p.ID)
			require.NoError(t, err)
			assert.True(t, removed)

			exists, err = repo.ExistsByID(ctx, p.ID)
			require.NoError(t, err)
			assert.False(t, exists)

			_, ok, err := repo.FindByID(ctx, p.ID)
			require.NoError(t, err)
			assert.False(t, ok)

			removed, err = repo.DeleteByID(ctx, p.ID)
			assert.NoError(t, err)
			assert.False(t, removed)
		})
	}
}

func TestGORMUserRepository(t *testing.T) {
	repo := repositories.NewGORMUserRepository(openTestDB(t))
	ctx := context.Background()

	user := &models.User{Username: "operator", Email: "ops@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)

	byName, err := repo.GetByUsername(ctx, "operator")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.GetByEmail(ctx, "ops@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "operator", byID.Username)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.True(t, errors.Is(err, repositories.ErrUserNotFound))
}
