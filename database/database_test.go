package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/models"
)

// setupTestDB connects to TEST_DATABASE_URL and skips when it is unset or unreachable.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration tests")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: NewGormLogger()})
	if err != nil {
		t.Skip("Test database not available, skipping integration tests")
	}
	require.NoError(t, Migrate(db))
	return db
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "postgres://u@h/db", DSN(map[string]string{"DATABASE_URL": "postgres://u@h/db"}))
	assert.Equal(t,
		"host=db user=app password=secret dbname=portfolio port=5433 sslmode=require",
		DSN(map[string]string{
			"DB_HOST":     "db",
			"DB_USER":     "app",
			"DB_PASSWORD": "secret",
			"DB_PORT":     "5433",
			"DB_SSLMODE":  "require",
		}))
}

func TestProjectRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepo(db)
	ctx := context.Background()

	older := &models.Project{Title: "older", Description: "d", Features: []string{"a"}}
	require.NoError(t, repo.Add(ctx, older))
	time.Sleep(10 * time.Millisecond)
	newer := &models.Project{Title: "newer", Description: "d"}
	require.NoError(t, repo.Add(ctx, newer))
	t.Cleanup(func() {
		db.Exec("DELETE FROM projects WHERE id IN ?", []uuid.UUID{older.ID, newer.ID})
	})

	t.Run("find all is newest first", func(t *testing.T) {
		projects, err := repo.FindAll(ctx)
		require.NoError(t, err)

		var order []uuid.UUID
		for _, p := range projects {
			if p.ID == older.ID || p.ID == newer.ID {
				order = append(order, p.ID)
			}
		}
		assert.Equal(t, []uuid.UUID{newer.ID, older.ID}, order)
	})

	t.Run("update overwrites columns", func(t *testing.T) {
		older.Title = "renamed"
		older.SetVideo(models.MediaRef{URL: "https://cdn/v.mp4", PublicID: "portfolio/projects/videos/v"})
		require.NoError(t, repo.Update(ctx, older))

		got, err := repo.FindByID(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Title)
		assert.Equal(t, "portfolio/projects/videos/v", got.CloudinaryVideoPublicID)
		assert.Equal(t, []string{"a"}, []string(got.Features))
	})

	t.Run("validation", func(t *testing.T) {
		err := repo.Add(ctx, &models.Project{Description: "no title"})
		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
		assert.Contains(t, errs.ValidationFields(err), "title")
	})

	t.Run("missing rows", func(t *testing.T) {
		missing := uuid.New()
		_, err := repo.FindByID(ctx, missing)
		assert.True(t, errs.IsNotFound(err))

		err = repo.Update(ctx, &models.Project{ID: missing, Title: "t", Description: "d"})
		assert.True(t, errs.IsNotFound(err))

		assert.True(t, errs.IsNotFound(repo.Delete(ctx, missing)))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, newer.ID))
		_, err := repo.FindByID(ctx, newer.ID)
		assert.True(t, errs.IsNotFound(err))
	})
}

func TestSkillRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSkillRepo(db)
	ctx := context.Background()

	err := repo.Add(ctx, &models.Skill{Name: "Go", Topics: []string{"generics"}})
	require.Error(t, err)
	assert.Equal(t, "image is required", errs.ValidationFields(err)["image"])

	skill := &models.Skill{
		Name:          "Go",
		Topics:        []string{"generics"},
		ImageURL:      "https://cdn/go.png",
		ImagePublicID: "portfolio/skills/go",
	}
	require.NoError(t, repo.Add(ctx, skill))
	t.Cleanup(func() { db.Exec("DELETE FROM skills WHERE id = ?", skill.ID) })

	skill.SetImage(models.MediaRef{})
	require.NoError(t, repo.Update(ctx, skill), "image may be removed on update")

	got, err := repo.FindByID(ctx, skill.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ImageURL)
}

func TestUserRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	user := &models.User{Username: "admin-" + uuid.NewString()[:8], PasswordHash: "hash"}
	require.NoError(t, repo.Add(ctx, user))
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = ?", user.ID) })

	got, err := repo.FindByUsername(ctx, user.Username)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	dup := &models.User{Username: user.Username, PasswordHash: "other"}
	assert.True(t, errs.IsAlreadyExists(repo.Add(ctx, dup)))

	_, err = repo.FindByUsername(ctx, "nobody-"+uuid.NewString())
	assert.True(t, errs.IsNotFound(err))
}
