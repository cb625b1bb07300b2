package database

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/AhemdNada/alx-company/internal/domain"
)

var (
	testPool        *pgxpool.Pool
	testDatabaseURL string
)

func TestMain(m *testing.M) {
	flag.Parse()

	// Skip container setup if running in short mode
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start postgres container: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to terminate postgres container: %v\n", err)
		}
	}()

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get connection string: %v\n", err)
		os.Exit(1)
	}
	testDatabaseURL = connStr

	testPool, err = Connect(ctx, testDatabaseURL, 5)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to test database: %v\n", err)
		os.Exit(1)
	}
	defer testPool.Close()

	if err := RunMigrations(ctx, testPool); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// setupTestDB returns the shared pool and registers cleanup that truncates
// every content table.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	t.Cleanup(func() {
		ctx := context.Background()
		_, err := testPool.Exec(ctx, "TRUNCATE sharing_rates, chairmen, news, news_ticker, projects, contacts RESTART IDENTITY CASCADE")
		if err != nil {
			t.Logf("Failed to truncate tables: %v", err)
		}
	})

	return testPool
}

func TestRunMigrationsIdempotency(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	require.NoError(t, RunMigrations(ctx, testPool))
	require.NoError(t, RunMigrations(ctx, testPool))
}

func TestSharingRateLifecycle(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewSharingRateRepo(pool)
	ctx := context.Background()

	created, err := repo.Create(ctx, "Government share", 55.5)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	updated, err := repo.Update(ctx, created.ID, "Government share", 60)
	require.NoError(t, err)
	assert.Equal(t, 60.0, updated.Percentage)

	_, err = repo.Update(ctx, created.ID+100, "ghost", 10)
	assert.ErrorIs(t, err, domain.ErrSharingRateNotFound)

	require.NoError(t, repo.Delete(ctx, created.ID))
	require.NoError(t, repo.Delete(ctx, created.ID), "second delete must be a no-op")

	rates, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rates)
}

func TestChairmanFeaturedFlagIsExclusive(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewChairmanRepo(pool)
	ctx := context.Background()

	first, err := repo.Create(ctx, domain.ChairmanFields{Name: "First", IsFeatured: true})
	require.NoError(t, err)
	assert.True(t, first.IsFeatured)

	second, err := repo.Create(ctx, domain.ChairmanFields{Name: "Second", IsFeatured: true})
	require.NoError(t, err)
	assert.True(t, second.IsFeatured)

	chairmen, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, chairmen, 2)

	featured := 0
	for _, c := range chairmen {
		if c.IsFeatured {
			featured++
		}
	}
	assert.Equal(t, 1, featured, "exactly one chairman may be featured")

	// Flipping the flag back via update moves it again.
	_, err = repo.Update(ctx, first.ID, domain.ChairmanFields{Name: "First", IsFeatured: true})
	require.NoError(t, err)

	refreshed, err := repo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, refreshed.IsFeatured)
}

func TestNewsImageReconciliation(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewNewsRepo(pool)
	ctx := context.Background()

	item, err := repo.Create(ctx, domain.NewsFields{Title: "Expansion", Content: "body"}, []domain.NewNewsImage{
		{URL: "/uploads/a.png", Orientation: domain.OrientationHorizontal},
		{URL: "/uploads/b.png", Orientation: domain.OrientationVertical},
		{URL: "/uploads/c.png", Orientation: domain.OrientationHorizontal},
	})
	require.NoError(t, err)
	require.Len(t, item.Images, 3)

	// Keep A and C, add D: final order must be A, C, D and B's URL returned.
	updated, removed, err := repo.Update(ctx, item.ID,
		domain.NewsFields{Title: "Expansion", Content: "body"},
		[]string{"/uploads/a.png", "/uploads/c.png"},
		[]domain.NewNewsImage{{URL: "/uploads/d.png", Orientation: domain.OrientationVertical}},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/b.png"}, removed)

	urls := make([]string, len(updated.Images))
	for i, img := range updated.Images {
		urls[i] = img.URL
		assert.Equal(t, i, img.Position)
	}
	assert.Equal(t, []string{"/uploads/a.png", "/uploads/c.png", "/uploads/d.png"}, urls)

	// Empty keep-set with no new images clears the collection.
	cleared, removed, err := repo.Update(ctx, item.ID,
		domain.NewsFields{Title: "Expansion", Content: "body"}, nil, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/uploads/a.png", "/uploads/c.png", "/uploads/d.png"}, removed)
	assert.Empty(t, cleared.Images)

	urlsFromDelete, err := repo.Delete(ctx, item.ID)
	require.NoError(t, err)
	assert.Empty(t, urlsFromDelete)

	_, err = repo.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNewsItemNotFound)
}

func TestProjectDetailsReplacedWholesale(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewProjectRepo(pool)
	ctx := context.Background()

	project, err := repo.Create(ctx,
		domain.ProjectFields{Title: "Pipeline", Category: domain.CategoryMajorProjects},
		[]string{"/uploads/p1.png"},
		[]domain.DetailFields{{Label: "Length", Value: "120km"}, {Label: "Budget", Value: "$2M"}},
	)
	require.NoError(t, err)
	require.Len(t, project.Details, 2)

	updated, _, err := repo.Update(ctx, project.ID,
		domain.ProjectFields{Title: "Pipeline", Category: domain.CategoryMajorProjects},
		[]string{"/uploads/p1.png"}, nil,
		[]domain.DetailFields{{Label: "Status", Value: "Complete"}},
	)
	require.NoError(t, err)
	require.Len(t, updated.Details, 1)
	assert.Equal(t, "Status", updated.Details[0].Label)

	geo := domain.CategoryGeographicalRegion
	byCategory, err := repo.List(ctx, &geo)
	require.NoError(t, err)
	assert.Empty(t, byCategory)
}

func TestContactFiltersAndStats(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewContactRepo(pool)
	ctx := context.Background()

	first, err := repo.Create(ctx, "Ahmed Salah", "ahmed@example.com", "Careers", "I would like to apply for a position.")
	require.NoError(t, err)
	_, err = repo.Create(ctx, "Mona Ali", "mona@example.com", "Pricing", "Please send me your price list soon.")
	require.NoError(t, err)

	require.NoError(t, repo.SetReplied(ctx, first.ID, true))

	replied := true
	filtered, err := repo.List(ctx, domain.ContactFilter{IsReplied: &replied})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Ahmed Salah", filtered[0].Name)

	searched, err := repo.List(ctx, domain.ContactFilter{Search: "pricing"})
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, "Mona Ali", searched[0].Name)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Unreplied)
	assert.Equal(t, int64(2), stats.Today)

	assert.ErrorIs(t, repo.Delete(ctx, 9999), domain.ErrContactNotFound)
	require.NoError(t, repo.Delete(ctx, first.ID))
}
