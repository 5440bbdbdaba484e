package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/P4t4m8n/buff-buddy-api/internal/models"
)

var (
	testDBOnce sync.Once
	testDBPool *pgxpool.Pool
	testDBErr  error
)

func TestProgramRepositoryAggregateRoundTrip(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	repo := NewProgramRepository(pool)

	ownerID := createTestUser(t, ctx, pool)
	exercise := createTestExercise(t, ctx, pool)
	t.Cleanup(func() { cleanupTestRows(t, ctx, pool, ownerID, exercise.ID) })

	var programID, programExerciseID string
	err := repo.WithTx(ctx, func(store ProgramStore) error {
		program, err := store.CreateProgram(ctx, ownerID, models.NewProgram{
			Name:      "Push day",
			IsActive:  true,
			StartDate: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			return err
		}
		programID = program.ID

		programExerciseID, err = store.CreateProgramExercise(ctx, programID, models.NewProgramExercise{
			ExerciseID: exercise.ID,
			Order:      1,
			IsActive:   true,
			DaysOfWeek: []string{"monday", "thursday"},
		})
		if err != nil {
			return err
		}

		for order := 1; order <= 2; order++ {
			if _, err := store.CreateCoreSet(ctx, programExerciseID, models.NewCoreSet{
				Reps:     10,
				Weight:   42.5,
				RestTime: 90,
				Order:    order,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTx create: %v", err)
	}

	aggregate, err := repo.GetAggregate(ctx, programID)
	if err != nil {
		t.Fatalf("GetAggregate: %v", err)
	}
	if len(aggregate.ProgramExercises) != 1 {
		t.Fatalf("expected 1 program exercise, got %d", len(aggregate.ProgramExercises))
	}
	child := aggregate.ProgramExercises[0]
	if child.Exercise == nil || child.Exercise.Name != exercise.Name {
		t.Fatalf("expected joined exercise %q, got %+v", exercise.Name, child.Exercise)
	}
	if len(child.CoreSets) != 2 || child.CoreSets[0].Order != 1 || child.CoreSets[1].Weight != 42.5 {
		t.Fatalf("unexpected core sets: %+v", child.CoreSets)
	}

	matches, err := repo.ListPrograms(ctx, models.ProgramFilter{
		OwnerID:         &ownerID,
		ExerciseMuscles: []string{"chest"},
		Limit:           models.PageSize,
	})
	if err != nil {
		t.Fatalf("ListPrograms: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != programID {
		t.Fatalf("expected program %s in listing, got %+v", programID, matches)
	}

	if err := repo.DeleteProgram(ctx, programID); err != nil {
		t.Fatalf("DeleteProgram: %v", err)
	}
	var orphans int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM program_exercises WHERE id = $1`, programExerciseID).Scan(&orphans); err != nil {
		t.Fatalf("count children: %v", err)
	}
	if orphans != 0 {
		t.Fatalf("expected children to cascade, found %d", orphans)
	}
}

func TestProgramRepositoryScopesChildrenAndRollsBack(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	repo := NewProgramRepository(pool)

	ownerID := createTestUser(t, ctx, pool)
	exercise := createTestExercise(t, ctx, pool)
	t.Cleanup(func() { cleanupTestRows(t, ctx, pool, ownerID, exercise.ID) })

	newProgram := models.NewProgram{
		Name:      "Pull day",
		StartDate: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	first, err := repo.CreateProgram(ctx, ownerID, newProgram)
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	second, err := repo.CreateProgram(ctx, ownerID, newProgram)
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	childID, err := repo.CreateProgramExercise(ctx, first.ID, models.NewProgramExercise{
		ExerciseID: exercise.ID,
		Order:      1,
	})
	if err != nil {
		t.Fatalf("CreateProgramExercise: %v", err)
	}

	order := 2
	err = repo.UpdateProgramExercise(ctx, second.ID, childID, models.ProgramExercisePatch{Order: &order})
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected ErrNoRows for a child of another program, got %v", err)
	}
	if err := repo.DeleteProgramExercise(ctx, second.ID, childID); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected scoped delete to miss, got %v", err)
	}

	rename := "Renamed"
	failure := errors.New("abort")
	err = repo.WithTx(ctx, func(store ProgramStore) error {
		if err := store.UpdateProgram(ctx, first.ID, models.ProgramPatch{Name: &rename}); err != nil {
			return err
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected abort error, got %v", err)
	}

	stored, err := repo.GetProgram(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetProgram: %v", err)
	}
	if stored.Name != newProgram.Name {
		t.Fatalf("expected rollback to keep %q, got %q", newProgram.Name, stored.Name)
	}
}

func TestWithTxRequiresTransactionalHandle(t *testing.T) {
	repo := NewProgramRepository(nil)
	err := repo.WithTx(context.Background(), func(ProgramStore) error { return nil })
	if !errors.Is(err, ErrTxUnsupported) {
		t.Fatalf("expected ErrTxUnsupported, got %v", err)
	}
}

func integrationTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	testDBOnce.Do(func() {
		_ = godotenv.Load(".env")
		_ = godotenv.Load(filepath.Join("..", "..", ".env"))

		dbURL := os.Getenv("DB_URL")
		if dbURL == "" {
			testDBErr = fmt.Errorf("DB_URL is not set")
			return
		}

		cfg, err := pgxpool.ParseConfig(dbURL)
		if err != nil {
			testDBErr = err
			return
		}

		testDBPool, testDBErr = pgxpool.NewWithConfig(context.Background(), cfg)
		if testDBErr != nil {
			return
		}
		testDBErr = testDBPool.Ping(context.Background())
	})

	if testDBErr != nil {
		t.Skipf("skipping integration test: %v", testDBErr)
	}
	return testDBPool
}

func createTestUser(t *testing.T, ctx context.Context, pool *pgxpool.Pool) string {
	t.Helper()

	hash := "test-hash"
	user := &models.User{
		Email:        fmt.Sprintf("program-test-%d@example.com", time.Now().UnixNano()),
		PasswordHash: &hash,
	}
	if err := NewUserRepository(pool).CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user.ID
}

func createTestExercise(t *testing.T, ctx context.Context, pool *pgxpool.Pool) *models.Exercise {
	t.Helper()

	exercise, err := NewExerciseRepository(pool).Create(ctx, models.NewExercise{
		Name:       fmt.Sprintf("Bench press %d", time.Now().UnixNano()),
		YoutubeURL: "https://www.youtube.com/watch?v=test",
		Types:      []string{"strength"},
		Equipment:  []string{"barbell"},
		Muscles:    []string{"chest", "triceps"},
	})
	if err != nil {
		t.Fatalf("Create exercise: %v", err)
	}
	return exercise
}

func cleanupTestRows(t *testing.T, ctx context.Context, pool *pgxpool.Pool, userID, exerciseID string) {
	t.Helper()

	if _, err := pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		t.Fatalf("cleanup user: %v", err)
	}
	if _, err := pool.Exec(ctx, `DELETE FROM exercises WHERE id = $1`, exerciseID); err != nil {
		t.Fatalf("cleanup exercise: %v", err)
	}
}
