package cli

import (
	"context"
	"fmt"
	"log"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/config"
	"vocab-quiz-service/internal/domain"
	pgstore "vocab-quiz-service/internal/infra/postgres"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// NewSeedCmd inserts demo accounts and a starter wordbook into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with demo users and a wordbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runSeed(cmd.Context(), cfg)
		},
	}
}

func runSeed(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()
	store := pgstore.NewStore(pool)

	hash, err := app.HashPassword("password")
	if err != nil {
		return err
	}
	teacher, err := store.CreateUser(ctx, domain.User{Username: "teacher", Name: "Demo Teacher", Role: domain.RoleTeacher, PasswordHash: hash})
	if err != nil {
		return fmt.Errorf("seed teacher: %w", err)
	}
	student, err := store.CreateUser(ctx, domain.User{Username: "student", Name: "Demo Student", Role: domain.RoleStudent, PasswordHash: hash})
	if err != nil {
		return fmt.Errorf("seed student: %w", err)
	}

	book, err := store.CreateWordbook(ctx, domain.Wordbook{
		Title:       "Everyday Words",
		Description: "Starter vocabulary for new students",
		OwnerID:     teacher.ID,
		Words:       demoWords(),
	})
	if err != nil {
		return fmt.Errorf("seed wordbook: %w", err)
	}
	if err := store.AssignStudent(ctx, book.ID, student.ID); err != nil {
		return err
	}

	log.Printf("seeded wordbook %d for users teacher/student (password: password)", book.ID)
	return nil
}
