package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/client"
	"vocab-quiz-service/internal/domain"
	pgstore "vocab-quiz-service/internal/infra/postgres"
	pgmigrations "vocab-quiz-service/internal/infra/postgres/migrations"
	infraredis "vocab-quiz-service/internal/infra/redis"
	"vocab-quiz-service/internal/quizgen"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestQuizLifecycleEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	runMigrations(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()
	store := pgstore.NewStore(pool)

	hash, err := app.HashPassword("pw")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	teacher, err := store.CreateUser(ctx, domain.User{Username: "t-kim", Name: "Kim", Role: domain.RoleTeacher, PasswordHash: hash})
	if err != nil {
		t.Fatalf("create teacher: %v", err)
	}
	student, err := store.CreateUser(ctx, domain.User{Username: "s-lee", Name: "Lee", Role: domain.RoleStudent, PasswordHash: hash})
	if err != nil {
		t.Fatalf("create student: %v", err)
	}

	book, err := store.CreateWordbook(ctx, domain.Wordbook{
		Title:   "unit 1",
		OwnerID: teacher.ID,
		Words: []domain.Word{
			{Text: "apple", Meaning: "사과"},
			{Text: "river", Meaning: "강"},
			{Text: "run", Meaning: "달리다"},
			{Text: "bright", Meaning: "밝은"},
			{Text: "borrow", Meaning: "빌리다"},
		},
	})
	if err != nil {
		t.Fatalf("create wordbook: %v", err)
	}
	if err := store.AssignStudent(ctx, book.ID, student.ID); err != nil {
		t.Fatalf("assign student: %v", err)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	cache := infraredis.NewWordbookCache(redisClient, store, 5*time.Minute)

	feed := app.NewResultFeed()
	exams := app.NewExamService(store, cache, store, quizgen.New(), feed)

	session, err := exams.StartSession(ctx, student, book.ID)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	questions, err := exams.BuildQuiz(ctx, student, book.ID)
	if err != nil {
		t.Fatalf("build quiz: %v", err)
	}
	if len(questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(questions))
	}

	// Drive the client flow against the services directly: answer the first
	// question wrong, the rest right, for 80%.
	flow := client.NewQuizFlow(serviceAPI{exams: exams, student: student, session: session})
	if err := flow.Start(ctx, book.ID); err != nil {
		t.Fatalf("flow start: %v", err)
	}
	for i := 0; i < 5; i++ {
		q, err := flow.Current()
		if err != nil {
			t.Fatalf("current: %v", err)
		}
		candidate := q.Answer
		if i == 0 {
			candidate = "definitely wrong"
		}
		if _, _, err := flow.Submit(candidate); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	updates, cancel := feed.Subscribe()
	defer cancel()

	result, err := flow.Finish(ctx)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if result.Percent != 80 || !result.Recorded {
		t.Fatalf("unexpected finish result %+v", result)
	}

	select {
	case update := <-updates:
		if update.SessionID != session.ID || update.Score != 80 {
			t.Fatalf("unexpected feed update %+v", update)
		}
	case <-time.After(time.Second):
		t.Fatalf("no feed update received")
	}

	// The duplicate guard holds at the database level.
	if _, err := exams.RecordResult(ctx, student, session.ID, 80); err != domain.ErrDuplicateResult {
		t.Fatalf("expected ErrDuplicateResult, got %v", err)
	}

	report, err := exams.StudentReport(ctx, teacher, student.ID)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report.Results) != 1 || report.AverageScore != 80 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Results[0].WordbookTitle != "unit 1" {
		t.Fatalf("result missing wordbook title: %+v", report.Results[0])
	}
}

// serviceAPI adapts the exam service to the client's API so the flow can be
// exercised without an HTTP hop.
type serviceAPI struct {
	exams   *app.ExamService
	student domain.User
	session domain.ExamSession
}

func (a serviceAPI) CreateSession(ctx context.Context, wordbookID int64) (string, error) {
	return a.session.ID, nil
}

func (a serviceAPI) FetchQuestions(ctx context.Context, wordbookID int64) ([]domain.Question, error) {
	return a.exams.BuildQuiz(ctx, a.student, wordbookID)
}

func (a serviceAPI) SubmitScore(ctx context.Context, sessionID string, score float64) error {
	_, err := a.exams.RecordResult(ctx, a.student, sessionID, score)
	return err
}

func runMigrations(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "vocab", "POSTGRES_PASSWORD": "vocabpass", "POSTGRES_DB": "vocabdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://vocab:vocabpass@%s:%s/vocabdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
