package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/config"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/infra/memory"
	pgstore "vocab-quiz-service/internal/infra/postgres"
	rediscache "vocab-quiz-service/internal/infra/redis"
	"vocab-quiz-service/internal/quizgen"
	transport "vocab-quiz-service/internal/transport/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

// NewServeCmd builds the CLI subcommand to start the platform server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the vocabulary quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// loadConfigOrDefault treats a missing config file as an empty config so the
// server can come up in memory mode with no setup at all.
func loadConfigOrDefault(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config.Config{}, nil
		}
		return config.Config{}, err
	}
	return cfg, nil
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := loadConfigOrDefault(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	secret := cfg.Auth.Secret
	if secret == "" {
		secret = "dev-secret-change-me"
		log.Printf("auth secret not configured, using development default")
	}
	tokenTTL := config.TTLDuration(cfg.Auth.TokenTTL, 12*time.Hour)

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	cacheTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var users app.UserAdminRepository
	var books app.WordbookRepository
	var exams app.ExamRepository
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store := pgstore.NewStore(pool)
		users, books, exams = store, store, store
	} else {
		store := memory.NewStore()
		seedDemoData(store)
		users, books, exams = store, store, store
		log.Printf("no postgres url configured, serving demo data from memory")
	}

	var reader app.WordbookReader
	if redisClient != nil {
		reader = rediscache.NewWordbookCache(redisClient, books, cacheTTL)
	} else {
		reader = memory.NewWordbookCache(books, cacheTTL)
	}

	authService := app.NewAuthService(users, []byte(secret), tokenTTL)
	feed := app.NewResultFeed()
	examService := app.NewExamService(users, reader, exams, quizgen.New(), feed)
	wordbookService := app.NewWordbookService(books)
	userService := app.NewUserService(users)

	handler := transport.NewHandler(authService, userService, wordbookService, examService)
	wsHandler := transport.NewWSHandler(authService, feed)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)
	mux.HandleFunc("/ws/results", wsHandler.ServeWS)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      corsHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting vocab quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// seedDemoData fills the in-memory store with accounts and a wordbook so the
// quiz and study commands have something to run against out of the box.
func seedDemoData(store *memory.Store) {
	hash, err := app.HashPassword("password")
	if err != nil {
		log.Printf("seed demo data: %v", err)
		return
	}
	teacher := store.AddUser(domain.User{Username: "teacher", Name: "Demo Teacher", Role: domain.RoleTeacher, PasswordHash: hash})
	student := store.AddUser(domain.User{Username: "student", Name: "Demo Student", Role: domain.RoleStudent, PasswordHash: hash})

	book, err := store.CreateWordbook(context.Background(), domain.Wordbook{
		Title:       "Everyday Words",
		Description: "Starter vocabulary for new students",
		OwnerID:     teacher.ID,
		Words:       demoWords(),
	})
	if err != nil {
		log.Printf("seed demo data: %v", err)
		return
	}
	store.AssignStudent(book.ID, student.ID)
	log.Printf("seeded demo wordbook %d for users teacher/student (password: password)", book.ID)
}

func demoWords() []domain.Word {
	return []domain.Word{
		{Text: "apple", Meaning: "사과", PartOfSpeech: "noun", Example: "She ate an apple."},
		{Text: "run", Meaning: "달리다", PartOfSpeech: "verb", Example: "I run every morning."},
		{Text: "bright", Meaning: "밝은", PartOfSpeech: "adjective", Example: "The room was bright."},
		{Text: "river", Meaning: "강", PartOfSpeech: "noun", Example: "The river flows east."},
		{Text: "quietly", Meaning: "조용히", PartOfSpeech: "adverb", Example: "He spoke quietly."},
		{Text: "borrow", Meaning: "빌리다", PartOfSpeech: "verb", Example: "May I borrow a pen?"},
	}
}
