package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/quizzer/backend/internal/auth"
	"github.com/quizzer/backend/internal/database"
	"github.com/quizzer/backend/internal/generator"
	"github.com/quizzer/backend/internal/history"
	"github.com/quizzer/backend/internal/llm"
	"github.com/quizzer/backend/internal/middleware"
	"github.com/quizzer/backend/internal/pdfchat"
	"github.com/quizzer/backend/internal/quiz"
	"github.com/quizzer/backend/internal/resources"
)

func main() {
	// .env is optional; real deployments set the environment directly
	godotenv.Load()

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Quiz progress store: Redis when configured, in-memory otherwise
	var snapshotStore quiz.SnapshotStore
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisStore, err := quiz.NewRedisStore(addr, os.Getenv("REDIS_PASSWORD"), 0)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		snapshotStore = redisStore
		log.Println("Quiz progress stored in Redis at", addr)
	} else {
		snapshotStore = quiz.NewMemoryStore()
		log.Println("REDIS_ADDR not set, quiz progress stored in memory")
	}

	// Object storage for the resource library
	storage, err := resources.NewMinioStorageFromEnv()
	if err != nil {
		log.Fatalf("Failed to configure object storage: %v", err)
	}
	if err := storage.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("Failed to ensure storage bucket: %v", err)
	}

	// Initialize services and handlers
	llmClient := llm.NewFromEnv()
	historyStore := history.NewStore(db)

	authHandler := auth.NewHandler(db)
	quizService := quiz.NewService(generator.New(llmClient), snapshotStore, historyStore)
	quizHandler := quiz.NewHandler(quizService)
	historyHandler := history.NewHandler(historyStore)
	resourceHandler := resources.NewHandler(resources.NewStore(db), storage)
	pdfHandler := pdfchat.NewHandler(pdfchat.NewChatService(llmClient))

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	protected.HandleFunc("/quiz/start", quizHandler.Start).Methods("POST")
	protected.HandleFunc("/quiz/answer", quizHandler.SubmitAnswer).Methods("POST")
	protected.HandleFunc("/quiz/session", quizHandler.GetSession).Methods("GET")
	protected.HandleFunc("/quiz/reassess", quizHandler.Reassess).Methods("POST")
	protected.HandleFunc("/quiz/restart", quizHandler.Restart).Methods("POST")

	protected.HandleFunc("/history", historyHandler.List).Methods("GET")
	protected.HandleFunc("/history/{id}", historyHandler.Get).Methods("GET")

	protected.HandleFunc("/resources", resourceHandler.List).Methods("GET")
	protected.HandleFunc("/resources", resourceHandler.Upload).Methods("POST")
	protected.HandleFunc("/resources/{id}/thumbnail", resourceHandler.Thumbnail).Methods("GET")

	protected.HandleFunc("/pdf/extract", pdfHandler.Extract).Methods("POST")
	protected.HandleFunc("/pdf/chat", pdfHandler.Chat).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
