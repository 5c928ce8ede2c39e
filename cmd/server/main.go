package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/auth"
	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/config"
	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/db"
	routes "github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/http"
	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/store"
	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	database, err := db.Init(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	log.Println("Running database migrations...")
	if err := db.Migrate(database); err != nil {
		log.Fatalf("%v", err)
	}
	log.Println("Migrations complete.")

	st := store.New(database)
	ctx := context.Background()
	created, err := st.EnsureDefaultAdmin(ctx)
	if err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}
	if created {
		log.Printf("Seeded default admin %q; change its password after first login", store.DefaultAdminUsername)
	}
	if _, err := st.GetSettings(ctx); err != nil {
		log.Fatalf("Failed to load voting settings: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	appCtx, stop := context.WithCancel(context.Background())
	defer stop()

	router := gin.New()
	routes.SetupRoutes(appCtx, router, &routes.Env{
		Store: st,
		Hub:   hub,
		Auth:  auth.NewManager(cfg.JWTSecret, cfg.SessionTTL),
	}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server exiting")
}
