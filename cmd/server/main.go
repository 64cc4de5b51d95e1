package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"medicare-api/internal/auth"
	"medicare-api/internal/config"
	"medicare-api/internal/handler"
	"medicare-api/internal/kv"
	"medicare-api/internal/middleware"
	"medicare-api/internal/model"
	"medicare-api/internal/service"
	"medicare-api/internal/store"
)

// defaultDoctors seeds the directory on first run. Replaceable by
// writing the doctors slot directly.
var defaultDoctors = []model.Doctor{
	{ID: "1", Name: "Dr. João Silva", Specialty: "Cardiologista", Image: "https://mighty.tools/mockmind-api/content/human/91.jpg"},
	{ID: "2", Name: "Dra. Maria Santos", Specialty: "Dermatologista", Image: "https://mighty.tools/mockmind-api/content/human/97.jpg"},
	{ID: "3", Name: "Dr. Pedro Oliveira", Specialty: "Oftalmologista", Image: "https://mighty.tools/mockmind-api/content/human/79.jpg"},
}

func main() {
	_ = godotenv.Load()
	log := logrus.New()
	cfg := config.Load(log)

	ctx := context.Background()

	// storage: Postgres when configured, local files otherwise
	var backend kv.Store
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			log.Fatalf("db ping: %v", err)
		}
		pg := kv.NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			log.Fatalf("db migrate: %v", err)
		}
		backend = pg
		log.Info("storing collections in postgres")
	} else {
		file, err := kv.NewFile(cfg.DataDir)
		if err != nil {
			log.Fatalf("data dir: %v", err)
		}
		backend = file
		log.WithField("dir", cfg.DataDir).Info("storing collections on disk")
	}

	st := store.New(backend)
	if err := st.SeedDoctors(ctx, defaultDoctors); err != nil {
		log.Fatalf("seed doctors: %v", err)
	}

	svc := service.New(st, log)
	if err := seedAdmin(ctx, svc, cfg); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	h := handler.New(svc, log, cfg.JWTSecret)

	rl := middleware.NewRateLimiter(5, 10)
	r := handler.Router(h, cfg.JWTSecret, rl, cfg.CORSOrigins)

	reminders, err := service.StartReminderScheduler(svc, cfg.ReminderCron)
	if err != nil {
		log.Fatalf("reminder scheduler: %v", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		log.WithField("port", cfg.Port).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	log.Info("shutting down")

	reminders.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("shutdown")
	}
}

// seedAdmin creates the configured admin account on first run.
func seedAdmin(ctx context.Context, svc *service.Service, cfg *config.Config) error {
	existing, err := svc.UserByEmail(ctx, cfg.AdminEmail)
	if err != nil || existing != nil {
		return err
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	return svc.CreateUser(ctx, model.User{
		ID:           uuid.New().String(),
		Name:         "Administrator",
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		CreatedAt:    time.Now(),
	})
}
