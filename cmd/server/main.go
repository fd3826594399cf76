// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/unclebandit/zapblast-backend/internal/controller"
	"github.com/unclebandit/zapblast-backend/internal/events"
	"github.com/unclebandit/zapblast-backend/internal/logring"
	"github.com/unclebandit/zapblast-backend/internal/service"
	"github.com/unclebandit/zapblast-backend/internal/transport"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	ring := logring.New(envInt("LOG_CAPACITY", logring.DefaultCapacity))

	var sender transport.Sender
	if os.Getenv("WHATSAPP_ENABLED") == "true" {
		driver := envStr("WHATSAPP_DB_DRIVER", "sqlite3")
		dsn := envStr("WHATSAPP_DB_DSN", "file:whatsapp-session.db?_foreign_keys=on")
		wa, err := transport.NewWhatsAppSender(context.Background(), driver, dsn)
		if err != nil {
			log.Fatalf("failed to init whatsapp client: %v", err)
		}
		defer wa.Disconnect()
		sender = wa
	} else {
		sender = transport.NewSimulatedSender(envFloat("SIM_FAILURE_RATE", 0.05))
		log.Println("⚠️ WHATSAPP_ENABLED is not true, using the simulated sender")
	}

	var publisher *events.Publisher
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		p, err := events.Connect(url)
		if err != nil {
			log.Println("⚠️ RabbitMQ unavailable, delivery events disabled:", err)
		} else {
			publisher = p
			defer publisher.Close()
		}
	}

	campaignService := &service.CampaignService{
		Sender: sender,
		Log:    ring,
		Events: publisher,
	}

	campaignController := &controller.CampaignController{
		Service:   campaignService,
		Log:       ring,
		StartedAt: time.Now(),
	}

	r := chi.NewRouter()
	r.Use(controller.Recoverer)

	r.Get("/health", campaignController.Health)
	r.Post("/api/connect", campaignController.Connect)
	r.Get("/api/status", campaignController.Status)
	r.Post("/api/upload-csv", campaignController.UploadCSV)
	r.Post("/api/start-sending", campaignController.StartSending)
	r.Post("/api/stop-sending", campaignController.StopSending)
	r.Get("/api/logs", campaignController.Logs)
	r.NotFound(staticOr404("public", campaignController.NotFound))

	port := envStr("PORT", "8080")
	log.Println("🚀 Server running on :" + port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}

// staticOr404 serves the polling web client out of dir when the requested
// file exists, and falls back to the JSON 404 otherwise.
func staticOr404(dir string, notFound http.HandlerFunc) http.HandlerFunc {
	fs := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/" {
			path = "/index.html"
		}
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(path))); err != nil {
			notFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
