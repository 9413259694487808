package main

import (
	_ "embed"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"storefront-backend/handler"
	"storefront-backend/metrics"
	"storefront-backend/payment"
	"storefront-backend/service"
	"storefront-backend/store"
)

//go:embed migrations.sql
var migrationSQL string

type config struct {
	Port             string
	DatabaseURL      string
	PaymentAPIURL    string
	PaymentSecretKey string
	PaymentTimeout   time.Duration
	FrontendURL      string
	PublicBaseURL    string
}

func readConfig() (config, error) {
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if db == "" {
		return config{}, errors.New("DATABASE_URL is required")
	}
	paymentURL := strings.TrimSpace(os.Getenv("PAYMENT_API_URL"))
	if paymentURL == "" {
		return config{}, errors.New("PAYMENT_API_URL is required")
	}
	timeoutMS, _ := strconv.Atoi(getenv("PAYMENT_TIMEOUT_MS", "5000"))

	return config{
		Port:             getenv("PORT", "8000"),
		DatabaseURL:      db,
		PaymentAPIURL:    strings.TrimRight(paymentURL, "/"),
		PaymentSecretKey: os.Getenv("PAYMENT_SECRET_KEY"),
		PaymentTimeout:   time.Duration(timeoutMS) * time.Millisecond,
		FrontendURL:      strings.TrimRight(getenv("FRONTEND_URL", "http://localhost:3000"), "/"),
		PublicBaseURL:    strings.TrimRight(getenv("PUBLIC_BASE_URL", "http://localhost:8000"), "/"),
	}, nil
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func main() {
	cfg, err := readConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	st, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connection failed: %v", err)
	}
	defer st.Close()

	if _, err := st.DB.Exec(migrationSQL); err != nil {
		log.Fatalf("failed running migrations: %v", err)
	}
	log.Println("database migrations executed")

	m := metrics.New(prometheus.DefaultRegisterer)
	provider := payment.NewClient(cfg.PaymentAPIURL, cfg.PaymentSecretKey, cfg.PaymentTimeout)
	svc := service.NewService(st, provider, service.Config{
		FrontendURL:   cfg.FrontendURL,
		PublicBaseURL: cfg.PublicBaseURL,
	}, m)

	h := handler.NewHandler(svc, handler.NewHeaderAuth())

	r := mux.NewRouter()
	h.RegisterRoutes(r)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("server running on :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
