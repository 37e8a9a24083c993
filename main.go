package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"Raftex/internal/auth"
	"Raftex/internal/batch"
	"Raftex/internal/compliance"
	"Raftex/internal/config"
	"Raftex/internal/ensemble"
	"Raftex/internal/history"
	"Raftex/internal/importer"
	"Raftex/internal/pipeline"
	"Raftex/internal/predict"
	"Raftex/internal/raft"
	"Raftex/internal/repo"
	"Raftex/internal/report"

	"github.com/gorilla/mux"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

// loadService loads both model artifacts once; they are shared read-only
// by every request after this point.
func loadService(cfg config.Config) (*pipeline.Service, error) {
	reinfModel, err := ensemble.LoadFile(cfg.ReinforcementModelPath, raft.NumFeatures)
	if err != nil {
		return nil, err
	}
	structModel, err := ensemble.LoadFile(cfg.StructuralModelPath, raft.NumFeatures)
	if err != nil {
		return nil, err
	}

	reinf, err := predict.NewReinforcementPredictor(reinfModel, predict.SpacingConfig{
		IncrementMM:  cfg.SpacingIncrementMM,
		MinSpacingMM: cfg.MinSpacingMM,
		MaxSpacingMM: cfg.MaxSpacingMM,
	})
	if err != nil {
		return nil, err
	}
	structural, err := predict.NewStructuralPredictor(structModel)
	if err != nil {
		return nil, err
	}

	defaults := compliance.Thresholds{
		AllowableSettlementMM: cfg.AllowableSettlementMM,
		BearingCapacityKPa:    cfg.BearingCapacityKPa,
	}
	return pipeline.NewService(reinf, structural, defaults), nil
}

func HandleList(router *mux.Router, db *sql.DB, cfg config.Config, svc *pipeline.Service) {
	userRepo := repo.NewPostgresDB(db)

	authEnv := &auth.Authenv{JWTkey: []byte(cfg.TokenKey), Repo: userRepo}
	limiter := auth.NewIPRateLimiter(1, 3)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	analyzeH := &pipeline.Handler{Service: svc, Repo: userRepo}
	batchH := &batch.Handler{Service: svc}
	importH := &importer.Handler{Service: svc}
	reportH := &report.Handler{}
	historyH := &history.Handler{Repo: userRepo}

	secureApi.HandleFunc("/tools/raft/analyze", analyzeH.Analyze).Methods("POST")
	secureApi.HandleFunc("/tools/raft/batch", batchH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/raft/import", importH.Raft).Methods("POST")
	secureApi.HandleFunc("/tools/raft/export", importH.Export).Methods("POST")
	secureApi.HandleFunc("/tools/raft/report/pdf", reportH.Generate).Methods("POST")
	secureApi.HandleFunc("/history", historyH.List).Methods("GET")
	secureApi.HandleFunc("/history/{id:[0-9]+}", historyH.Get).Methods("GET")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Config error: ", err)
	}

	svc, err := loadService(cfg)
	if err != nil {
		log.Fatal("Model loading error: ", err)
	}

	db := auth.InitDB()
	defer db.Close()

	router := mux.NewRouter()
	HandleList(router, db, cfg, svc)
	handler := CORS(router)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Println("Starting server on", cfg.Addr)
		var err error
		if cfg.CertFile != "" && cfg.KeyFile != "" {
			err = server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	fmt.Println("Shutdown signal received!")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")

	wg.Wait()
}
