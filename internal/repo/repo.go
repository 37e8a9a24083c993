package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// Repository is the persistence surface: user accounts plus the analysis
// history an engineer can revisit.
type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetByLogin(ctx context.Context, login string) (int, string, error)

	SaveAnalysis(ctx context.Context, userID int, input, result json.RawMessage, pass bool) (int, error)
	ListAnalyses(ctx context.Context, userID int) ([]AnalysisSummary, error)
	GetAnalysis(ctx context.Context, userID, id int) (Analysis, error)
}

// AnalysisSummary is one history row without the payloads.
type AnalysisSummary struct {
	ID        int       `json:"id"`
	Pass      bool      `json:"pass"`
	CreatedAt time.Time `json:"created_at"`
}

// Analysis is one saved run, payloads included.
type Analysis struct {
	ID        int             `json:"id"`
	Input     json.RawMessage `json:"input"`
	Result    json.RawMessage `json:"result"`
	Pass      bool            `json:"pass"`
	CreatedAt time.Time       `json:"created_at"`
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"

	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, "", nil
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresRepository) SaveAnalysis(ctx context.Context, userID int, input, result json.RawMessage, pass bool) (int, error) {
	var id int
	query := "INSERT INTO analyses (user_id, input, result, pass) VALUES ($1, $2, $3, $4) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, userID, input, result, pass).Scan(&id)
	return id, err
}

func (r *PostgresRepository) ListAnalyses(ctx context.Context, userID int) ([]AnalysisSummary, error) {
	query := "SELECT id, pass, created_at FROM analyses WHERE user_id=$1 ORDER BY created_at DESC LIMIT 100"
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AnalysisSummary
	for rows.Next() {
		var s AnalysisSummary
		if err := rows.Scan(&s.ID, &s.Pass, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetAnalysis(ctx context.Context, userID, id int) (Analysis, error) {
	var a Analysis
	query := "SELECT id, input, result, pass, created_at FROM analyses WHERE id=$1 AND user_id=$2"
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&a.ID, &a.Input, &a.Result, &a.Pass, &a.CreatedAt)
	return a, err
}
