package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opsdash/liquidity-engine/internal/domain"
)

type weekRepository struct {
	db *sqlx.DB
}

func NewWeekRepository(db *sqlx.DB) WeekRepository {
	return &weekRepository{db: db}
}

func (r *weekRepository) Create(ctx context.Context, week *domain.LiquidityWeek) error {
	query := `
		INSERT INTO liquidity_weeks (id, week_start, opening_balance, alert_threshold, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		week.ID,
		week.WeekStart,
		week.OpeningBalance,
		week.AlertThreshold,
		week.Notes,
		week.CreatedBy,
		week.CreatedAt,
		week.UpdatedAt,
	)

	return err
}

func (r *weekRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LiquidityWeek, error) {
	query := `
		SELECT id, week_start, opening_balance, alert_threshold, notes, created_by, created_at, updated_at
		FROM liquidity_weeks
		WHERE id = $1
	`

	var week domain.LiquidityWeek
	err := r.db.GetContext(ctx, &week, query, id)
	if err != nil {
		return nil, err
	}

	return &week, nil
}

func (r *weekRepository) GetByWeekStart(ctx context.Context, weekStart time.Time) (*domain.LiquidityWeek, error) {
	query := `
		SELECT id, week_start, opening_balance, alert_threshold, notes, created_by, created_at, updated_at
		FROM liquidity_weeks
		WHERE week_start = $1
	`

	var week domain.LiquidityWeek
	err := r.db.GetContext(ctx, &week, query, weekStart)
	if err != nil {
		return nil, err
	}

	return &week, nil
}

func (r *weekRepository) List(ctx context.Context) ([]*domain.LiquidityWeek, error) {
	query := `
		SELECT id, week_start, opening_balance, alert_threshold, notes, created_by, created_at, updated_at
		FROM liquidity_weeks
		ORDER BY week_start DESC
	`

	var weeks []*domain.LiquidityWeek
	err := r.db.SelectContext(ctx, &weeks, query)
	if err != nil {
		return nil, err
	}

	return weeks, nil
}

func (r *weekRepository) Update(ctx context.Context, id uuid.UUID, update *domain.WeekUpdate) error {
	query := `
		UPDATE liquidity_weeks
		SET opening_balance = COALESCE($2, opening_balance),
		    alert_threshold = COALESCE($3, alert_threshold),
		    notes = COALESCE($4, notes),
		    updated_at = $5
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		id,
		update.OpeningBalance,
		update.AlertThreshold,
		update.Notes,
		time.Now().UTC(),
	)

	return err
}
