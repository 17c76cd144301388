package repository

import (
	"fmt"

	"github.com/daanhekking/ping-pong-august/internal/models"
	"github.com/daanhekking/ping-pong-august/pkg/database"
)

type AwardRepository struct {
	db *database.DB
}

func NewAwardRepository(db *database.DB) *AwardRepository {
	return &AwardRepository{db: db}
}

// UpsertBatch saves award rows, replacing on the (player, category,
// month, year) key so re-saving a month never duplicates.
func (r *AwardRepository) UpsertBatch(awards []*models.MonthlyAward) error {
	if len(awards) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO monthly_awards (player_id, category, month, year, month_name)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (player_id, category, month, year)
		DO UPDATE SET month_name = EXCLUDED.month_name
	`

	for _, a := range awards {
		if _, err := tx.Exec(query, a.PlayerID, a.Category, a.Month, a.Year, a.MonthName); err != nil {
			return fmt.Errorf("failed to upsert award %s/%s: %w", a.PlayerID, a.Category, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit awards: %w", err)
	}

	return nil
}

// FindAll returns stored awards, newest month first.
func (r *AwardRepository) FindAll() ([]*models.MonthlyAward, error) {
	query := `
		SELECT a.id, a.player_id, a.category, a.month, a.year, a.month_name, a.created_at,
		       p.name AS player_name
		FROM monthly_awards a
		JOIN players p ON p.id = a.player_id
		ORDER BY a.year DESC, a.month DESC, a.category ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query awards: %w", err)
	}
	defer rows.Close()

	var awards []*models.MonthlyAward
	for rows.Next() {
		award := &models.MonthlyAward{}
		err := rows.Scan(
			&award.ID,
			&award.PlayerID,
			&award.Category,
			&award.Month,
			&award.Year,
			&award.MonthName,
			&award.CreatedAt,
			&award.PlayerName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan award: %w", err)
		}
		awards = append(awards, award)
	}

	return awards, rows.Err()
}
