package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
)

type PostgresEntityRepository struct {
	db *sql.DB
}

func NewPostgresEntityRepository(db *sql.DB) *PostgresEntityRepository {
	return &PostgresEntityRepository{db: db}
}

const entityColumns = `id, message_id, type, value, normalized_value, amount_etb, source, confidence, token_start, token_end, created_at`

func (r *PostgresEntityRepository) ReplaceForMessage(messageID int, entities []models.Entity) ([]models.Entity, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entities WHERE message_id = $1`, messageID); err != nil {
		return nil, err
	}

	query := `INSERT INTO entities (message_id, type, value, normalized_value, amount_etb, source, confidence, token_start, token_end, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	out := make([]models.Entity, 0, len(entities))
	for _, e := range entities {
		e.MessageID = messageID
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now().UTC()
		}
		err := tx.QueryRowContext(ctx, query, e.MessageID, e.Type, e.Value, e.NormalizedValue,
			e.AmountETB, e.Source, e.Confidence, e.TokenStart, e.TokenEnd, e.CreatedAt).Scan(&e.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresEntityRepository) GetByMessageID(messageID int) ([]models.Entity, error) {
	query := `SELECT ` + entityColumns + ` FROM entities WHERE message_id = $1 ORDER BY id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, messageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntities(rows)
}

func (r *PostgresEntityRepository) Filter(f EntityFilter) ([]models.Entity, int, error) {
	conditions, args, argIdx := entityFilterConditions(f)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var totalCount int
	countQuery := `SELECT COUNT(*) FROM entities e JOIN messages m ON e.message_id = m.id WHERE 1=1` + conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `SELECT e.id, e.message_id, e.type, e.value, e.normalized_value, e.amount_etb, e.source, e.confidence, e.token_start, e.token_end, e.created_at
		FROM entities e JOIN messages m ON e.message_id = m.id WHERE 1=1` + conditions + ` ORDER BY e.id DESC`
	if f.Limit != nil && *f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, *f.Limit)
		argIdx++
	}
	if f.Offset != nil && *f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, *f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entities, err := scanEntities(rows)
	return entities, totalCount, err
}

func entityFilterConditions(f EntityFilter) (string, []any, int) {
	query := ""
	argIdx := 1
	args := []any{}

	if f.Type != "" {
		query += fmt.Sprintf(" AND e.type = $%d", argIdx)
		args = append(args, f.Type)
		argIdx++
	}
	if f.ChannelID != nil {
		query += fmt.Sprintf(" AND m.channel_id = $%d", argIdx)
		args = append(args, *f.ChannelID)
		argIdx++
	}
	if f.MessageID != nil {
		query += fmt.Sprintf(" AND e.message_id = $%d", argIdx)
		args = append(args, *f.MessageID)
		argIdx++
	}
	if f.MinConfidence != nil {
		query += fmt.Sprintf(" AND e.confidence >= $%d", argIdx)
		args = append(args, *f.MinConfidence)
		argIdx++
	}

	return query, args, argIdx
}

func scanEntities(rows *sql.Rows) ([]models.Entity, error) {
	var entities []models.Entity
	for rows.Next() {
		var e models.Entity
		if err := rows.Scan(&e.ID, &e.MessageID, &e.Type, &e.Value, &e.NormalizedValue,
			&e.AmountETB, &e.Source, &e.Confidence, &e.TokenStart, &e.TokenEnd, &e.CreatedAt); err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, rows.Err()
}
