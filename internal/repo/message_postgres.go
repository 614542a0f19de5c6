package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
)

type PostgresMessageRepository struct {
	db *sql.DB
}

func NewPostgresMessageRepository(db *sql.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

const messageColumns = `id, channel_id, telegram_id, text, normalized_text, views, posted_at, status, attempts, created_at, updated_at`

func scanMessage(row interface{ Scan(...any) error }) (models.Message, error) {
	var m models.Message
	err := row.Scan(&m.ID, &m.ChannelID, &m.TelegramID, &m.Text, &m.NormalizedText,
		&m.Views, &m.PostedAt, &m.Status, &m.Attempts, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (r *PostgresMessageRepository) Create(m models.Message) (models.Message, error) {
	query := `INSERT INTO messages (channel_id, telegram_id, text, normalized_text, views, posted_at, status, attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, m.ChannelID, m.TelegramID, m.Text, m.NormalizedText,
		m.Views, m.PostedAt, m.Status, m.Attempts, m.CreatedAt, m.UpdatedAt).Scan(&m.ID)
	if err != nil && strings.Contains(err.Error(), "unique constraint") {
		return models.Message{}, ErrDuplicatedValueUnique
	}
	return m, err
}

func (r *PostgresMessageRepository) GetByID(id int) (models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	m, err := scanMessage(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return m, err
}

func (r *PostgresMessageRepository) GetByTelegramID(channelID int, telegramID int64) (models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE channel_id = $1 AND telegram_id = $2`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	m, err := scanMessage(r.db.QueryRowContext(ctx, query, channelID, telegramID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return m, err
}

func (r *PostgresMessageRepository) Filter(f MessageFilter) ([]models.Message, int, error) {
	conditions, args, argIdx := messageFilterConditions(f)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var totalCount int
	countQuery := "SELECT COUNT(*) FROM messages WHERE 1=1" + conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + messageColumns + ` FROM messages WHERE 1=1` + conditions + ` ORDER BY posted_at DESC, id DESC`
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

	var messages []models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, err
		}
		messages = append(messages, m)
	}
	return messages, totalCount, rows.Err()
}

func messageFilterConditions(f MessageFilter) (string, []any, int) {
	query := ""
	argIdx := 1
	args := []any{}

	if f.ChannelID != nil {
		query += fmt.Sprintf(" AND channel_id = $%d", argIdx)
		args = append(args, *f.ChannelID)
		argIdx++
	}
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, f.Status)
		argIdx++
	}
	if f.Since != nil {
		query += fmt.Sprintf(" AND posted_at >= $%d", argIdx)
		args = append(args, *f.Since)
		argIdx++
	}
	if f.Until != nil {
		query += fmt.Sprintf(" AND posted_at <= $%d", argIdx)
		args = append(args, *f.Until)
		argIdx++
	}
	if f.Text != "" {
		query += fmt.Sprintf(" AND (text ILIKE $%d OR normalized_text ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+f.Text+"%")
		argIdx++
	}

	return query, args, argIdx
}

func (r *PostgresMessageRepository) ListByStatus(status string, limit int) ([]models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE status = $1 ORDER BY id LIMIT $2`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *PostgresMessageRepository) SetStatus(id int, status string) error {
	query := `UPDATE messages SET status = $1, updated_at = $2 WHERE id = $3`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *PostgresMessageRepository) MarkProcessed(id int, normalizedText string) error {
	query := `UPDATE messages SET status = $1, normalized_text = $2, updated_at = $3 WHERE id = $4`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, models.MessageStatusProcessed, normalizedText, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *PostgresMessageRepository) MarkFailed(id int) (int, error) {
	query := `UPDATE messages SET status = $1, attempts = attempts + 1, updated_at = $2 WHERE id = $3 RETURNING attempts`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var attempts int
	err := r.db.QueryRowContext(ctx, query, models.MessageStatusFailed, time.Now().UTC(), id).Scan(&attempts)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrMessageNotFound
	}
	return attempts, err
}

func (r *PostgresMessageRepository) CountByStatus() (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM messages GROUP BY status`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
