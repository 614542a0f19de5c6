package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
)

type PostgresChannelRepository struct {
	db *sql.DB
}

func NewPostgresChannelRepository(db *sql.DB) *PostgresChannelRepository {
	return &PostgresChannelRepository{db: db}
}

func (r *PostgresChannelRepository) Create(c models.Channel) (models.Channel, error) {
	query := `INSERT INTO channels (username, title, vendor_name, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, c.Username, c.Title, c.VendorName, c.Active, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil && strings.Contains(err.Error(), "unique constraint") {
		return models.Channel{}, ErrDuplicatedValueUnique
	}
	return c, err
}

func (r *PostgresChannelRepository) GetAll() ([]models.Channel, error) {
	query := `SELECT id, username, title, vendor_name, active, created_at, updated_at FROM channels ORDER BY id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []models.Channel
	for rows.Next() {
		var c models.Channel
		if err := rows.Scan(&c.ID, &c.Username, &c.Title, &c.VendorName, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		channels = append(channels, c)
	}
	return channels, rows.Err()
}

func (r *PostgresChannelRepository) GetByID(id int) (models.Channel, error) {
	query := `SELECT id, username, title, vendor_name, active, created_at, updated_at FROM channels WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var c models.Channel
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.Username, &c.Title, &c.VendorName, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Channel{}, ErrChannelNotFound
	}
	return c, err
}

func (r *PostgresChannelRepository) GetByUsername(username string) (models.Channel, error) {
	query := `SELECT id, username, title, vendor_name, active, created_at, updated_at FROM channels WHERE username = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var c models.Channel
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&c.ID, &c.Username, &c.Title, &c.VendorName, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Channel{}, ErrChannelNotFound
	}
	return c, err
}

func (r *PostgresChannelRepository) Update(c models.Channel) (models.Channel, error) {
	query := `UPDATE channels SET username = $1, title = $2, vendor_name = $3, active = $4, updated_at = $5 WHERE id = $6`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, c.Username, c.Title, c.VendorName, c.Active, time.Now().UTC(), c.ID)
	if err != nil {
		return models.Channel{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Channel{}, ErrChannelNotFound
	}
	return c, nil
}

func (r *PostgresChannelRepository) Delete(id int) error {
	query := `DELETE FROM channels WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrChannelNotFound
	}
	return nil
}
