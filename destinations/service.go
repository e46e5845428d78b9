package destinations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/user/turismo-go/apperror"
)

const pgFKViolation = "23503"

// Service provides catalog reads and admin mutations.
type Service struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

// NewService wires the destination service.
func NewService(db *pgxpool.Pool, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

const listQuery = `
	SELECT d.id, d.name, d.description, d.location, d.image_url, d.created_at,
	       COALESCE(array_agg(c.name ORDER BY c.name) FILTER (WHERE c.name IS NOT NULL), '{}')
	FROM destinations d
	LEFT JOIN destination_category_rel r ON r.destination_id = d.id
	LEFT JOIN destination_categories c ON c.id = r.category_id
`

// List returns every destination with its category names.
func (s *Service) List(ctx context.Context) ([]Destination, error) {
	rows, err := s.db.Query(ctx, listQuery+` GROUP BY d.id ORDER BY d.id`)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list destinations", err)
	}
	defer rows.Close()

	dests := []Destination{}
	for rows.Next() {
		var d Destination
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.Location, &d.ImageURL, &d.CreatedAt, &d.Categories); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan destination", err)
		}
		dests = append(dests, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to list destinations", err)
	}
	return dests, nil
}

// Get returns one destination by id.
func (s *Service) Get(ctx context.Context, id int) (*Destination, error) {
	var d Destination
	err := s.db.QueryRow(ctx, listQuery+` WHERE d.id = $1 GROUP BY d.id`, id).
		Scan(&d.ID, &d.Name, &d.Description, &d.Location, &d.ImageURL, &d.CreatedAt, &d.Categories)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("destination not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get destination", err)
	}
	return &d, nil
}

// Create inserts a destination and its category links in one transaction, so
// a bad category id leaves no half-created row behind.
func (s *Service) Create(ctx context.Context, req CreateDestinationRequest) (*Destination, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create destination", err)
	}
	defer tx.Rollback(ctx)

	var id int
	err = tx.QueryRow(ctx,
		`INSERT INTO destinations (name, description, location, image_url)
         VALUES ($1, $2, $3, $4) RETURNING id`,
		req.Name, req.Description, req.Location, req.ImageURL).Scan(&id)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create destination", err)
	}

	if err := replaceCategories(ctx, tx, id, req.CategoryIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.NewDatabaseError("failed to create destination", err)
	}
	return s.Get(ctx, id)
}

// Update applies a partial update; a present CategoryIDs replaces the link
// set atomically with the field updates.
func (s *Service) Update(ctx context.Context, id int, req UpdateDestinationRequest) (*Destination, error) {
	if req.IsEmpty() {
		return nil, apperror.NewValidationError("no fields provided for update", nil)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to update destination", err)
	}
	defer tx.Rollback(ctx)

	var setClauses []string
	var args []interface{}
	argID := 1
	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}
	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Location != nil {
		add("location", *req.Location)
	}
	if req.ImageURL != nil {
		add("image_url", *req.ImageURL)
	}

	if len(setClauses) > 0 {
		args = append(args, id)
		query := fmt.Sprintf(`UPDATE destinations SET %s WHERE id = $%d`,
			strings.Join(setClauses, ", "), argID)
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to update destination", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, apperror.NewNotFoundError("destination not found", nil)
		}
	} else {
		// Category-only update still needs the existence check.
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM destinations WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, apperror.NewDatabaseError("failed to update destination", err)
		}
		if !exists {
			return nil, apperror.NewNotFoundError("destination not found", nil)
		}
	}

	if req.CategoryIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM destination_category_rel WHERE destination_id = $1`, id); err != nil {
			return nil, apperror.NewDatabaseError("failed to update destination categories", err)
		}
		if err := replaceCategories(ctx, tx, id, *req.CategoryIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.NewDatabaseError("failed to update destination", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a destination; category links go with it via cascade.
func (s *Service) Delete(ctx context.Context, id int) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM destinations WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete destination", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("destination not found", nil)
	}
	return nil
}

// ListCategories returns all destination categories.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, created_at FROM destination_categories ORDER BY name`)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list categories", err)
	}
	defer rows.Close()

	cats := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan category", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to list categories", err)
	}
	return cats, nil
}

func replaceCategories(ctx context.Context, tx pgx.Tx, destinationID int, categoryIDs []int) error {
	for _, catID := range categoryIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO destination_category_rel (destination_id, category_id) VALUES ($1, $2)
             ON CONFLICT DO NOTHING`,
			destinationID, catID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgFKViolation {
				return apperror.NewValidationError(fmt.Sprintf("unknown category id %d", catID), nil)
			}
			return apperror.NewDatabaseError("failed to link destination category", err)
		}
	}
	return nil
}
