package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finledger/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by get/update/delete for ids that do not
// exist. Absence is an expected outcome, not a failure.
var ErrNotFound = errors.New("record not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const itemColumns = "id, name, description, category, record_type, amount, created_at, updated_at"

func scanItem(row interface{ Scan(...any) error }) (core.Record, error) {
	var (
		rec         core.Record
		description sql.NullString
		category    sql.NullString
		amount      string
	)
	err := row.Scan(&rec.ID, &rec.Name, &description, &category, &rec.Type, &amount, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return core.Record{}, err
	}
	if description.Valid {
		rec.Description = &description.String
	}
	if category.Valid {
		cat := core.Category(category.String)
		rec.Category = &cat
	}
	rec.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return core.Record{}, fmt.Errorf("parse stored amount %q: %w", amount, err)
	}
	return rec, nil
}

// filterClause renders a filter into a WHERE fragment and its args.
func filterClause(f core.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Category != nil {
		conds = append(conds, "category = ?")
		args = append(args, string(*f.Category))
	}
	if f.Type != nil {
		conds = append(conds, "record_type = ?")
		args = append(args, string(*f.Type))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// GetItem returns a single record by id, or ErrNotFound.
func (r *SQLiteRepository) GetItem(ctx context.Context, id int64) (core.Record, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM items WHERE id = ?", id)
	rec, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Record{}, ErrNotFound
	}
	if err != nil {
		return core.Record{}, fmt.Errorf("get item %d: %w", id, err)
	}
	return rec, nil
}

// ListItems returns one page of the filtered result set in ascending
// id order, so repeated calls over the same window are deterministic.
func (r *SQLiteRepository) ListItems(ctx context.Context, f core.Filter, skip, limit int) ([]core.Record, error) {
	where, args := filterClause(f)
	args = append(args, limit, skip)

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM items"+where+" ORDER BY id ASC LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []core.Record{}
	for rows.Next() {
		rec, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// CountItems counts the filtered set, ignoring pagination.
func (r *SQLiteRepository) CountItems(ctx context.Context, f core.Filter) (int64, error) {
	where, args := filterClause(f)

	var total int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(id) FROM items"+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return total, nil
}

// CreateItem inserts a validated record; id and both timestamps are
// assigned here, never by the caller.
func (r *SQLiteRepository) CreateItem(ctx context.Context, n core.NewRecord) (core.Record, error) {
	now := time.Now().UTC()

	var category any
	if n.Category != nil {
		category = string(*n.Category)
	}
	var description any
	if n.Description != nil {
		description = *n.Description
	}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO items (name, description, category, record_type, amount, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		n.Name, description, category, string(n.Type), n.Amount.String(), now, now)
	if err != nil {
		return core.Record{}, fmt.Errorf("create item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Record{}, fmt.Errorf("create item id: %w", err)
	}

	slog.InfoContext(ctx, "Record saved to SQLite",
		"id", id,
		"name", n.Name,
		"record_type", n.Type,
		"amount", n.Amount.String())

	return core.Record{
		ID:          id,
		Name:        n.Name,
		Description: n.Description,
		Category:    n.Category,
		Type:        n.Type,
		Amount:      n.Amount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateItem applies only the fields present in the patch and
// refreshes updated_at inside the same statement. Missing ids map to
// ErrNotFound; an empty patch is just an existence check.
func (r *SQLiteRepository) UpdateItem(ctx context.Context, id int64, p core.Patch) (core.Record, error) {
	if p.IsEmpty() {
		return r.GetItem(ctx, id)
	}

	var (
		sets []string
		args []any
	)
	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *p.Description)
	}
	if p.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, string(*p.Category))
	}
	if p.Type != nil {
		sets = append(sets, "record_type = ?")
		args = append(args, string(*p.Type))
	}
	if p.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, p.Amount.String())
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC())
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		"UPDATE items SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return core.Record{}, fmt.Errorf("update item %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Record{}, fmt.Errorf("update item %d: %w", id, err)
	}
	if affected == 0 {
		return core.Record{}, ErrNotFound
	}

	return r.GetItem(ctx, id)
}

// DeleteItem removes a record permanently. Deleting an absent id
// returns ErrNotFound, so a second delete fails the same way.
func (r *SQLiteRepository) DeleteItem(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Record deleted from SQLite", "id", id)
	return nil
}
