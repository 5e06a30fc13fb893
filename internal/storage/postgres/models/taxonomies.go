package models

import (
	"context"
	"errors"
	"fmt"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage"
	"yamdb/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type taxonomy interface {
	models.Category | models.Genre
}

// SlugModel serves the name+slug tables (categories and genres).
type SlugModel[T taxonomy] struct {
	DB    *pgxpool.Pool
	table string
}

func (m *SlugModel[T]) Insert(ctx context.Context, name, slug string) (*T, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf(`INSERT INTO %s (name, slug) VALUES ($1, $2) RETURNING id, name, slug`, m.table),
		name, slug,
	)
	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return &item, nil
}

func (m *SlugModel[T]) GetBySlug(ctx context.Context, slug string) (*T, error) {
	rows, _ := m.DB.Query(ctx, fmt.Sprintf(`SELECT id, name, slug FROM %s WHERE slug = $1`, m.table), slug)
	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GetBySlugs returns the rows found, in no particular order. Missing slugs are simply absent.
func (m *SlugModel[T]) GetBySlugs(ctx context.Context, slugs []string) ([]T, error) {
	rows, _ := m.DB.Query(ctx, fmt.Sprintf(`SELECT id, name, slug FROM %s WHERE slug = ANY($1)`, m.table), slugs)
	return pgx.CollectRows(rows, pgx.RowToStructByName[T])
}

func (m *SlugModel[T]) List(ctx context.Context, search string, f filters.Filters) ([]T, int, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf(`SELECT count(*) OVER() AS total, id, name, slug FROM %s
		WHERE ($1 = '' OR name ILIKE $1)
		ORDER BY name ASC, id ASC
		LIMIT $2 OFFSET $3`, m.table),
		containsPattern(search), f.Limit(), f.Offset(),
	)
	type row struct {
		Total int    `db:"total"`
		ID    int64  `db:"id"`
		Name  string `db:"name"`
		Slug  string `db:"slug"`
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	items := make([]T, 0, len(outputRows))
	for _, r := range outputRows {
		items = append(items, T{ID: r.ID, Name: r.Name, Slug: r.Slug})
	}
	total := 0
	if len(outputRows) > 0 {
		total = outputRows[0].Total
	}
	total, err = pageTotal(
		ctx, m.DB, f, len(outputRows), total,
		fmt.Sprintf(`SELECT count(*) FROM %s WHERE ($1 = '' OR name ILIKE $1)`, m.table),
		containsPattern(search),
	)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (m *SlugModel[T]) DeleteBySlug(ctx context.Context, slug string) error {
	status, err := m.DB.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE slug = $1`, m.table), slug)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
