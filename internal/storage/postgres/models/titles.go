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

type TitleModel struct {
	DB *pgxpool.Pool
}

// ratingColumn is shared by every title read so single and list representations agree.
const ratingColumn = `(SELECT AVG(r.score)::float8 FROM reviews r WHERE r.title_id = t.id) AS rating`

const titleSelect = `t.id, t.name, t.year, t.description, ` + ratingColumn + `, c.id, c.name, c.slug
	FROM titles t LEFT JOIN categories c ON c.id = t.category_id`

// titleFilterWhere takes name, category, genre, year and search as $1..$5.
const titleFilterWhere = `WHERE ($1 = '' OR t.name ILIKE $1)
	AND ($2 = '' OR c.slug = $2)
	AND ($3 = '' OR EXISTS (
		SELECT 1 FROM titles_genres tg JOIN genres g ON g.id = tg.genre_id
		WHERE tg.title_id = t.id AND g.slug = $3
	))
	AND ($4::int = 0 OR t.year = $4)
	AND ($5 = '' OR t.name ILIKE $5)`

var titleSortColumns = map[string]string{"name": "t.name", "year": "t.year"}

func scanTitle(row pgx.Row, extra ...any) (*models.Title, error) {
	var (
		title        models.Title
		categoryID   *int64
		categoryName *string
		categorySlug *string
	)
	dest := append(extra, &title.ID, &title.Name, &title.Year, &title.Description, &title.Rating,
		&categoryID, &categoryName, &categorySlug)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if categoryID != nil {
		title.Category = &models.Category{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
	}
	title.Genres = []models.Genre{}
	return &title, nil
}

func (m *TitleModel) Get(ctx context.Context, id int64) (*models.Title, error) {
	title, err := scanTitle(m.DB.QueryRow(ctx, `SELECT `+titleSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	if err := m.attachGenres(ctx, []*models.Title{title}); err != nil {
		return nil, err
	}
	return title, nil
}

func (m *TitleModel) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := m.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM titles WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (m *TitleModel) Rating(ctx context.Context, id int64) (*float64, error) {
	var rating *float64
	err := m.DB.QueryRow(ctx, `SELECT `+ratingColumn+` FROM titles t WHERE t.id = $1`, id).Scan(&rating)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return rating, nil
}

func (m *TitleModel) List(ctx context.Context, tf filters.TitleFilter, f filters.Filters) ([]models.Title, int, error) {
	query := fmt.Sprintf(`
	SELECT count(*) OVER(), `+titleSelect+`
	`+titleFilterWhere+`
	ORDER BY %s %s, t.id ASC
	LIMIT $6 OFFSET $7
	`, titleSortColumns[f.SortColumn("name")], f.SortDirection())
	args := []any{containsPattern(tf.Name), tf.Category, tf.Genre, tf.Year, containsPattern(tf.Search)}
	rows, err := m.DB.Query(ctx, query, append(args, f.Limit(), f.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var (
		total  int
		titles []*models.Title
	)
	for rows.Next() {
		title, err := scanTitle(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	total, err = pageTotal(
		ctx, m.DB, f, len(titles), total,
		`SELECT count(*) FROM titles t LEFT JOIN categories c ON c.id = t.category_id `+titleFilterWhere,
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	if err := m.attachGenres(ctx, titles); err != nil {
		return nil, 0, err
	}
	result := make([]models.Title, 0, len(titles))
	for _, title := range titles {
		result = append(result, *title)
	}
	return result, total, nil
}

func (m *TitleModel) attachGenres(ctx context.Context, titles []*models.Title) error {
	if len(titles) == 0 {
		return nil
	}
	byID := make(map[int64]*models.Title, len(titles))
	ids := make([]int64, 0, len(titles))
	for _, title := range titles {
		byID[title.ID] = title
		ids = append(ids, title.ID)
	}
	rows, err := m.DB.Query(
		ctx,
		`SELECT tg.title_id, g.id, g.name, g.slug FROM titles_genres tg
		JOIN genres g ON g.id = tg.genre_id
		WHERE tg.title_id = ANY($1)
		ORDER BY g.name ASC`,
		ids,
	)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			titleID int64
			genre   models.Genre
		)
		if err := rows.Scan(&titleID, &genre.ID, &genre.Name, &genre.Slug); err != nil {
			return err
		}
		if title, ok := byID[titleID]; ok {
			title.Genres = append(title.Genres, genre)
		}
	}
	return rows.Err()
}

func categoryID(title *models.Title) *int64 {
	if title.Category == nil {
		return nil
	}
	return &title.Category.ID
}

func genreIDs(title *models.Title) []int64 {
	ids := make([]int64, 0, len(title.Genres))
	for _, genre := range title.Genres {
		ids = append(ids, genre.ID)
	}
	return ids
}

// Insert stores title along with its genre links in one transaction.
// Category and genres must carry resolved ids.
func (m *TitleModel) Insert(ctx context.Context, title *models.Title) (*models.Title, error) {
	tx, err := m.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)
	var id int64
	err = tx.QueryRow(
		ctx,
		`INSERT INTO titles (name, year, description, category_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		title.Name, title.Year, title.Description, categoryID(title),
	).Scan(&id)
	if err != nil {
		return nil, postgres.MapError(err)
	}
	if err := setGenres(ctx, tx, id, genreIDs(title)); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return m.Get(ctx, id)
}

// Update overwrites the scalar columns. Genre links are replaced only when replaceGenres is set.
func (m *TitleModel) Update(ctx context.Context, title *models.Title, replaceGenres bool) (*models.Title, error) {
	tx, err := m.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)
	status, err := tx.Exec(
		ctx,
		`UPDATE titles SET name = $1, year = $2, description = $3, category_id = $4 WHERE id = $5`,
		title.Name, title.Year, title.Description, categoryID(title), title.ID,
	)
	if err != nil {
		return nil, postgres.MapError(err)
	}
	if status.RowsAffected() == 0 {
		return nil, storage.ErrNotFound
	}
	if replaceGenres {
		if _, err := tx.Exec(ctx, `DELETE FROM titles_genres WHERE title_id = $1`, title.ID); err != nil {
			return nil, err
		}
		if err := setGenres(ctx, tx, title.ID, genreIDs(title)); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return m.Get(ctx, title.ID)
}

func setGenres(ctx context.Context, tx pgx.Tx, titleID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(
		ctx,
		`INSERT INTO titles_genres (title_id, genre_id) SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`,
		titleID, genreIDs,
	)
	return postgres.MapError(err)
}

func (m *TitleModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM titles WHERE id = $1", id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
