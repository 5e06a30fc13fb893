package models

import (
	"context"
	"strings"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Models struct {
	User     *UserModel
	Category *SlugModel[models.Category]
	Genre    *SlugModel[models.Genre]
	Title    *TitleModel
	Review   *ReviewModel
	Comment  *CommentModel
	Bulk     *BulkModel
}

func New(db *postgres.PostgresDB) *Models {
	return &Models{
		User:     &UserModel{db.Conn},
		Category: &SlugModel[models.Category]{DB: db.Conn, table: "categories"},
		Genre:    &SlugModel[models.Genre]{DB: db.Conn, table: "genres"},
		Title:    &TitleModel{db.Conn},
		Review:   &ReviewModel{db.Conn},
		Comment:  &CommentModel{db.Conn},
		Bulk:     &BulkModel{db.Conn},
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere in the column.
func containsPattern(s string) string {
	if s == "" {
		return ""
	}
	return "%" + likeEscaper.Replace(s) + "%"
}

// pageTotal returns the count(*) OVER() total of a fetched page. A page past the end
// has no rows to carry that total, so countQuery is run for it instead.
func pageTotal(ctx context.Context, db *pgxpool.Pool, f filters.Filters, fetched, windowTotal int, countQuery string, args ...any) (int, error) {
	if fetched > 0 || f.Offset() == 0 {
		return windowTotal, nil
	}
	var total int
	if err := db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
