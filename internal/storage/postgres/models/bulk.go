package models

import (
	"context"
	"fmt"
	"strings"

	"yamdb/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BulkModel writes rows with caller supplied ids. It backs the CSV loader.
type BulkModel struct {
	DB *pgxpool.Pool
}

// InsertRow inserts one row, leaving existing rows untouched.
// It reports false when the row was already there.
func (m *BulkModel) InsertRow(ctx context.Context, table string, columns []string, values []any) (bool, error) {
	placeholders := make([]string, len(values))
	for i := range values {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING`,
		pgx.Identifier{table}.Sanitize(),
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)
	status, err := m.DB.Exec(ctx, query, values...)
	if err != nil {
		return false, postgres.MapError(err)
	}
	return status.RowsAffected() > 0, nil
}

// ResetSequence moves the id sequence of table past the largest stored id.
func (m *BulkModel) ResetSequence(ctx context.Context, table string) error {
	_, err := m.DB.Exec(
		ctx,
		fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence($1, 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)`,
			pgx.Identifier{table}.Sanitize(),
		),
		table,
	)
	return err
}
