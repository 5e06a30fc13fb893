// Package importer seeds the database from the CSV dumps shipped with the project
// (static/data). Files reference each other by id, so ids are kept as they are.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"yamdb/proj/internal/storage"
)

type Kind int

const (
	Text Kind = iota
	Int
	OptionalInt
	Timestamp
)

type Column struct {
	Header string
	Name   string
	Kind   Kind
	// Default is used when the file has no such header or the cell is empty.
	Default any
}

type Table struct {
	File     string
	Name     string
	Columns  []Column
	SerialID bool
	Const    map[string]any
}

// Tables lists the known files in load order. Later files reference earlier ones.
var Tables = []Table{
	{
		File: "users.csv",
		Name: "users",
		Columns: []Column{
			{Header: "id", Name: "id", Kind: Int},
			{Header: "username", Name: "username", Kind: Text},
			{Header: "email", Name: "email", Kind: Text},
			{Header: "role", Name: "role", Kind: Text, Default: "user"},
			{Header: "bio", Name: "bio", Kind: Text, Default: ""},
			{Header: "first_name", Name: "first_name", Kind: Text, Default: ""},
			{Header: "last_name", Name: "last_name", Kind: Text, Default: ""},
		},
		SerialID: true,
		Const:    map[string]any{"is_active": true},
	},
	{
		File: "category.csv",
		Name: "categories",
		Columns: []Column{
			{Header: "id", Name: "id", Kind: Int},
			{Header: "name", Name: "name", Kind: Text},
			{Header: "slug", Name: "slug", Kind: Text},
		},
		SerialID: true,
	},
	{
		File: "genre.csv",
		Name: "genres",
		Columns: []Column{
			{Header: "id", Name: "id", Kind: Int},
			{Header: "name", Name: "name", Kind: Text},
			{Header: "slug", Name: "slug", Kind: Text},
		},
		SerialID: true,
	},
	{
		File: "titles.csv",
		Name: "titles",
		Columns: []Column{
			{Header: "id", Name: "id", Kind: Int},
			{Header: "name", Name: "name", Kind: Text},
			{Header: "year", Name: "year", Kind: Int},
			{Header: "description", Name: "description", Kind: Text, Default: ""},
			{Header: "category", Name: "category_id", Kind: OptionalInt},
		},
		SerialID: true,
	},
	{
		File: "genre_title.csv",
		Name: "titles_genres",
		Columns: []Column{
			{Header: "title_id", Name: "title_id", Kind: Int},
			{Header: "genre_id", Name: "genre_id", Kind: Int},
		},
	},
	{
		File: "review.csv",
		Name: "reviews",
		Columns: []Column{
			{Header: "id", Name: "id", Kind: Int},
			{Header: "title_id", Name: "title_id", Kind: Int},
			{Header: "author", Name: "author_id", Kind: Int},
			{Header: "text", Name: "text", Kind: Text},
			{Header: "score", Name: "score", Kind: Int},
			{Header: "pub_date", Name: "pub_date", Kind: Timestamp},
		},
		SerialID: true,
	},
	{
		File: "comments.csv",
		Name: "comments",
		Columns: []Column{
			{Header: "id", Name: "id", Kind: Int},
			{Header: "review_id", Name: "review_id", Kind: Int},
			{Header: "author", Name: "author_id", Kind: Int},
			{Header: "text", Name: "text", Kind: Text},
			{Header: "pub_date", Name: "pub_date", Kind: Timestamp},
		},
		SerialID: true,
	},
}

type RowStorage interface {
	InsertRow(ctx context.Context, table string, columns []string, values []any) (bool, error)
	ResetSequence(ctx context.Context, table string) error
}

type Stats struct {
	Inserted int
	Existing int
	Broken   int
}

type Importer struct {
	log     *slog.Logger
	storage RowStorage
}

func New(log *slog.Logger, storage RowStorage) *Importer {
	return &Importer{log: log, storage: storage}
}

// LoadDir loads every known file found in dir. Missing files are skipped.
func (i *Importer) LoadDir(ctx context.Context, dir string) (map[string]Stats, error) {
	const op = "importer.Importer.LoadDir"
	log := i.log.With("op", op, "dir", dir)
	result := make(map[string]Stats, len(Tables))
	for _, table := range Tables {
		path := filepath.Join(dir, table.File)
		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.Warn("file not found, skipping", "file", table.File)
				continue
			}
			return result, err
		}
		stats, err := i.Load(ctx, f, table)
		f.Close()
		if err != nil {
			return result, fmt.Errorf("%s: %w", table.File, err)
		}
		result[table.File] = stats
		log.Info("file loaded",
			"file", table.File, "inserted", stats.Inserted, "existing", stats.Existing, "broken", stats.Broken)
	}
	return result, nil
}

// Load reads one CSV file with a header line into table.
// Rows already stored are counted as existing, rows pointing at missing parents as broken.
func (i *Importer) Load(ctx context.Context, src io.Reader, table Table) (Stats, error) {
	const op = "importer.Importer.Load"
	log := i.log.With("op", op, "table", table.Name)
	var stats Stats
	reader := csv.NewReader(src)
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		return stats, err
	}
	index := make(map[string]int, len(header))
	for pos, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = pos
	}
	columns := make([]string, 0, len(table.Columns)+len(table.Const))
	for _, col := range table.Columns {
		if _, ok := index[col.Header]; !ok && col.Default == nil {
			return stats, fmt.Errorf("missing column %q", col.Header)
		}
		columns = append(columns, col.Name)
	}
	constNames := make([]string, 0, len(table.Const))
	for name := range table.Const {
		constNames = append(constNames, name)
	}
	columns = append(columns, constNames...)

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, err
		}
		values, err := convert(table, index, record)
		if err != nil {
			return stats, fmt.Errorf("line %d: %w", line, err)
		}
		for _, name := range constNames {
			values = append(values, table.Const[name])
		}
		inserted, err := i.storage.InsertRow(ctx, table.Name, columns, values)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Error("broken reference, row skipped", "line", line, "errMsg", err.Error())
			stats.Broken++
		case errors.Is(err, storage.ErrConflict):
			log.Warn("row clashes with an existing one, skipped", "line", line, "errMsg", err.Error())
			stats.Existing++
		case err != nil:
			return stats, fmt.Errorf("line %d: %w", line, err)
		case inserted:
			stats.Inserted++
		default:
			log.Warn("row already exists, skipped", "line", line)
			stats.Existing++
		}
	}
	if table.SerialID {
		if err := i.storage.ResetSequence(ctx, table.Name); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func convert(table Table, index map[string]int, record []string) ([]any, error) {
	values := make([]any, 0, len(table.Columns))
	for _, col := range table.Columns {
		var raw string
		if pos, ok := index[col.Header]; ok && pos < len(record) {
			raw = strings.TrimSpace(record[pos])
		}
		if raw == "" && col.Default != nil {
			values = append(values, col.Default)
			continue
		}
		switch col.Kind {
		case Text:
			values = append(values, raw)
		case Int:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col.Header, err)
			}
			values = append(values, n)
		case OptionalInt:
			if raw == "" {
				values = append(values, nil)
				continue
			}
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col.Header, err)
			}
			values = append(values, n)
		case Timestamp:
			ts, err := time.Parse(time.RFC3339Nano, raw)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col.Header, err)
			}
			values = append(values, ts)
		}
	}
	return values, nil
}
