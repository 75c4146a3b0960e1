package loader

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// parseSQLite splits sqlite://path?table=name.
func parseSQLite(location string) (path, table string, err error) {
	rest := strings.TrimPrefix(location, sqliteScheme)
	path, query, _ := strings.Cut(rest, "?")
	values, err := url.ParseQuery(query)
	if err != nil {
		return "", "", fmt.Errorf("invalid SQLite location %q: %w", location, err)
	}
	table = values.Get("table")
	if path == "" || table == "" {
		return "", "", fmt.Errorf("invalid SQLite location %q, want sqlite://path?table=name", location)
	}
	if !tableName.MatchString(table) {
		return "", "", fmt.Errorf("invalid SQLite table name %q", table)
	}
	return path, table, nil
}

func (l *Loader) readSQLite(ctx context.Context, location string) ([]string, [][]string, error) {
	path, table, err := parseSQLite(location)
	if err != nil {
		return nil, nil, err
	}
	// mode=ro never creates a missing database, but its error is vague.
	if _, err := os.Stat(path); err != nil {
		return nil, nil, err
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()
	return readSQLTable(ctx, db, table)
}

// readSQLTable reads a whole table as text cells. NULL becomes "" so it
// parses as NaN like an empty CSV cell.
func readSQLTable(ctx context.Context, db *sql.DB, table string) ([]string, [][]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s"`, table))
	if err != nil {
		return nil, nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	cells := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, fmt.Errorf("scan %s: %w", table, err)
		}
		row := make([]string, len(columns))
		for i, c := range cells {
			if c.Valid {
				row[i] = c.String
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return columns, out, nil
}
