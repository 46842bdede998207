package source

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrUnknownTable is returned when a table name is not in the database.
var ErrUnknownTable = errors.New("unknown table")

// Store reads and writes grid tables in a SQLite database. Rows are
// addressed by rowid, so WITHOUT ROWID tables are not supported.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and creates, if needed) the database at path.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := prepareStore(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func prepareStore(db *sql.DB) error {
	statements := []string{
		`PRAGMA busy_timeout=5000;`,
		`PRAGMA foreign_keys=ON;`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("prepare store: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Tables lists the user tables in name order.
func (s *Store) Tables() ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	rows, err := s.db.Query(`SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

func (s *Store) checkTable(table string) error {
	names, err := s.Tables()
	if err != nil {
		return err
	}
	for _, name := range names {
		if name == table {
			return nil
		}
	}
	return fmt.Errorf("%w %q", ErrUnknownTable, table)
}

// Load reads every row of table. Cells are rendered as text: NULL becomes
// the empty string and numbers use their shortest form.
func (s *Store) Load(table string) (*Table, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is closed")
	}
	if err := s.checkTable(table); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`SELECT rowid, * FROM ` + quoteIdent(table) + ` ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := &Table{Name: table, Columns: append([]string(nil), names[1:]...)}

	raw := make([]any, len(names))
	dest := make([]any, len(names))
	for i := range raw {
		dest[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("load %s: %w", table, err)
		}
		id, err := strconv.ParseInt(cellText(raw[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("load %s: rowid: %w", table, err)
		}
		values := make(map[string]string, len(out.Columns))
		for i, col := range out.Columns {
			values[col] = cellText(raw[i+1])
		}
		out.Records = append(out.Records, &Record{ID: id, values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	return out, nil
}

// Save writes the given columns of each record back to its row in one
// transaction.
func (s *Store) Save(table string, columns []string, records []*Record) error {
	if s == nil || s.db == nil || len(records) == 0 || len(columns) == 0 {
		return nil
	}
	if err := s.checkTable(table); err != nil {
		return err
	}

	assignments := make([]string, len(columns))
	for i, col := range columns {
		assignments[i] = quoteIdent(col) + ` = ?`
	}
	query := `UPDATE ` + quoteIdent(table) + ` SET ` + strings.Join(assignments, ", ") + ` WHERE rowid = ?`

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("save %s: %w", table, err)
	}
	defer stmt.Close()
	for _, rec := range records {
		args := make([]any, 0, len(columns)+1)
		for _, col := range columns {
			args = append(args, rec.CellValue(col))
		}
		args = append(args, rec.ID)
		if _, err := stmt.Exec(args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("save %s row %d: %w", table, rec.ID, err)
		}
	}
	return tx.Commit()
}

// Import creates table from t and inserts its records, replacing any
// table of the same name. Every column is stored as TEXT.
func (s *Store) Import(t *Table) error {
	if s == nil || s.db == nil {
		return errors.New("store is closed")
	}
	if t == nil || len(t.Columns) == 0 {
		return errors.New("import: table has no columns")
	}
	defs := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		defs[i] = quoteIdent(col) + ` TEXT NOT NULL DEFAULT ''`
		marks[i] = "?"
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	statements := []string{
		`DROP TABLE IF EXISTS ` + quoteIdent(t.Name),
		`CREATE TABLE ` + quoteIdent(t.Name) + ` (` + strings.Join(defs, ", ") + `)`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("import %s: %w", t.Name, err)
		}
	}
	stmt, err := tx.Prepare(`INSERT INTO ` + quoteIdent(t.Name) + ` VALUES (` + strings.Join(marks, ", ") + `)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("import %s: %w", t.Name, err)
	}
	defer stmt.Close()
	for _, rec := range t.Records {
		args := make([]any, len(t.Columns))
		for i, col := range t.Columns {
			args[i] = rec.CellValue(col)
		}
		if _, err := stmt.Exec(args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("import %s: %w", t.Name, err)
		}
	}
	return tx.Commit()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func cellText(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}
