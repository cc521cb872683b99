package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// PostgresHistory is the persisted cross-run history of merged datasets.
// It mirrors a remote tabular sheet: one table, text columns named after
// the dataset header, replaced wholesale on every append cycle.
type PostgresHistory struct {
	db    *sql.DB
	table string
}

// NewPostgresHistory opens a connection to PostgreSQL and returns a
// ready-to-use history store backed by the given table.
func NewPostgresHistory(dsn, table string) (*PostgresHistory, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	return &PostgresHistory{db: db, table: table}, nil
}

// Fetch reads the full history back: column names in table order plus all
// rows as strings. A missing table yields an empty history, not an error.
func (h *PostgresHistory) Fetch() ([]string, [][]string, error) {
	var exists bool
	err := h.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`,
		h.table,
	).Scan(&exists)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: check table: %w", err)
	}
	if !exists {
		return nil, nil, nil
	}

	rows, err := h.db.Query(fmt.Sprintf(`SELECT * FROM %s`, pq.QuoteIdentifier(h.table)))
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: fetch history: %w", err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: columns: %w", err)
	}

	var out [][]string
	for rows.Next() {
		cells := make([]sql.NullString, len(header))
		dest := make([]interface{}, len(header))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		row := make([]string, len(header))
		for i, c := range cells {
			row[i] = c.String
		}
		out = append(out, row)
	}
	return header, out, rows.Err()
}

// Replace drops the history table and rewrites it with the given header and
// rows, the tabular equivalent of clear-then-write on a sheet.
func (h *PostgresHistory) Replace(header []string, rows [][]string) error {
	if len(header) == 0 {
		return fmt.Errorf("postgres: replace with empty header")
	}

	tx, err := h.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, pq.QuoteIdentifier(h.table))); err != nil {
		return fmt.Errorf("postgres: drop table: %w", err)
	}

	cols := make([]string, len(header))
	for i, c := range header {
		cols[i] = pq.QuoteIdentifier(c) + " TEXT"
	}
	create := fmt.Sprintf(`CREATE TABLE %s (%s)`,
		pq.QuoteIdentifier(h.table), strings.Join(cols, ", "))
	if _, err := tx.Exec(create); err != nil {
		return fmt.Errorf("postgres: create table: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := h.insertBatch(tx, header, rows[i:end]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (h *PostgresHistory) insertBatch(tx *sql.Tx, header []string, batch [][]string) error {
	width := len(header)
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*width)

	for idx, row := range batch {
		placeholders := make([]string, width)
		for j := 0; j < width; j++ {
			placeholders[j] = fmt.Sprintf("$%d", idx*width+j+1)
			if j < len(row) {
				valueArgs = append(valueArgs, row[j])
			} else {
				valueArgs = append(valueArgs, "")
			}
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
	}

	quoted := make([]string, width)
	for i, c := range header {
		quoted[i] = pq.QuoteIdentifier(c)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s`,
		pq.QuoteIdentifier(h.table),
		strings.Join(quoted, ","),
		strings.Join(valueStrings, ","))

	if _, err := tx.Exec(query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (h *PostgresHistory) Close() error {
	return h.db.Close()
}
