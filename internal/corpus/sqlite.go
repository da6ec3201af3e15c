package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
)

// DefaultTable is the table LoadSQLite reads when none is given.
const DefaultTable = "documents"

// Table names cannot be bound as query parameters, so they are restricted to
// plain identifiers before being spliced into the statement.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadSQLite reads documents from a table of a SQLite database: one row per
// document, columns doc_id and content. An empty table name selects
// DefaultTable. Rows with a blank doc_id fail the load rather than being
// silently dropped.
func LoadSQLite(ctx context.Context, dbPath, table string) ([]model.Document, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid corpus table name %q", table)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening corpus database %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }()

	query := fmt.Sprintf("SELECT doc_id, content FROM %s ORDER BY doc_id", table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying corpus database %s: %w", dbPath, err)
	}
	defer func() { _ = rows.Close() }()

	var docs []model.Document
	for rows.Next() {
		var docID, content string
		if err := rows.Scan(&docID, &content); err != nil {
			return nil, fmt.Errorf("scanning corpus row: %w", err)
		}
		if strings.TrimSpace(docID) == "" {
			return nil, fmt.Errorf("corpus database %s contains a row with a blank doc_id", dbPath)
		}
		docs = append(docs, model.Document{DocID: docID, Text: content})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating corpus rows: %w", err)
	}
	if docs == nil {
		docs = []model.Document{}
	}
	return docs, nil
}
