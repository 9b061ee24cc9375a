package datasource

import (
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/aadamsx/josson/internal/node"
)

// SQLite is a query.DataFinder backed by a modernc.org/sqlite database,
// following the same collection-suffix and row-to-object conventions as
// Postgres.
type SQLite struct {
	DB *sql.DB
}

// OpenSQLite opens path with the pure-Go modernc.org/sqlite driver.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite %q", path)
	}
	return &SQLite{DB: db}, nil
}

// Close closes the underlying database handle.
func (s *SQLite) Close() error { return s.DB.Close() }

// Find implements query.DataFinder.
func (s *SQLite) Find(collection, payload string) (*node.Node, error) {
	table, many := splitSymbol(collection)
	if table == "" {
		return nil, errors.New("data query has no collection name")
	}
	table = sanitizeIdentifier(table)
	sqlText := "select * from " + table
	if payload != "" {
		sqlText += " where " + payload
	}
	rows, err := s.DB.Query(sqlText)
	if err != nil {
		return nil, errors.Wrapf(err, "query %q", sqlText)
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "read columns")
	}
	if !many {
		return scanOneSqlite(rows, cols)
	}
	return scanManySqlite(rows, cols)
}

func scanOneSqlite(rows *sql.Rows, cols []string) (*node.Node, error) {
	if !rows.Next() {
		return nil, rows.Err()
	}
	n, err := rowToNodeSqlite(rows, cols)
	if err != nil {
		return nil, err
	}
	if rows.Next() {
		return nil, errors.New("additional results for find-one query")
	}
	return n, rows.Err()
}

func scanManySqlite(rows *sql.Rows, cols []string) (*node.Node, error) {
	arr := node.NewArray()
	for rows.Next() {
		n, err := rowToNodeSqlite(rows, cols)
		if err != nil {
			return nil, err
		}
		arr.Append(n)
	}
	return arr, rows.Err()
}

func rowToNodeSqlite(rows *sql.Rows, cols []string) (*node.Node, error) {
	vals := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, errors.Wrap(err, "scan row")
	}
	obj := node.NewObject()
	for i, col := range cols {
		obj.Set(col, valueToNode(vals[i]))
	}
	return obj, nil
}

