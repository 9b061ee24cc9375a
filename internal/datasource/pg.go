// Package datasource supplies query.DataFinder implementations for the
// resolver's DB-query pattern ("<collectionName>{<symbol>}<payload>"),
// adapted from mb0-daql's qry/qrypgx backend: the same row-scan-into-keyer
// shape, here scanning into generic column->value maps rather than typed
// model records, and dispatching find-one ("?") vs find-many ("[]") on the
// collection-name suffix the resolver appends rather than on a query-ref
// sigil.
package datasource

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/aadamsx/josson/internal/node"
)

// Postgres is a query.DataFinder backed by a pgx connection pool. The
// collection name is the table name, optionally suffixed with "?"
// (single row) or "[]" (all rows); the payload is used verbatim as the
// WHERE clause, matching the "{{<table>{symbol}<where>}}" DB-query
// grammar the resolver parses before calling Find.
type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgres wraps an already-connected pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres { return &Postgres{Pool: pool} }

// Find implements query.DataFinder.
func (p *Postgres) Find(collection, payload string) (*node.Node, error) {
	table, many := splitSymbol(collection)
	if table == "" {
		return nil, errors.New("data query has no collection name")
	}
	table = sanitizeIdentifier(table)
	sql := "select * from " + table
	if payload != "" {
		sql += " where " + payload
	}
	rows, err := p.Pool.Query(context.Background(), sql)
	if err != nil {
		return nil, errors.Wrapf(err, "query %q", sql)
	}
	defer rows.Close()
	if !many {
		return scanOnePg(rows)
	}
	return scanManyPg(rows)
}

func scanOnePg(rows pgx.Rows) (*node.Node, error) {
	if !rows.Next() {
		return nil, rows.Err()
	}
	n, err := rowToNode(rows)
	if err != nil {
		return nil, err
	}
	if rows.Next() {
		return nil, errors.New("additional results for find-one query")
	}
	return n, rows.Err()
}

func scanManyPg(rows pgx.Rows) (*node.Node, error) {
	arr := node.NewArray()
	for rows.Next() {
		n, err := rowToNode(rows)
		if err != nil {
			return nil, err
		}
		arr.Append(n)
	}
	return arr, rows.Err()
}

func rowToNode(rows pgx.Rows) (*node.Node, error) {
	vals, err := rows.Values()
	if err != nil {
		return nil, errors.Wrap(err, "scan row")
	}
	obj := node.NewObject()
	for i, fd := range rows.FieldDescriptions() {
		obj.Set(string(fd.Name), valueToNode(vals[i]))
	}
	return obj, nil
}

func valueToNode(v interface{}) *node.Node {
	switch t := v.(type) {
	case nil:
		return node.NewNull()
	case bool:
		return node.NewBool(t)
	case string:
		return node.NewText(t)
	case []byte:
		return node.NewText(string(t))
	case int64:
		return node.NewNumber(float64(t))
	case int32:
		return node.NewNumber(float64(t))
	case float64:
		return node.NewNumber(t)
	case float32:
		return node.NewNumber(float64(t))
	default:
		return node.NewText(fmt.Sprint(t))
	}
}

// splitSymbol strips the "?"/"[]" suffix the resolver appends, reporting
// whether the request wants every matching row ("[]", the default for no
// recognised suffix) or just one ("?").
func splitSymbol(collection string) (table string, many bool) {
	switch {
	case strings.HasSuffix(collection, "?"):
		return strings.TrimSuffix(collection, "?"), false
	case strings.HasSuffix(collection, "[]"):
		return strings.TrimSuffix(collection, "[]"), true
	default:
		return collection, true
	}
}

// sanitizeIdentifier derives a safe SQL table/collection identifier from a
// dataset name of otherwise-unconstrained provenance (a dictionary entry
// or a merge template's own text), collapsing it through gosimple/slug and
// swapping its hyphen word-separators for underscores so ordinary
// "snake_case" table names still round-trip, while anything that isn't a
// letter, digit, or separator is dropped instead of reaching the query
// string unescaped.
func sanitizeIdentifier(name string) string {
	return strings.ReplaceAll(slug.Make(name), "-", "_")
}
