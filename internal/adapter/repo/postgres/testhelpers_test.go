package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// assign copies vals into scan destinations; nil leaves the zero value.
func assign(dest []any, vals []any) error {
	if len(dest) != len(vals) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(vals))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if vals[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		v := reflect.ValueOf(vals[i])
		if !v.Type().AssignableTo(target.Type()) {
			return fmt.Errorf("scan: column %d: cannot assign %s to %s", i, v.Type(), target.Type())
		}
		target.Set(v)
	}
	return nil
}

// rowStub implements pgx.Row
type rowStub struct {
	vals []any
	err  error
}

func (r rowStub) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.vals)
}

// rowsStub implements pgx.Rows over canned values.
type rowsStub struct {
	data [][]any
	i    int
	err  error
}

func (r *rowsStub) Close()                                       {}
func (r *rowsStub) Err() error                                   { return r.err }
func (r *rowsStub) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *rowsStub) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *rowsStub) RawValues() [][]byte                          { return nil }
func (r *rowsStub) Conn() *pgx.Conn                              { return nil }

func (r *rowsStub) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *rowsStub) Scan(dest ...any) error { return assign(dest, r.data[r.i-1]) }

func (r *rowsStub) Values() ([]any, error) { return r.data[r.i-1], nil }

// poolStub implements postgres.PgxPool for tests.
type poolStub struct {
	execErr  error
	row      rowStub
	rows     map[string][][]any
	queryErr error
	queries  []string
}

func (p *poolStub) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	p.queries = append(p.queries, sql)
	return pgconn.CommandTag{}, p.execErr
}

func (p *poolStub) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	p.queries = append(p.queries, sql)
	if p.row.vals == nil && p.row.err == nil {
		return rowStub{err: errors.New("no row configured")}
	}
	return p.row
}

// Query serves rows keyed by the table named in the FROM clause.
func (p *poolStub) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	p.queries = append(p.queries, sql)
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	for table, data := range p.rows {
		if containsFrom(sql, table) {
			return &rowsStub{data: data}, nil
		}
	}
	return &rowsStub{}, nil
}

func containsFrom(sql, table string) bool {
	return strings.Contains(sql, "FROM "+table+" ")
}
