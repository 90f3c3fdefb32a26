// Package testutil provides an in-memory database/sql driver that understands
// the handful of statement shapes the postgres checkpoint transport issues.
package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// StubConn records statements and keeps table rows in memory.
type StubConn struct {
	mu         sync.Mutex
	Execs      []string
	Tables     map[string][]map[string]any
	FailExec   bool
	FailPing   bool
	FailTables map[string]bool
	RowsErr    error
}

// NewStubDB registers a sql.DB backed by an in-memory stub connection.
func NewStubDB() (*sql.DB, *StubConn) {
	conn := &StubConn{Tables: make(map[string][]map[string]any)}
	name := fmt.Sprintf("stubpg%d", time.Now().UnixNano())
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, conn
}

type stubDriver struct {
	conn *StubConn
}

func (d *stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

// Prepare implements driver.Conn.
func (c *StubConn) Prepare(string) (driver.Stmt, error) { return nil, fmt.Errorf("not implemented") }

// Close implements driver.Conn.
func (c *StubConn) Close() error { return nil }

// Begin implements driver.Conn.
func (c *StubConn) Begin() (driver.Tx, error) { return stubTx{}, nil }

// Ping implements driver.Pinger.
func (c *StubConn) Ping(_ context.Context) error {
	if c.FailPing {
		return fmt.Errorf("ping fail")
	}
	return nil
}

// ExecContext implements driver.ExecerContext.
func (c *StubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Execs = append(c.Execs, query)
	if c.FailExec {
		return nil, fmt.Errorf("exec fail")
	}
	upper := strings.ToUpper(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(upper, "INSERT INTO"):
		table, cols, err := parseInsert(query)
		if err != nil {
			return nil, err
		}
		if c.FailTables[table] {
			return nil, fmt.Errorf("exec fail for %s", table)
		}
		if len(cols) != len(args) {
			return nil, fmt.Errorf("column/arg mismatch for %s", table)
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = args[i].Value
		}
		if strings.Contains(upper, "ON CONFLICT") {
			c.Tables[table] = without(c.Tables[table], cols[0], row[cols[0]])
		}
		c.Tables[table] = append(c.Tables[table], row)
		return driver.RowsAffected(1), nil
	case strings.HasPrefix(upper, "DELETE FROM"):
		table, col, err := parseDelete(query)
		if err != nil {
			return nil, err
		}
		if len(args) == 0 {
			return nil, fmt.Errorf("missing args for delete %s", table)
		}
		before := len(c.Tables[table])
		c.Tables[table] = without(c.Tables[table], col, args[0].Value)
		return driver.RowsAffected(before - len(c.Tables[table])), nil
	}
	return driver.RowsAffected(0), nil
}

// QueryContext implements driver.QueryerContext. Supported predicates are
// `col = $1` and `starts_with(col, $1)`; `ORDER BY col` sorts ascending.
func (c *StubConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sel, err := parseSelect(query)
	if err != nil {
		return nil, err
	}
	if c.FailTables[sel.table] {
		return nil, fmt.Errorf("query fail for %s", sel.table)
	}
	var matched []map[string]any
	for _, row := range c.Tables[sel.table] {
		if sel.matches(row, args) {
			matched = append(matched, row)
		}
	}
	if sel.orderBy != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			return fmt.Sprint(matched[i][sel.orderBy]) < fmt.Sprint(matched[j][sel.orderBy])
		})
	}
	values := make([][]driver.Value, 0, len(matched))
	for _, row := range matched {
		vals := make([]driver.Value, len(sel.cols))
		for i, col := range sel.cols {
			vals[i] = project(row, col)
		}
		values = append(values, vals)
	}
	return &stubRows{cols: sel.cols, rows: values, err: c.RowsErr}, nil
}

// Rows returns a copy of the rows stored for table.
func (c *StubConn) Rows(table string) []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]map[string]any(nil), c.Tables[table]...)
}

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

type stubRows struct {
	cols []string
	rows [][]driver.Value
	idx  int
	err  error
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		if r.err != nil {
			return r.err
		}
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}

func without(rows []map[string]any, col string, v any) []map[string]any {
	var out []map[string]any
	for _, row := range rows {
		if row[col] == v {
			continue
		}
		out = append(out, row)
	}
	return out
}

func project(row map[string]any, col string) driver.Value {
	if inner, ok := strings.CutPrefix(col, "octet_length("); ok {
		b, _ := row[strings.TrimSuffix(inner, ")")].([]byte)
		return int64(len(b))
	}
	return row[col]
}

type selectStmt struct {
	table   string
	cols    []string
	where   string // column the predicate applies to
	prefix  bool   // starts_with instead of equality
	orderBy string
}

func (s selectStmt) matches(row map[string]any, args []driver.NamedValue) bool {
	if s.where == "" {
		return true
	}
	if len(args) == 0 {
		return false
	}
	if s.prefix {
		v, _ := row[s.where].(string)
		p, _ := args[0].Value.(string)
		return strings.HasPrefix(v, p)
	}
	return row[s.where] == args[0].Value
}

func parseInsert(query string) (string, []string, error) {
	up := strings.ToUpper(query)
	intoIdx := strings.Index(up, "INTO ")
	if intoIdx == -1 {
		return "", nil, fmt.Errorf("cannot parse insert: %s", query)
	}
	rest := strings.TrimSpace(query[intoIdx+len("INTO "):])
	open := strings.Index(rest, "(")
	closeIdx := strings.Index(rest, ")")
	if open == -1 || closeIdx == -1 || closeIdx <= open {
		return "", nil, fmt.Errorf("cannot parse insert: %s", query)
	}
	table := strings.ToLower(strings.TrimSpace(rest[:open]))
	return table, splitColumns(rest[open+1 : closeIdx]), nil
}

func parseDelete(query string) (string, string, error) {
	lower := strings.ToLower(strings.TrimSpace(query))
	rest, ok := strings.CutPrefix(lower, "delete from ")
	if !ok {
		return "", "", fmt.Errorf("cannot parse delete: %s", query)
	}
	table, where, ok := strings.Cut(rest, " where ")
	if !ok {
		return "", "", fmt.Errorf("cannot parse delete: %s", query)
	}
	col, _, ok := strings.Cut(where, "=")
	if !ok {
		return "", "", fmt.Errorf("cannot parse delete predicate: %s", query)
	}
	return strings.TrimSpace(table), strings.TrimSpace(col), nil
}

func parseSelect(query string) (selectStmt, error) {
	lower := strings.ToLower(strings.Join(strings.Fields(query), " "))
	rest, ok := strings.CutPrefix(lower, "select ")
	if !ok {
		return selectStmt{}, fmt.Errorf("cannot parse select: %s", query)
	}
	cols, rest, ok := strings.Cut(rest, " from ")
	if !ok {
		return selectStmt{}, fmt.Errorf("cannot parse select: %s", query)
	}
	stmt := selectStmt{cols: splitColumns(cols)}
	if head, order, found := strings.Cut(rest, " order by "); found {
		rest = head
		stmt.orderBy = strings.Fields(order)[0]
	}
	table, where, hasWhere := strings.Cut(rest, " where ")
	stmt.table = strings.TrimSpace(table)
	if stmt.table == "" {
		return selectStmt{}, fmt.Errorf("cannot parse select: %s", query)
	}
	if hasWhere {
		where = strings.TrimSpace(where)
		if inner, found := strings.CutPrefix(where, "starts_with("); found {
			col, _, _ := strings.Cut(inner, ",")
			stmt.where, stmt.prefix = strings.TrimSpace(col), true
		} else {
			col, _, _ := strings.Cut(where, "=")
			stmt.where = strings.TrimSpace(col)
		}
	}
	return stmt, nil
}

// splitColumns splits a column list on top-level commas.
func splitColumns(raw string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range raw {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.ToLower(strings.TrimSpace(raw[start:i])))
				start = i + 1
			}
		}
	}
	return append(out, strings.ToLower(strings.TrimSpace(raw[start:])))
}
