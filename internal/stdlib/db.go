package stdlib

import (
	"database/sql"
	"fmt"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ilex-lang/ilex/internal/machine"
	"github.com/ilex-lang/ilex/internal/native"
	"github.com/ilex-lang/ilex/internal/reducer"
	"github.com/ilex-lang/ilex/internal/value"
)

// DB wraps database/sql connections as Opaque values (category
// "DB.conn"). The four drivers (sqlite3/mysql/postgres/mssql) are
// blank-imported for their side-effecting driver registration and
// exercised through DB.open/DB.query/DB.exec/DB.close. Rows reduce to
// a System.cons-list of System.object tuples, one object per row.
type DB struct{}

func (DB) Imports() []string { return []string{"System"} }

func (DB) Exports(m *machine.Machine, r *reducer.Reducer) []value.Combinator {
	nilData := m.GetDataString("System", "nil")
	consData := m.GetDataString("System", "cons")
	objectData := m.GetDataString("System", "object")
	dbErr := m.GetDataString("DB", "error")
	nop := m.GetDataString("System", "nop")

	def := func(local string, class native.ArityClass, body native.Body) value.Combinator {
		return native.New(m.EnterSymbol("DB", local), "DB", local, class, body)
	}

	open := def("open", native.Dyadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
		driver, ok1 := args[0].(value.Text)
		dsn, ok2 := args[1].(value.Text)
		if !ok1 || !ok2 {
			return nil, value.Bottom, nil
		}
		conn, err := sql.Open(string(driver), string(dsn))
		if err != nil {
			return nil, value.Thrown, dbErr
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, value.Thrown, dbErr
		}
		return value.Opaque{Category: "DB.conn", Handle: conn, Less: dbConnLess}, value.OK, nil
	})

	query := def("query", native.Dyadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
		conn, ok := dbConnOf(args[0])
		if !ok {
			return nil, value.Bottom, nil
		}
		stmt, ok := args[1].(value.Text)
		if !ok {
			return nil, value.Bottom, nil
		}
		rows, err := conn.Query(string(stmt))
		if err != nil {
			return nil, value.Thrown, dbErr
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			return nil, value.Thrown, dbErr
		}

		var tuples []value.Value
		for rows.Next() {
			raw := make([]interface{}, len(cols))
			ptrs := make([]interface{}, len(cols))
			for i := range raw {
				ptrs[i] = &raw[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return nil, value.Thrown, dbErr
			}
			elems := []value.Value{objectData}
			for i, col := range cols {
				elems = append(elems, value.Text(col), sqlToValue(raw[i]))
			}
			tuples = append(tuples, value.NewArray(elems...))
		}

		list := value.Value(nilData)
		for i := len(tuples) - 1; i >= 0; i-- {
			list = value.NewArray(consData, tuples[i], list)
		}
		return list, value.OK, nil
	})

	exec := def("exec", native.Dyadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
		conn, ok := dbConnOf(args[0])
		if !ok {
			return nil, value.Bottom, nil
		}
		stmt, ok := args[1].(value.Text)
		if !ok {
			return nil, value.Bottom, nil
		}
		result, err := conn.Exec(string(stmt))
		if err != nil {
			return nil, value.Thrown, dbErr
		}
		n, _ := result.RowsAffected()
		return value.Int(n), value.OK, nil
	})

	closeConn := def("close", native.Monadic, func(args []value.Value) (value.Value, value.Outcome, value.Value) {
		conn, ok := dbConnOf(args[0])
		if !ok {
			return nil, value.Bottom, nil
		}
		_ = conn.Close()
		return nop, value.OK, nil
	})

	return []value.Combinator{open, query, exec, closeConn}
}

func dbConnLess(a, b interface{}) bool {
	return fmt.Sprintf("%p", a.(*sql.DB)) < fmt.Sprintf("%p", b.(*sql.DB))
}

func dbConnOf(v value.Value) (*sql.DB, bool) {
	o, ok := v.(value.Opaque)
	if !ok || o.Category != "DB.conn" {
		return nil, false
	}
	conn, ok := o.Handle.(*sql.DB)
	return conn, ok
}

// sqlToValue converts a database/sql scan result into the runtime's
// tagged value model.
func sqlToValue(raw interface{}) value.Value {
	switch v := raw.(type) {
	case nil:
		return value.Text("")
	case int64:
		return value.Int(v)
	case float64:
		return value.Float(v)
	case []byte:
		return value.Text(string(v))
	case string:
		return value.Text(v)
	case bool:
		if v {
			return value.Int(1)
		}
		return value.Int(0)
	default:
		return value.Text(fmt.Sprintf("%v", v))
	}
}
