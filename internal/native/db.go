package native

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"rite/internal/object"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Database handles are numeric so scripts can hold them in plain
// variables. The table lives for the lifetime of the process; scripts
// are expected to call db_close when done.
var (
	dbConnections = map[int64]*sql.DB{}
	nextDBHandle  int64
)

func dbFunctions() map[string]Fn {
	return map[string]Fn{
		"db_connect": fnDbConnect,
		"db_query":   fnDbQuery,
		"db_exec":    fnDbExec,
		"db_close":   fnDbClose,
	}
}

func fnDbConnect(args []object.Object) object.Object {
	if len(args) != 2 {
		return argCountError("db_connect", 2, len(args))
	}
	driver, ok := args[0].(*object.String)
	if !ok {
		return object.NewError(object.TypeError, -1,
			"db_connect driver must be a string, got %s", args[0].Type())
	}
	dsn, ok := args[1].(*object.String)
	if !ok {
		return object.NewError(object.TypeError, -1,
			"db_connect dsn must be a string, got %s", args[1].Type())
	}

	db, err := sql.Open(driver.Value, dsn.Value)
	if err != nil {
		return object.NewError(object.NativeError, -1, "failed to open connection: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return object.NewError(object.NativeError, -1, "failed to ping database: %v", err)
	}

	nextDBHandle++
	dbConnections[nextDBHandle] = db
	return &object.Number{Value: float64(nextDBHandle)}
}

// fnDbQuery renders the result set as text, one row per line with
// tab-separated columns, headed by the column names.
func fnDbQuery(args []object.Object) object.Object {
	db, query, params, errObj := unpackStatement("db_query", args)
	if errObj != nil {
		return errObj
	}

	rows, err := db.Query(query, params...)
	if err != nil {
		return object.NewError(object.NativeError, -1, "query failed: %v", err)
	}
	defer rows.Close()

	return renderRows(rows)
}

func fnDbExec(args []object.Object) object.Object {
	db, query, params, errObj := unpackStatement("db_exec", args)
	if errObj != nil {
		return errObj
	}

	result, err := db.Exec(query, params...)
	if err != nil {
		return object.NewError(object.NativeError, -1, "exec failed: %v", err)
	}

	affected, _ := result.RowsAffected()
	return &object.Number{Value: float64(affected)}
}

func fnDbClose(args []object.Object) object.Object {
	if len(args) != 1 {
		return argCountError("db_close", 1, len(args))
	}
	handle, ok := args[0].(*object.Number)
	if !ok {
		return object.NewError(object.TypeError, -1,
			"db_close expects a connection handle, got %s", args[0].Type())
	}
	id := int64(handle.Value)
	if db, ok := dbConnections[id]; ok {
		db.Close()
		delete(dbConnections, id)
	}
	return object.NONE
}

func unpackStatement(name string, args []object.Object) (*sql.DB, string, []interface{}, object.Object) {
	if len(args) < 2 {
		return nil, "", nil, object.NewError(object.TypeError, -1,
			"%s expects at least 2 arguments: connection, sql", name)
	}
	handle, ok := args[0].(*object.Number)
	if !ok {
		return nil, "", nil, object.NewError(object.TypeError, -1,
			"%s expects a connection handle, got %s", name, args[0].Type())
	}
	query, ok := args[1].(*object.String)
	if !ok {
		return nil, "", nil, object.NewError(object.TypeError, -1,
			"%s expects a sql string, got %s", name, args[1].Type())
	}

	db, ok := dbConnections[int64(handle.Value)]
	if !ok {
		return nil, "", nil, object.NewError(object.NativeError, -1, "invalid connection handle")
	}

	params := make([]interface{}, len(args)-2)
	for i := 2; i < len(args); i++ {
		params[i-2] = driverValue(args[i])
	}
	return db, query.Value, params, nil
}

func driverValue(obj object.Object) interface{} {
	switch obj := obj.(type) {
	case *object.Number:
		return obj.Value
	case *object.String:
		return obj.Value
	case *object.Boolean:
		return obj.Value
	case *object.None:
		return nil
	default:
		return obj.Inspect()
	}
}

func renderRows(rows *sql.Rows) object.Object {
	columns, err := rows.Columns()
	if err != nil {
		return object.NewError(object.NativeError, -1, "query failed: %v", err)
	}

	var out strings.Builder
	out.WriteString(strings.Join(columns, "\t"))

	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return object.NewError(object.NativeError, -1, "scan failed: %v", err)
		}

		out.WriteByte('\n')
		for i, v := range values {
			if i > 0 {
				out.WriteByte('\t')
			}
			out.WriteString(renderValue(v))
		}
	}
	if err := rows.Err(); err != nil {
		return object.NewError(object.NativeError, -1, "query failed: %v", err)
	}

	return &object.String{Value: out.String()}
}

func renderValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "none"
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", x)
	}
}
