package db

import (
	"database/sql"
	"time"

	"github.com/zecrev/codez/config"
	"github.com/zecrev/codez/log"
)

// QueryParam represents a parameter for database queries
type QueryParam interface{}

var shouldLogQueries bool

func init() {
	shouldLogQueries = config.Get().DBLogQueries
}

func logQuery(kind string, sql string, params []QueryParam) {
	if !shouldLogQueries {
		return
	}
	log.Debug().
		Str("kind", kind).
		Str("sql", sql).
		Interface("params", params).
		Msg("db query")
}

// NowMs returns the current time as Unix milliseconds
func NowMs() int64 {
	return time.Now().UnixMilli()
}

// SelectOne runs a SELECT query returning a single row (or nil if not found)
func SelectOne[T any](query string, params []QueryParam, scanner func(*sql.Row) (T, error)) (*T, error) {
	logQuery("get", query, params)

	args := make([]interface{}, len(params))
	for i, p := range params {
		args[i] = p
	}

	row := GetDB().QueryRow(query, args...)
	result, err := scanner(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Run executes an INSERT/UPDATE/DELETE query
func Run(query string, params ...QueryParam) (sql.Result, error) {
	logQuery("run", query, params)

	args := make([]interface{}, len(params))
	for i, p := range params {
		args[i] = p
	}

	return GetDB().Exec(query, args...)
}
