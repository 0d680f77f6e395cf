package database

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

const (
	pgUniqueViolation    = "23505"
	mysqlDuplicateEntry  = 1062
	mysqlDuplicateKeyTag = "for key '"
)

// UniqueViolation reports whether err is a unique constraint violation raised by
// PostgreSQL or MySQL, returning the name of the violated constraint when the driver
// exposes it. MySQL 8 reports keys as "table.key"; only the key part is returned.
func UniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if string(pqErr.Code) != pgUniqueViolation {
			return "", false
		}
		return pqErr.Constraint, true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if myErr.Number != mysqlDuplicateEntry {
			return "", false
		}
		return mysqlKeyName(myErr.Message), true
	}

	return "", false
}

// mysqlKeyName extracts the key name from "Duplicate entry 'x' for key 'table.key_name'".
func mysqlKeyName(message string) string {
	idx := strings.LastIndex(message, mysqlDuplicateKeyTag)
	if idx < 0 {
		return ""
	}
	key := strings.TrimSuffix(message[idx+len(mysqlDuplicateKeyTag):], "'")
	if dot := strings.LastIndex(key, "."); dot >= 0 {
		key = key[dot+1:]
	}
	return key
}
