// Package repository implements the MySQL persistence layer. Lookups return
// (nil, nil) for missing rows so callers branch on data, not on sql.ErrNoRows.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrDuplicateEntry is returned when an insert collides with a unique index
// (email, profile_id, product_id). Handlers translate it into HTTP 409.
var ErrDuplicateEntry = errors.New("duplicate entry")

// mysql error 1062: duplicate entry for a unique key.
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
