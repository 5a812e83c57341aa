package db

import (
	"database/sql"
)

// Entry describes one stored key
type Entry struct {
	Key       string
	Size      int64
	UpdatedAt sql.NullTime
}
