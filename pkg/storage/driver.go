//go:build !cgo_sqlite

package storage

import (
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// driverName selects the database/sql driver for SQLiteBacking.
// The default build uses the CGO-free modernc driver.
const driverName = "sqlite"
