//go:build cgo_sqlite

package storage

import (
	_ "github.com/mattn/go-sqlite3" // CGO SQLite driver
)

// driverName selects the database/sql driver for SQLiteBacking.
// Built with -tags cgo_sqlite this uses mattn/go-sqlite3, which links the C
// library and is noticeably faster on write-heavy workloads.
const driverName = "sqlite3"
