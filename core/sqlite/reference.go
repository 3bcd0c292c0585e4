package sqlite

import (
	"database/sql"
)

// DriverName returns the database/sql driver name of the reference SQLite.
func DriverName() string {
	return driverName
}

// DriverType returns a string identifying the reference implementation.
// Returns "cgo" for mattn/go-sqlite3, "purego" for modernc.org/sqlite.
func DriverType() string {
	return driverType
}

// IsCGO returns true if the reference SQLite is the CGO implementation.
func IsCGO() bool {
	return driverType == "cgo"
}

// OpenReference opens path with the reference SQLite driver. It is used to
// cross-check query results and to write test fixtures.
func OpenReference(path string) (*sql.DB, error) {
	return sql.Open(driverName, path)
}

// OpenReferenceReadOnly opens path with the reference driver in read-only mode.
func OpenReferenceReadOnly(path string) (*sql.DB, error) {
	return OpenReference("file:" + path + "?mode=ro")
}

// Info describes the reference driver configuration.
type Info struct {
	DriverName string `json:"driver_name"`
	DriverType string `json:"driver_type"`
	IsCGO      bool   `json:"is_cgo"`
	Package    string `json:"package"`
}

// GetInfo returns information about the reference driver.
func GetInfo() Info {
	return Info{
		DriverName: driverName,
		DriverType: driverType,
		IsCGO:      IsCGO(),
		Package:    driverPackage,
	}
}
