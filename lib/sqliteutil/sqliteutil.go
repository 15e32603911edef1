package sqliteutil

import (
	"database/sql"
	"strings"
)

// OpenDB opens a sqlite database at `path` (`:memory:` works) and applies
// the given schema. Re-applying a schema that already exists is not an
// error. The caller is expected to blank-import a sqlite driver.
func OpenDB(schema, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		db.Close()
		return nil, err
	}
	return db, nil
}
