// Package sqliteplaces reads restaurant records out of the SQLite store
// produced by the place-collection scripts. The store is only ever opened
// read-only; its WAL and shared-memory sidecar files belong to the
// collector and are left untouched.
package sqliteplaces

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/goliatone/go-places-export/export"
)

// Open opens the store file read-only. A missing file is reported up front
// so no output is produced for a store that does not exist.
func Open(path string) (*bun.DB, error) {
	if path == "" {
		return nil, export.NewError(export.KindValidation, "store path is required", nil)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, export.NewError(export.KindNotFound,
				fmt.Sprintf("store %q not found", path), err)
		}
		return nil, export.NewError(export.KindNotFound,
			fmt.Sprintf("store %q not readable", path), err)
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, "file:"+path+"?mode=ro")
	if err != nil {
		return nil, export.NewError(export.KindInternal,
			fmt.Sprintf("open store %q", path), err)
	}

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}
