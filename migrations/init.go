package migrations

import (
	"io/fs"

	activitylog "github.com/goliatone/go-activitylog"
)

func init() {
	coreFS, err := fs.Sub(activitylog.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return
	}
	Register(coreFS)
}
