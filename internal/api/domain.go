package api

import (
	"github.com/opsfield/intake/internal/assets"
	"github.com/opsfield/intake/internal/batches"
	"github.com/opsfield/intake/internal/exports"
	"github.com/opsfield/intake/internal/qc"
	"github.com/opsfield/intake/internal/settings"
	"github.com/opsfield/intake/internal/supervisor"
	"github.com/opsfield/intake/internal/uploads"
	"github.com/opsfield/intake/internal/users"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Users      users.System
	Assets     assets.System
	Uploads    uploads.System
	QC         qc.System
	Batches    batches.System
	Supervisor supervisor.System
	Exports    exports.System
	Settings   settings.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	return &Domain{
		Users:      users.New(db, runtime.Logger, runtime.Pagination),
		Assets:     assets.New(db, runtime.Logger, runtime.Pagination),
		Uploads:    uploads.New(db, runtime.Storage, runtime.Logger, runtime.Pagination),
		QC:         qc.New(db, runtime.Logger, runtime.Pagination),
		Batches:    batches.New(db, runtime.Logger, runtime.Pagination, runtime.BatchSize),
		Supervisor: supervisor.New(db, runtime.Logger, runtime.Pagination),
		Exports:    exports.New(db, runtime.Logger),
		Settings:   settings.New(db, runtime.Logger),
	}
}
