package exports

import (
	"context"
	"io"
)

// System defines export and reporting operations.
type System interface {
	ExportCSV(ctx context.Context, w io.Writer, filters Filters) error
	ExportStats(ctx context.Context, filters Filters) (Stats, error)
	Options(ctx context.Context) (FilterOptions, error)
	Progress(ctx context.Context) (Progress, error)

	Handler() *Handler
}
