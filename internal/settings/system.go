package settings

import "context"

// System defines platform settings operations.
type System interface {
	All(ctx context.Context) ([]Setting, error)
	Get(ctx context.Context, key string) (*Setting, error)
	Set(ctx context.Context, key string, cmd UpdateCommand) (*Setting, error)

	Handler() *Handler
}
