package settings

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/opsfield/intake/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a settings repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "settings"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

const settingColumns = "key, value, updated_at"

func scanSetting(s repository.Scanner) (Setting, error) {
	var setting Setting
	err := s.Scan(&setting.Key, &setting.Value, &setting.UpdatedAt)
	return setting, err
}

func (r *repo) All(ctx context.Context) ([]Setting, error) {
	sqlText := fmt.Sprintf(
		"SELECT %s FROM system_settings ORDER BY key", settingColumns)

	list, err := repository.QueryMany(ctx, r.db, sqlText, nil, scanSetting)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}

	return list, nil
}

func (r *repo) Get(ctx context.Context, key string) (*Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrValidation
	}

	sqlText := fmt.Sprintf(
		"SELECT %s FROM system_settings WHERE key = $1", settingColumns)

	setting, err := repository.QueryOne(ctx, r.db, sqlText, []any{key}, scanSetting)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrValidation)
	}

	return &setting, nil
}

func (r *repo) Set(ctx context.Context, key string, cmd UpdateCommand) (*Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrValidation
	}

	if key == KeyAutoAssign {
		value := strings.ToLower(strings.TrimSpace(cmd.Value))
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("%w: %s must be true or false", ErrValidation, KeyAutoAssign)
		}
		cmd.Value = value
	}

	sqlText := fmt.Sprintf(`
		INSERT INTO system_settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = now()
		RETURNING %s`, settingColumns)

	setting, err := repository.QueryOne(ctx, r.db, sqlText, []any{key, cmd.Value}, scanSetting)
	if err != nil {
		return nil, fmt.Errorf("update setting %s: %w", key, err)
	}

	r.logger.Info("setting updated", "key", key, "value", setting.Value)
	return &setting, nil
}
