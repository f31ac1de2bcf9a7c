package users

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/opsfield/intake/internal/auth"
	"github.com/opsfield/intake/pkg/pagination"
	"github.com/opsfield/intake/pkg/query"
	"github.com/opsfield/intake/pkg/repository"
)

const userColumns = "id, username, email, first_name, last_name, role, is_active, last_login, created_at, updated_at"

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a user repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "users"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[User], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Username", "Email", "LastName")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	result, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanUser)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	paged := pagination.NewPageResult(result, total, page.Page, page.PageSize)
	return &paged, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*User, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	u, err := repository.QueryOne(ctx, r.db, q, args, scanUser)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &u, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*User, error) {
	username := strings.TrimSpace(cmd.Username)
	email := strings.TrimSpace(cmd.Email)
	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email required", ErrValidation)
	}

	role, err := auth.ParseRole(cmd.Role)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		INSERT INTO users(id, username, email, first_name, last_name, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, userColumns)

	insertArgs := []any{
		uuid.New(),
		username,
		email,
		strings.TrimSpace(cmd.FirstName),
		strings.TrimSpace(cmd.LastName),
		role,
	}

	u, err := repository.QueryOne(ctx, r.db, q, insertArgs, scanUser)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("user created", "id", u.ID, "username", u.Username, "role", u.Role)
	return &u, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*User, error) {
	if cmd.Username != nil && strings.TrimSpace(*cmd.Username) == "" {
		return nil, fmt.Errorf("%w: username required", ErrValidation)
	}
	if cmd.Email != nil && strings.TrimSpace(*cmd.Email) == "" {
		return nil, fmt.Errorf("%w: email required", ErrValidation)
	}
	if cmd.Role != nil {
		if _, err := auth.ParseRole(*cmd.Role); err != nil {
			return nil, err
		}
	}

	q := fmt.Sprintf(`
		UPDATE users
		SET username = COALESCE($2, username),
		    email = COALESCE($3, email),
		    first_name = COALESCE($4, first_name),
		    last_name = COALESCE($5, last_name),
		    role = COALESCE($6, role),
		    is_active = COALESCE($7, is_active),
		    updated_at = now()
		WHERE id = $1
		RETURNING %s`, userColumns)

	updateArgs := []any{
		id,
		cmd.Username,
		cmd.Email,
		cmd.FirstName,
		cmd.LastName,
		cmd.Role,
		cmd.IsActive,
	}

	u, err := repository.QueryOne(ctx, r.db, q, updateArgs, scanUser)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("user updated", "id", u.ID)
	return &u, nil
}

func (r *repo) Delete(ctx context.Context, id, actor uuid.UUID) error {
	if id == actor {
		return ErrSelfDelete
	}

	if err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM users WHERE id = $1",
		id,
	); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("user deleted", "id", id)
	return nil
}

func (r *repo) Stats(ctx context.Context) (*Stats, error) {
	byRole, err := repository.QueryMany(ctx, r.db, `
		SELECT role, COUNT(*), COUNT(*) FILTER (WHERE is_active)
		FROM users
		GROUP BY role
		ORDER BY role`, nil,
		func(s repository.Scanner) (RoleCount, error) {
			var rc RoleCount
			err := s.Scan(&rc.Role, &rc.Total, &rc.Active)
			return rc, err
		})
	if err != nil {
		return nil, fmt.Errorf("query user stats: %w", err)
	}

	stats := Stats{ByRole: byRole}
	for _, rc := range byRole {
		stats.Total += rc.Total
		stats.Active += rc.Active
	}
	stats.Inactive = stats.Total - stats.Active

	return &stats, nil
}
