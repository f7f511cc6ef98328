package persistence

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Execer is the subset of pgxpool.Pool used for seeding.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SeedStatuses are the reference workflow labels with display colors.
var SeedStatuses = []domain.Status{
	{ID: 1, Name: "Open", Color: "#3B82F6"},
	{ID: 2, Name: "In Progress", Color: "#F59E0B"},
	{ID: 3, Name: "Resolved", Color: "#10B981"},
	{ID: 4, Name: "Closed", Color: "#6B7280"},
}

// SeedRoles pins the role ids the Role enum relies on.
var SeedRoles = []struct {
	ID   domain.Role
	Name string
}{
	{ID: domain.RoleAdmin, Name: "Admin"},
	{ID: domain.RoleSupport, Name: "Support"},
}

// Seed inserts reference Status and Role rows. Re-running is a no-op: inserts
// skip rows whose id already exists. A nil pool (no POSTGRES_DSN configured)
// skips seeding entirely; the nil check must happen on the concrete pointer,
// an interface holding a typed nil would slip past it.
func Seed(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool available; skipping seed")
		return nil
	}
	return seedRows(ctx, pool, logger)
}

func seedRows(ctx context.Context, db Execer, logger *zap.Logger) error {
	const statusInsert = `
        INSERT INTO statuses (id, name, color) VALUES ($1, $2, $3)
        ON CONFLICT (id) DO NOTHING`
	for _, status := range SeedStatuses {
		if _, err := db.Exec(ctx, statusInsert, status.ID, status.Name, status.Color); err != nil {
			return err
		}
	}

	const roleInsert = `
        INSERT INTO roles (id, name) VALUES ($1, $2)
        ON CONFLICT (id) DO NOTHING`
	for _, role := range SeedRoles {
		if _, err := db.Exec(ctx, roleInsert, role.ID, role.Name); err != nil {
			return err
		}
	}

	logger.Info("seed applied",
		zap.Int("statuses", len(SeedStatuses)),
		zap.Int("roles", len(SeedRoles)))
	return nil
}
