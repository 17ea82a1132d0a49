package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Resolver computes the set of identities a requester may observe. It is
// read-only: resolution never mutates group membership or any other directory
// state.
type Resolver struct {
	pool *pgxpool.Pool
}

// NewResolver constructs a visibility Resolver backed by PostgreSQL.
func NewResolver(pool *pgxpool.Pool) *Resolver {
	return &Resolver{pool: pool}
}

// VisibleTo returns the identities visible to requester, de-duplicated by id
// and sorted by id for stable pagination. All reads run inside one
// repeatable-read transaction so the result reflects a consistent snapshot of
// the directory.
func (r *Resolver) VisibleTo(ctx context.Context, requester *User) ([]User, error) {
	if requester == nil {
		return nil, Errf(KindValidation, "requester is required")
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, wrapStorage(err, "failed to begin read transaction")
	}
	defer tx.Rollback(ctx)

	var visible []User
	switch requester.Role {
	case RoleSuperAdmin:
		visible, err = r.queryUsers(ctx, tx, fmt.Sprintf(`SELECT %s FROM users`, userColumns))
	case RoleAdmin:
		visible, err = r.adminVisible(ctx, tx, requester)
	case RoleUnitManager:
		visible, err = r.unitManagerVisible(ctx, tx, requester)
	case RoleUser:
		var self *User
		self, err = scanUser(tx.QueryRow(ctx,
			fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns), requester.ID))
		if err == nil {
			visible = []User{*self}
		}
	default:
		visible = []User{}
	}
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, wrapStorage(err, "failed to commit read transaction")
	}

	return dedupeByID(visible), nil
}

// adminVisible is a two-hop transitive closure: the admin's peer group, the
// UNIT_MANAGERs it created or groups with, and the USERs those UNIT_MANAGERs
// created.
func (r *Resolver) adminVisible(ctx context.Context, tx pgx.Tx, requester *User) ([]User, error) {
	group := requester.AdminGroup
	if group == nil {
		group = []int{}
	}

	peers, err := r.queryUsers(ctx, tx,
		fmt.Sprintf(`SELECT %s FROM users WHERE id = ANY($1)`, userColumns), group)
	if err != nil {
		return nil, err
	}

	managers, err := r.queryUsers(ctx, tx, fmt.Sprintf(`
		SELECT %s FROM users
		WHERE role = $1 AND (created_by = $2 OR id = ANY($3))`, userColumns),
		string(RoleUnitManager), requester.ID, group)
	if err != nil {
		return nil, err
	}

	managerIDs := make([]int, 0, len(managers))
	for _, m := range managers {
		managerIDs = append(managerIDs, m.ID)
	}
	users, err := r.queryUsers(ctx, tx, fmt.Sprintf(`
		SELECT %s FROM users
		WHERE role = $1 AND created_by = ANY($2)`, userColumns),
		string(RoleUser), managerIDs)
	if err != nil {
		return nil, err
	}

	visible := make([]User, 0, len(peers)+len(managers)+len(users))
	visible = append(visible, peers...)
	visible = append(visible, managers...)
	visible = append(visible, users...)
	return visible, nil
}

// unitManagerVisible gathers USERs created directly by the requester plus
// USERs listed in the requester's unit group.
func (r *Resolver) unitManagerVisible(ctx context.Context, tx pgx.Tx, requester *User) ([]User, error) {
	group := requester.UnitGroup
	if group == nil {
		group = []int{}
	}
	return r.queryUsers(ctx, tx, fmt.Sprintf(`
		SELECT %s FROM users
		WHERE role = $1 AND (created_by = $2 OR id = ANY($3))`, userColumns),
		string(RoleUser), requester.ID, group)
}

func (r *Resolver) queryUsers(ctx context.Context, tx pgx.Tx, sql string, args ...any) ([]User, error) {
	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapStorage(err, "failed to query users")
	}
	return scanUsers(rows)
}

// dedupeByID removes identities reachable via multiple paths (e.g. an
// admin-group member that was also directly created) and sorts by id.
func dedupeByID(users []User) []User {
	seen := make(map[int]User, len(users))
	for _, u := range users {
		seen[u.ID] = u
	}
	out := make([]User, 0, len(seen))
	for _, u := range seen {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
