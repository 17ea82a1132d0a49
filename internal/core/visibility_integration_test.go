package core_test

import (
	"context"
	"testing"

	"invoice-admin/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
)

// seedHierarchy inserts a fixed directory:
//
//	1 sa          SUPERADMIN
//	2 admin1      ADMIN   created by 1, admin_group {3,5,4}
//	3 admin2      ADMIN   created by 1
//	4 um1         UNIT_MANAGER created by 2, unit_group {8}
//	5 um2         UNIT_MANAGER created by 3
//	6 um3         UNIT_MANAGER created by 3
//	7 u1          USER    created by 4
//	8 u2          USER    created by 5
//	9 u3          USER    created by 6
//
// um1 is reachable from admin1 both via created_by and via the admin group,
// which exercises de-duplication.
func seedHierarchy(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO users (id, seq_id, name, email, password_hash, role, created_by, admin_group, unit_group) VALUES
		(1, 'SA1', 'sa',     'sa@x.com',     'h', 'SUPERADMIN',   NULL, '{}',      '{}'),
		(2, 'A1',  'admin1', 'admin1@x.com', 'h', 'ADMIN',        1,    '{3,5,4}', '{}'),
		(3, 'A2',  'admin2', 'admin2@x.com', 'h', 'ADMIN',        1,    '{}',      '{}'),
		(4, 'UM1', 'um1',    'um1@x.com',    'h', 'UNIT_MANAGER', 2,    '{}',      '{8}'),
		(5, 'UM2', 'um2',    'um2@x.com',    'h', 'UNIT_MANAGER', 3,    '{}',      '{}'),
		(6, 'UM3', 'um3',    'um3@x.com',    'h', 'UNIT_MANAGER', 3,    '{}',      '{}'),
		(7, 'U1',  'u1',     'u1@x.com',     'h', 'USER',         4,    '{}',      '{}'),
		(8, 'U2',  'u2',     'u2@x.com',     'h', 'USER',         5,    '{}',      '{}'),
		(9, 'U3',  'u3',     'u3@x.com',     'h', 'USER',         6,    '{}',      '{}')
	`)
	if err != nil {
		t.Fatalf("failed to seed hierarchy: %v", err)
	}
}

func visibleIDs(t *testing.T, resolver *core.Resolver, requester *core.User) []int {
	t.Helper()
	visible, err := resolver.VisibleTo(context.Background(), requester)
	if err != nil {
		t.Fatalf("VisibleTo failed: %v", err)
	}
	ids := make([]int, 0, len(visible))
	for _, u := range visible {
		ids = append(ids, u.ID)
	}
	return ids
}

func requester(t *testing.T, dir core.DirectoryService, id int) *core.User {
	t.Helper()
	u, err := dir.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to load requester %d: %v", id, err)
	}
	return u
}

func assertIDs(t *testing.T, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("visible ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("visible ids = %v, want %v", got, want)
		}
	}
}

func TestResolver_SuperAdminSeesEverything(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	seedHierarchy(t, pool)

	dir := newDirectory(pool)
	resolver := core.NewResolver(pool)

	assertIDs(t, visibleIDs(t, resolver, requester(t, dir, 1)), []int{1, 2, 3, 4, 5, 6, 7, 8, 9})
}

func TestResolver_AdminTwoHopClosure(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	seedHierarchy(t, pool)

	dir := newDirectory(pool)
	resolver := core.NewResolver(pool)

	// admin1: group peers {3,5,4}, unit managers it created or groups with
	// {4,5}, and their users {7,8}. um1 (4) is reachable twice and must
	// appear once. u3 (9) hangs off um3, which admin1 cannot see.
	assertIDs(t, visibleIDs(t, resolver, requester(t, dir, 2)), []int{3, 4, 5, 7, 8})

	// admin2 has no group and created um2 and um3 directly.
	assertIDs(t, visibleIDs(t, resolver, requester(t, dir, 3)), []int{5, 6, 8, 9})
}

func TestResolver_UnitManagerScope(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	seedHierarchy(t, pool)

	dir := newDirectory(pool)
	resolver := core.NewResolver(pool)

	// um1 created u1 and groups with u2.
	assertIDs(t, visibleIDs(t, resolver, requester(t, dir, 4)), []int{7, 8})

	// um3 only sees its own creation.
	assertIDs(t, visibleIDs(t, resolver, requester(t, dir, 6)), []int{9})
}

func TestResolver_UserSeesOnlySelf(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	seedHierarchy(t, pool)

	dir := newDirectory(pool)
	resolver := core.NewResolver(pool)

	assertIDs(t, visibleIDs(t, resolver, requester(t, dir, 7)), []int{7})
}

func TestResolver_UnknownRoleSeesNothing(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	seedHierarchy(t, pool)

	resolver := core.NewResolver(pool)

	ghost := &core.User{ID: 999, Role: core.Role("GHOST")}
	assertIDs(t, visibleIDs(t, resolver, ghost), []int{})
}
