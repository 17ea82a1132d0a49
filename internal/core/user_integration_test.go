package core_test

import (
	"context"
	"testing"

	"invoice-admin/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
)

func newDirectory(pool *pgxpool.Pool) core.DirectoryService {
	return core.NewDirectoryService(pool, core.NewSequenceStore(pool), core.NewBcryptCredentials())
}

func TestDirectory_RegisterAndAuthenticate(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	dir := newDirectory(pool)
	ctx := context.Background()

	sa, err := dir.Register(ctx, "Root", "root@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if sa.Role != core.RoleSuperAdmin {
		t.Errorf("bootstrap role = %s, want SUPERADMIN", sa.Role)
	}
	if sa.SeqID != "SA1" {
		t.Errorf("bootstrap seq id = %q, want SA1", sa.SeqID)
	}
	if sa.CreatedBy != nil {
		t.Errorf("bootstrap identity must have no creator, got %v", *sa.CreatedBy)
	}

	if _, err := dir.Authenticate(ctx, "root@example.com", "s3cret"); err != nil {
		t.Errorf("Authenticate with correct password failed: %v", err)
	}
	_, err = dir.Authenticate(ctx, "root@example.com", "wrong")
	if core.KindOf(err) != core.KindPermissionDenied {
		t.Errorf("wrong password: expected PERMISSION_DENIED, got %v", err)
	}
	_, err = dir.Authenticate(ctx, "ghost@example.com", "s3cret")
	if core.KindOf(err) != core.KindPermissionDenied {
		t.Errorf("unknown email: expected PERMISSION_DENIED, got %v", err)
	}
}

func TestDirectory_CreationHierarchy(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	dir := newDirectory(pool)
	ctx := context.Background()

	sa, err := dir.Register(ctx, "Root", "root@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	admin, err := dir.Create(ctx, sa, core.CreateUserInput{
		Name: "Alice", Email: "alice@example.com", Password: "pw", Role: core.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("SUPERADMIN creating ADMIN failed: %v", err)
	}
	if admin.SeqID != "A1" {
		t.Errorf("admin seq id = %q, want A1", admin.SeqID)
	}
	if admin.CreatedBy == nil || *admin.CreatedBy != sa.ID {
		t.Errorf("admin creator = %v, want %d", admin.CreatedBy, sa.ID)
	}

	// Skipping a level in the hierarchy is rejected.
	_, err = dir.Create(ctx, admin, core.CreateUserInput{
		Name: "Bob", Email: "bob@example.com", Password: "pw", Role: core.RoleUser,
	})
	if core.KindOf(err) != core.KindPermissionDenied {
		t.Errorf("ADMIN creating USER: expected PERMISSION_DENIED, got %v", err)
	}
	_, err = dir.Create(ctx, sa, core.CreateUserInput{
		Name: "Eve", Email: "eve@example.com", Password: "pw", Role: core.RoleSuperAdmin,
	})
	if core.KindOf(err) != core.KindPermissionDenied {
		t.Errorf("creating SUPERADMIN: expected PERMISSION_DENIED, got %v", err)
	}

	um, err := dir.Create(ctx, admin, core.CreateUserInput{
		Name: "Uma", Email: "uma@example.com", Password: "pw", Role: core.RoleUnitManager,
	})
	if err != nil {
		t.Fatalf("ADMIN creating UNIT_MANAGER failed: %v", err)
	}
	if _, err := dir.Create(ctx, um, core.CreateUserInput{
		Name: "Bob", Email: "bob@example.com", Password: "pw", Role: core.RoleUser,
	}); err != nil {
		t.Fatalf("UNIT_MANAGER creating USER failed: %v", err)
	}

	// Duplicate email is a conflict.
	_, err = dir.Create(ctx, sa, core.CreateUserInput{
		Name: "Alice Again", Email: "alice@example.com", Password: "pw", Role: core.RoleAdmin,
	})
	if core.KindOf(err) != core.KindConflict {
		t.Errorf("duplicate email: expected CONFLICT, got %v", err)
	}
}

func TestDirectory_ReassignRole(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	dir := newDirectory(pool)
	ctx := context.Background()

	sa, err := dir.Register(ctx, "Root", "root@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	admin, err := dir.Create(ctx, sa, core.CreateUserInput{
		Name: "Alice", Email: "alice@example.com", Password: "pw", Role: core.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// No-op reassignment keeps the seq id and must not burn a counter increment.
	seqID, err := dir.ReassignRole(ctx, sa, admin.ID, core.RoleAdmin)
	if err != nil {
		t.Fatalf("no-op ReassignRole failed: %v", err)
	}
	if seqID != admin.SeqID {
		t.Errorf("no-op reassignment changed seq id: %q -> %q", admin.SeqID, seqID)
	}
	var adminCount int64
	if err := pool.QueryRow(ctx, `SELECT count FROM role_counters WHERE role = 'ADMIN'`).Scan(&adminCount); err != nil {
		t.Fatalf("failed to read counter: %v", err)
	}
	if adminCount != 1 {
		t.Errorf("ADMIN counter = %d after no-op reassignment, want 1", adminCount)
	}

	// A real role change mints under the new role's counter.
	seqID, err = dir.ReassignRole(ctx, sa, admin.ID, core.RoleUnitManager)
	if err != nil {
		t.Fatalf("ReassignRole failed: %v", err)
	}
	if seqID != "UM1" {
		t.Errorf("reassigned seq id = %q, want UM1", seqID)
	}
	updated, err := dir.GetByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if updated.Role != core.RoleUnitManager || updated.SeqID != "UM1" {
		t.Errorf("persisted role/seq = %s/%q, want UNIT_MANAGER/UM1", updated.Role, updated.SeqID)
	}

	// SUPERADMIN only.
	if _, err := dir.ReassignRole(ctx, updated, sa.ID, core.RoleUser); core.KindOf(err) != core.KindPermissionDenied {
		t.Errorf("non-SUPERADMIN reassign: expected PERMISSION_DENIED, got %v", err)
	}

	if _, err := dir.ReassignRole(ctx, sa, 9999, core.RoleAdmin); core.KindOf(err) != core.KindNotFound {
		t.Errorf("missing target: expected NOT_FOUND, got %v", err)
	}
}

func TestDirectory_Delete(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	dir := newDirectory(pool)
	ctx := context.Background()

	sa, err := dir.Register(ctx, "Root", "root@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	admin, err := dir.Create(ctx, sa, core.CreateUserInput{
		Name: "Alice", Email: "alice@example.com", Password: "pw", Role: core.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	um, err := dir.Create(ctx, admin, core.CreateUserInput{
		Name: "Uma", Email: "uma@example.com", Password: "pw", Role: core.RoleUnitManager,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := dir.Delete(ctx, um, admin.ID); core.KindOf(err) != core.KindPermissionDenied {
		t.Errorf("UNIT_MANAGER delete: expected PERMISSION_DENIED, got %v", err)
	}
	if err := dir.Delete(ctx, admin, um.ID); err != nil {
		t.Errorf("ADMIN delete failed: %v", err)
	}
	if err := dir.Delete(ctx, sa, um.ID); core.KindOf(err) != core.KindNotFound {
		t.Errorf("deleting deleted user: expected NOT_FOUND, got %v", err)
	}
}
