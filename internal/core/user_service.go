package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, seq_id, name, email, password_hash, role, created_by, admin_group, unit_group, created_at`

type directoryService struct {
	pool  *pgxpool.Pool
	seq   SequenceStore
	creds Credentials
}

// NewDirectoryService constructs a DirectoryService backed by PostgreSQL.
func NewDirectoryService(pool *pgxpool.Pool, seq SequenceStore, creds Credentials) DirectoryService {
	return &directoryService{pool: pool, seq: seq, creds: creds}
}

func (s *directoryService) Register(ctx context.Context, name, email, password string) (*User, error) {
	if name == "" || email == "" || password == "" {
		return nil, Errf(KindValidation, "name, email and password are required")
	}
	hash, err := s.creds.Hash(password)
	if err != nil {
		return nil, err
	}
	return s.insert(ctx, &User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleSuperAdmin,
	})
}

func (s *directoryService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, Errf(KindValidation, "email and password are required")
	}
	u, err := s.getByEmail(ctx, email)
	if err != nil {
		if IsKind(err, KindNotFound) {
			return nil, Errf(KindPermissionDenied, "invalid email or password")
		}
		return nil, err
	}
	if !s.creds.Verify(u.PasswordHash, password) {
		return nil, Errf(KindPermissionDenied, "invalid email or password")
	}
	return u, nil
}

func (s *directoryService) Create(ctx context.Context, requester *User, in CreateUserInput) (*User, error) {
	if requester == nil {
		return nil, Errf(KindPermissionDenied, "requester is required")
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, Errf(KindValidation, "name, email and password are required")
	}
	if !in.Role.Valid() {
		return nil, Errf(KindValidation, "invalid role %q", in.Role)
	}
	parent, ok := in.Role.Parent()
	if !ok || requester.Role != parent {
		return nil, Errf(KindPermissionDenied, "%s cannot create %s users", requester.Role, in.Role)
	}

	hash, err := s.creds.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		CreatedBy:    &requester.ID,
	}
	switch in.Role {
	case RoleAdmin:
		u.AdminGroup = in.GroupIDs
	case RoleUnitManager:
		u.UnitGroup = in.GroupIDs
	}
	return s.insert(ctx, u)
}

// insert mints the sequence id and writes the row in one transaction, so a
// rejected write never burns a counter increment.
func (s *directoryService) insert(ctx context.Context, u *User) (*User, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, wrapStorage(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	u.SeqID, err = s.seq.NextSequenceIDTx(ctx, tx, u.Role)
	if err != nil {
		return nil, err
	}

	if u.AdminGroup == nil {
		u.AdminGroup = []int{}
	}
	if u.UnitGroup == nil {
		u.UnitGroup = []int{}
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO users (seq_id, name, email, password_hash, role, created_by, admin_group, unit_group)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		u.SeqID, u.Name, u.Email, u.PasswordHash, string(u.Role), u.CreatedBy, u.AdminGroup, u.UnitGroup,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, Errf(KindConflict, "email %s already exists", u.Email)
		}
		return nil, wrapStorage(err, "failed to insert user")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, wrapStorage(err, "failed to commit transaction")
	}
	return u, nil
}

func (s *directoryService) GetByID(ctx context.Context, id int) (*User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns), id))
}

func (s *directoryService) getByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns), email))
}

func (s *directoryService) ReassignRole(ctx context.Context, requester *User, targetID int, newRole Role) (string, error) {
	if requester == nil || requester.Role != RoleSuperAdmin {
		return "", Errf(KindPermissionDenied, "only SUPERADMIN can update user roles")
	}
	if !newRole.Valid() {
		return "", Errf(KindValidation, "invalid role %q", newRole)
	}

	target, err := s.GetByID(ctx, targetID)
	if err != nil {
		return "", err
	}
	if target.Role == newRole {
		// No-op reassignment must not burn a counter increment.
		return target.SeqID, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", wrapStorage(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	seqID, err := s.seq.NextSequenceIDTx(ctx, tx, newRole)
	if err != nil {
		return "", err
	}
	ct, err := tx.Exec(ctx, `UPDATE users SET role = $1, seq_id = $2 WHERE id = $3`,
		string(newRole), seqID, targetID)
	if err != nil {
		return "", wrapStorage(err, "failed to update role for user %d", targetID)
	}
	if ct.RowsAffected() == 0 {
		return "", Errf(KindNotFound, "user %d not found", targetID)
	}
	if err := tx.Commit(ctx); err != nil {
		return "", wrapStorage(err, "failed to commit transaction")
	}
	return seqID, nil
}

func (s *directoryService) Delete(ctx context.Context, requester *User, targetID int) error {
	if requester == nil || (requester.Role != RoleSuperAdmin && requester.Role != RoleAdmin) {
		return Errf(KindPermissionDenied, "forbidden to delete user")
	}
	ct, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, targetID)
	if err != nil {
		return wrapStorage(err, "failed to delete user %d", targetID)
	}
	if ct.RowsAffected() == 0 {
		return Errf(KindNotFound, "user %d not found", targetID)
	}
	return nil
}

func scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	var role string
	err := row.Scan(&u.ID, &u.SeqID, &u.Name, &u.Email, &u.PasswordHash, &role,
		&u.CreatedBy, &u.AdminGroup, &u.UnitGroup, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, Errf(KindNotFound, "user not found")
		}
		return nil, wrapStorage(err, "failed to read user")
	}
	u.Role = Role(role)
	return u, nil
}

func scanUsers(rows pgx.Rows) ([]User, error) {
	defer rows.Close()
	var out []User
	for rows.Next() {
		u := User{}
		var role string
		if err := rows.Scan(&u.ID, &u.SeqID, &u.Name, &u.Email, &u.PasswordHash, &role,
			&u.CreatedBy, &u.AdminGroup, &u.UnitGroup, &u.CreatedAt); err != nil {
			return nil, wrapStorage(err, "failed to scan user row")
		}
		u.Role = Role(role)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStorage(err, "failed to read user rows")
	}
	return out, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505). The unique indexes are the last-resort conflict
// detectors under concurrent writes.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
