package school_test

import (
	"context"
	"database/sql"
	"testing"

	repository "github.com/goliatone/go-repository-bun"
	school "github.com/goliatone/go-school"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

const (
	sqliteCreateUsers = `CREATE TABLE users (
    id TEXT NOT NULL PRIMARY KEY,
    username TEXT NOT NULL,
    email TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    user_role TEXT NOT NULL DEFAULT 'regular',
    is_verified BOOLEAN NOT NULL DEFAULT FALSE,
    verification_token TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP,
    CONSTRAINT uq_users_username UNIQUE (username),
    CONSTRAINT uq_users_email UNIQUE (email)
);`

	sqliteCreateStudents = `CREATE TABLE students (
    id TEXT NOT NULL PRIMARY KEY,
    name TEXT NOT NULL,
    dob TIMESTAMP NOT NULL,
    gender TEXT NOT NULL,
    current_class TEXT NOT NULL DEFAULT '{}',
    guardian TEXT NOT NULL DEFAULT '{}',
    previous_classes TEXT,
    enrollment_date TIMESTAMP,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP
);`
)

func setupRepoManager(t *testing.T) (school.RepositoryManager, func()) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	_, err = bunDB.Exec(sqliteCreateUsers)
	require.NoError(t, err)
	_, err = bunDB.Exec(sqliteCreateStudents)
	require.NoError(t, err)

	cleanup := func() {
		_ = bunDB.Close()
		_ = db.Close()
	}

	return school.NewRepositoryManager(bunDB), cleanup
}

func registerTestUser(t *testing.T, repo school.RepositoryManager, username, email string) *school.User {
	t.Helper()

	hash, err := school.HashPassword("Sup3rS@fe")
	require.NoError(t, err)

	token, err := school.NewVerificationToken()
	require.NoError(t, err)

	user, err := repo.Users().Register(context.Background(), &school.User{
		Username:          username,
		Email:             email,
		PasswordHash:      hash,
		VerificationToken: token,
	})
	require.NoError(t, err)
	return user
}

func TestUsersRegisterDefaults(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	user := registerTestUser(t, repo, "rahim", "rahim@example.com")

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, school.RoleRegular, user.Role)
	assert.False(t, user.IsVerified)
	assert.Len(t, user.VerificationToken, 40)

	found, err := repo.Users().GetByUsername(context.Background(), "rahim")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "rahim@example.com", found.Email)
}

func TestUsersRegisterDuplicates(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	registerTestUser(t, repo, "rahim", "rahim@example.com")

	_, err := repo.Users().Register(context.Background(), &school.User{
		Username:     "rahim",
		Email:        "other@example.com",
		PasswordHash: "x",
	})
	require.Error(t, err)
	assert.True(t, school.IsDuplicate(err))
	assert.Equal(t, school.ErrDuplicateUsername.Message, school.UserMessage(err))

	_, err = repo.Users().Register(context.Background(), &school.User{
		Username:     "karim",
		Email:        "rahim@example.com",
		PasswordHash: "x",
	})
	require.Error(t, err)
	assert.True(t, school.IsDuplicate(err))
	assert.Equal(t, school.ErrDuplicateEmail.Message, school.UserMessage(err))
}

func TestUsersGetByIdentifier(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	user := registerTestUser(t, repo, "rahim", "rahim@example.com")
	ctx := context.Background()

	byUsername, err := repo.Users().GetByIdentifier(ctx, "rahim")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byUsername.ID)

	byEmail, err := repo.Users().GetByIdentifier(ctx, "rahim@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.Users().GetByIdentifier(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, user.ID, byID.ID)

	_, err = repo.Users().GetByIdentifier(ctx, "nobody")
	require.Error(t, err)
	assert.True(t, repository.IsRecordNotFound(err))
}

func TestUsersMarkVerifiedOnce(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	user := registerTestUser(t, repo, "rahim", "rahim@example.com")
	ctx := context.Background()

	verified, err := repo.Users().MarkVerified(ctx, user.VerificationToken)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Empty(t, verified.VerificationToken)

	// the token is cleared in the same statement, so a second visit misses
	_, err = repo.Users().MarkVerified(ctx, user.VerificationToken)
	require.Error(t, err)
	assert.True(t, repository.IsRecordNotFound(err))

	_, err = repo.Users().MarkVerified(ctx, "")
	require.Error(t, err)
	assert.True(t, repository.IsRecordNotFound(err))
}

func TestUsersResetPassword(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	user := registerTestUser(t, repo, "rahim", "rahim@example.com")
	ctx := context.Background()

	newHash, err := school.HashPassword("N3wS@fePass")
	require.NoError(t, err)

	require.NoError(t, repo.Users().ResetPassword(ctx, user.Email, newHash))

	found, err := repo.Users().GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.NoError(t, school.ComparePasswordAndHash("N3wS@fePass", found.PasswordHash))

	err = repo.Users().ResetPassword(ctx, "ghost@example.com", newHash)
	require.Error(t, err)
	assert.True(t, repository.IsRecordNotFound(err))
}

func TestUsersList(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	registerTestUser(t, repo, "rahim", "rahim@example.com")
	registerTestUser(t, repo, "karim", "karim@example.com")

	users, err := repo.Users().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestRepositoryManagerRunInTx(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	ctx := context.Background()

	err := repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := repo.Users().RegisterTx(ctx, tx, &school.User{
			Username:     "txuser",
			Email:        "txuser@example.com",
			PasswordHash: "x",
		})
		return err
	})
	require.NoError(t, err)

	_, err = repo.Users().GetByUsername(ctx, "txuser")
	require.NoError(t, err)

	// a failing callback rolls the write back
	err = repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := repo.Users().RegisterTx(ctx, tx, &school.User{
			Username:     "rollback",
			Email:        "rollback@example.com",
			PasswordHash: "x",
		}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	_, err = repo.Users().GetByUsername(ctx, "rollback")
	require.Error(t, err)
}
