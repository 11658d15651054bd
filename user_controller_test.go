package school_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-router"
	school "github.com/goliatone/go-school"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserShow(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	user := registerTestUser(t, repo, "rahim", "rahim@example.com")
	ctrl := school.NewUserController(repo, nil)

	ctx := router.NewMockContext()
	ctx.On("Context").Return(context.Background())
	ctx.LocalsMock[school.SessionContextKey] = school.NewSessionClaims(user)
	rec := recordJSON(ctx)

	require.NoError(t, ctrl.Show(ctx))

	assert.Equal(t, router.StatusOK, rec.status)
	public, ok := rec.body.(*school.PublicUser)
	require.True(t, ok)
	assert.Equal(t, "rahim", public.Username)
	assert.Equal(t, "rahim@example.com", public.Email)
}

func TestUserShowWithoutSession(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	ctrl := school.NewUserController(repo, nil)

	ctx := router.NewMockContext()
	rec := recordJSON(ctx)

	require.NoError(t, ctrl.Show(ctx))

	assert.Equal(t, router.StatusUnauthorized, rec.status)
	assert.Equal(t, school.ErrSessionMissing.Message, rec.message(t))
}

func TestUserShowAccountDeleted(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	ctrl := school.NewUserController(repo, nil)

	// a session whose account no longer exists
	ctx := router.NewMockContext()
	ctx.On("Context").Return(context.Background())
	ctx.LocalsMock[school.SessionContextKey] = &school.SessionClaims{Username: "ghost"}
	rec := recordJSON(ctx)

	require.NoError(t, ctrl.Show(ctx))

	assert.Equal(t, router.StatusNotFound, rec.status)
	assert.Equal(t, "User Not Found!", rec.message(t))
}

func TestUserIndex(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	registerTestUser(t, repo, "rahim", "rahim@example.com")
	registerTestUser(t, repo, "karim", "karim@example.com")

	ctrl := school.NewUserController(repo, nil)

	ctx := router.NewMockContext()
	ctx.On("Context").Return(context.Background())
	rec := recordJSON(ctx)

	require.NoError(t, ctrl.Index(ctx))

	assert.Equal(t, router.StatusOK, rec.status)
	public, ok := rec.body.([]*school.PublicUser)
	require.True(t, ok)
	assert.Len(t, public, 2)
}
