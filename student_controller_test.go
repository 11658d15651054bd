package school_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-router"
	school "github.com/goliatone/go-school"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStudentTestContext(id string) *router.MockContext {
	ctx := router.NewMockContext()
	ctx.On("Context").Return(context.Background())
	if id != "" {
		ctx.ParamsM["id"] = id
	}
	return ctx
}

func TestStudentIndexEmptyRoster(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	ctrl := school.NewStudentController(repo, nil)

	ctx := newStudentTestContext("")
	rec := recordJSON(ctx)

	require.NoError(t, ctrl.Index(ctx))

	assert.Equal(t, router.StatusNotFound, rec.status)
	assert.Equal(t, school.ErrStudentNotFound.Message, rec.message(t))
}

func TestStudentIndex(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	_, err := repo.Students().Create(context.Background(), newValidStudent())
	require.NoError(t, err)

	ctrl := school.NewStudentController(repo, nil)

	ctx := newStudentTestContext("")
	rec := recordJSON(ctx)

	require.NoError(t, ctrl.Index(ctx))

	assert.Equal(t, router.StatusOK, rec.status)
	body := rec.body.(map[string]any)
	students, ok := body["students"].([]*school.Student)
	require.True(t, ok)
	assert.Len(t, students, 1)
}

func TestStudentShow(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	created, err := repo.Students().Create(context.Background(), newValidStudent())
	require.NoError(t, err)

	ctrl := school.NewStudentController(repo, nil)

	ctx := newStudentTestContext(created.ID.String())
	rec := recordJSON(ctx)

	require.NoError(t, ctrl.Show(ctx))

	assert.Equal(t, router.StatusOK, rec.status)
	body := rec.body.(map[string]any)
	student, ok := body["student"].(*school.Student)
	require.True(t, ok)
	assert.Equal(t, "Rahim Uddin", student.Name)
}

func TestStudentShowMalformedID(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	ctrl := school.NewStudentController(repo, nil)

	ctx := newStudentTestContext("not-a-uuid")
	rec := recordJSON(ctx)

	require.NoError(t, ctrl.Show(ctx))

	assert.Equal(t, router.StatusNotFound, rec.status)
	assert.Equal(t, school.ErrStudentNotFound.Message, rec.message(t))
}

func TestStudentShowUnknownID(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	ctrl := school.NewStudentController(repo, nil)

	ctx := newStudentTestContext(uuid.NewString())
	rec := recordJSON(ctx)

	require.NoError(t, ctrl.Show(ctx))

	assert.Equal(t, router.StatusNotFound, rec.status)
}

func TestStudentCreate(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	ctrl := school.NewStudentController(repo, nil)

	ctx := newStudentTestContext("")
	bindPayload(ctx, *newValidStudent())
	rec := recordJSON(ctx)

	require.NoError(t, ctrl.Create(ctx))

	assert.Equal(t, router.StatusCreated, rec.status)
	assert.Equal(t, "Student created successfully!", rec.message(t))

	body := rec.body.(map[string]any)
	created, ok := body["student"].(*school.Student)
	require.True(t, ok)
	assert.NotEqual(t, uuid.Nil, created.ID)

	list, err := repo.Students().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStudentCreateMissingFields(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	ctrl := school.NewStudentController(repo, nil)

	incomplete := newValidStudent()
	incomplete.Guardian.Contact.Phone = ""

	ctx := newStudentTestContext("")
	bindPayload(ctx, *incomplete)
	rec := recordJSON(ctx)

	require.NoError(t, ctrl.Create(ctx))

	assert.Equal(t, router.StatusForbidden, rec.status)
	assert.Equal(t, school.ErrInvalidInput.Message, rec.message(t))

	list, err := repo.Students().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStudentUpdate(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	created, err := repo.Students().Create(context.Background(), newValidStudent())
	require.NoError(t, err)

	ctrl := school.NewStudentController(repo, nil)

	patch := newValidStudent()
	patch.Name = "Rahim U. Ahmed"

	ctx := newStudentTestContext(created.ID.String())
	bindPayload(ctx, *patch)
	rec := recordJSON(ctx)

	require.NoError(t, ctrl.Update(ctx))

	assert.Equal(t, router.StatusOK, rec.status)
	assert.Equal(t, "Student updated successfully!", rec.message(t))

	body := rec.body.(map[string]any)
	updated, ok := body["student"].(*school.Student)
	require.True(t, ok)
	assert.Equal(t, "Rahim U. Ahmed", updated.Name)
}

func TestStudentUpdateUnknownID(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	ctrl := school.NewStudentController(repo, nil)

	ctx := newStudentTestContext(uuid.NewString())
	bindPayload(ctx, *newValidStudent())
	rec := recordJSON(ctx)

	require.NoError(t, ctrl.Update(ctx))

	assert.Equal(t, router.StatusNotFound, rec.status)
	assert.Equal(t, school.ErrStudentNotFound.Message, rec.message(t))
}

func TestStudentDelete(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	created, err := repo.Students().Create(context.Background(), newValidStudent())
	require.NoError(t, err)

	ctrl := school.NewStudentController(repo, nil)

	ctx := newStudentTestContext(created.ID.String())
	rec := recordJSON(ctx)

	require.NoError(t, ctrl.Delete(ctx))

	assert.Equal(t, router.StatusOK, rec.status)
	assert.Equal(t, "Student deleted successfully!", rec.message(t))

	ctx = newStudentTestContext(created.ID.String())
	rec = recordJSON(ctx)

	require.NoError(t, ctrl.Delete(ctx))
	assert.Equal(t, router.StatusNotFound, rec.status)
}
