package school

import (
	stderrors "errors"

	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// StudentController serves the student records CRUD. Every route requires an
// admin session.
type StudentController struct {
	Logger Logger
	repo   RepositoryManager
}

func NewStudentController(repo RepositoryManager, logger Logger) *StudentController {
	if logger == nil {
		logger = defLogger{}
	}
	return &StudentController{
		Logger: logger,
		repo:   repo,
	}
}

// Index lists every student. An empty roster reports not found rather than
// an empty list.
func (c *StudentController) Index(ctx router.Context) error {
	students, err := c.repo.Students().List(ctx.Context())
	if err != nil {
		c.Logger.Error("student list failed: %v", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{
			"message": "An error occurred!",
		})
	}

	if len(students) == 0 {
		return c.respondError(ctx, ErrStudentNotFound)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"students": students,
	})
}

// Show returns a single student. A malformed ID reads the same as a missing
// record.
func (c *StudentController) Show(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.respondError(ctx, ErrStudentNotFound)
	}

	student, err := c.repo.Students().GetByID(ctx.Context(), id)
	if err != nil {
		return c.studentError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"student": student,
	})
}

// Create adds a student record.
func (c *StudentController) Create(ctx router.Context) error {
	student := &Student{}
	if err := ctx.Bind(student); err != nil {
		return c.respondError(ctx, ErrInvalidInput)
	}

	if err := student.Validate(); err != nil {
		return c.respondError(ctx, ErrInvalidInput)
	}

	created, err := c.repo.Students().Create(ctx.Context(), student)
	if err != nil {
		c.Logger.Error("student create failed: %v", err)
		return ctx.JSON(router.StatusForbidden, map[string]string{
			"message": "An error occurred!",
		})
	}

	return ctx.JSON(router.StatusCreated, map[string]any{
		"student": created,
		"message": "Student created successfully!",
	})
}

// Update applies a partial update to a student record.
func (c *StudentController) Update(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.respondError(ctx, ErrStudentNotFound)
	}

	student := &Student{}
	if err := ctx.Bind(student); err != nil {
		return c.respondError(ctx, ErrInvalidInput)
	}

	updated, err := c.repo.Students().Update(ctx.Context(), id, student)
	if err != nil {
		return c.studentError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"student": updated,
		"message": "Student updated successfully!",
	})
}

// Delete removes a student record.
func (c *StudentController) Delete(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.respondError(ctx, ErrStudentNotFound)
	}

	if err := c.repo.Students().Delete(ctx.Context(), id); err != nil {
		return c.studentError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"message": "Student deleted successfully!",
	})
}

func (c *StudentController) studentError(ctx router.Context, err error) error {
	if stderrors.Is(err, ErrStudentNotFound) {
		return c.respondError(ctx, ErrStudentNotFound)
	}

	c.Logger.Error("student operation failed: %v", err)
	return ctx.JSON(router.StatusInternalServerError, map[string]string{
		"message": "An error occurred!",
	})
}

func (c *StudentController) respondError(ctx router.Context, err error) error {
	return ctx.JSON(StatusCode(err), map[string]string{
		"message": UserMessage(err),
	})
}
