package school

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Students is the storage surface for student records.
type Students interface {
	List(ctx context.Context) ([]*Student, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Student, error)
	Create(ctx context.Context, record *Student) (*Student, error)
	Update(ctx context.Context, id uuid.UUID, record *Student) (*Student, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type students struct {
	db *bun.DB
}

var _ Students = (*students)(nil)

func NewStudentsRepository(db *bun.DB) Students {
	return &students{db: db}
}

func (r *students) List(ctx context.Context) ([]*Student, error) {
	records := []*Student{}
	err := r.db.NewSelect().
		Model(&records).
		Order("enrollment_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *students) GetByID(ctx context.Context, id uuid.UUID) (*Student, error) {
	record := &Student{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return record, nil
}

func (r *students) Create(ctx context.Context, record *Student) (*Student, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.EnrollmentDate == nil {
		now := time.Now()
		record.EnrollmentDate = &now
	}

	_, err := r.db.NewInsert().
		Model(record).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *students) Update(ctx context.Context, id uuid.UUID, record *Student) (*Student, error) {
	record.ID = id
	now := time.Now()
	record.UpdatedAt = &now

	res, err := r.db.NewUpdate().
		Model(record).
		Where("?TableAlias.id = ?", id).
		OmitZero().
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrStudentNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *students) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Student)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrStudentNotFound
	}

	return nil
}
