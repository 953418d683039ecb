package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"retreatbooking/internal/domain"
)

type TeacherRepository struct {
	db *gorm.DB
}

func NewTeacherRepository(db *gorm.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

func (r *TeacherRepository) Create(ctx context.Context, t *domain.Teacher) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error
	return writeErr(err, "teacher with email "+t.Email)
}

func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*domain.Teacher, error) {
	var t domain.Teacher
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, notFound(err, "teacher", id)
	}
	return &t, nil
}

func (r *TeacherRepository) List(ctx context.Context) ([]domain.Teacher, error) {
	var out []domain.Teacher
	err := r.db.WithContext(ctx).
		Preload("Assignments.Retreat").
		Preload("Assignments.RetreatDate").
		Order("name ASC").
		Find(&out).Error
	return out, storage(err)
}

// Update applies a partial set of columns.
func (r *TeacherRepository) Update(ctx context.Context, id int64, fields map[string]any) (*domain.Teacher, error) {
	if len(fields) > 0 {
		res := r.db.WithContext(ctx).Model(&domain.Teacher{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, writeErr(res.Error, "teacher")
		}
	}
	return r.GetByID(ctx, id)
}

func (r *TeacherRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("teacher_id = ?", id).Delete(&domain.TeacherRetreatAssignment{}).Error; err != nil {
			return storage(err)
		}
		res := tx.Delete(&domain.Teacher{}, id)
		if res.Error != nil {
			return storage(res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "teacher", id)
		}
		return nil
	})
}

type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, a *domain.TeacherRetreatAssignment) error {
	return writeErr(r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error, "assignment")
}

func (r *AssignmentRepository) Exists(ctx context.Context, teacherID, retreatDateID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.TeacherRetreatAssignment{}).
		Where("teacher_id = ? AND retreat_date_id = ?", teacherID, retreatDateID).
		Count(&n).Error
	return n > 0, storage(err)
}

func (r *AssignmentRepository) GetDetail(ctx context.Context, id int64) (*domain.TeacherRetreatAssignment, error) {
	var a domain.TeacherRetreatAssignment
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Preload("Retreat").
		Preload("RetreatDate").
		First(&a, id).Error
	if err != nil {
		return nil, notFound(err, "assignment", id)
	}
	return &a, nil
}

func (r *AssignmentRepository) List(ctx context.Context) ([]domain.TeacherRetreatAssignment, error) {
	var out []domain.TeacherRetreatAssignment
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Preload("Retreat").
		Preload("RetreatDate").
		Order("created_at DESC").
		Find(&out).Error
	return out, storage(err)
}

func (r *AssignmentRepository) ListPendingNotification(ctx context.Context) ([]domain.TeacherRetreatAssignment, error) {
	var out []domain.TeacherRetreatAssignment
	err := r.db.WithContext(ctx).
		Where("notification_sent = ?", false).
		Order("id ASC").
		Find(&out).Error
	return out, storage(err)
}

func (r *AssignmentRepository) MarkNotified(ctx context.Context, id int64, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&domain.TeacherRetreatAssignment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"notification_sent":    true,
			"notification_sent_at": at,
		}).Error
	return storage(err)
}
