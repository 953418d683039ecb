package teacher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"retreatbooking/internal/domain"
	"retreatbooking/internal/pkg/validator"
	"retreatbooking/internal/repository"
)

type Service struct {
	teachers    *repository.TeacherRepository
	assignments *repository.AssignmentRepository
	dates       *repository.RetreatDateRepository
	notifier    AssignmentNotifier
	now         func() time.Time
	logger      *zap.Logger
}

func NewService(db *gorm.DB, notifier AssignmentNotifier, logger *zap.Logger) *Service {
	return &Service{
		teachers:    repository.NewTeacherRepository(db),
		assignments: repository.NewAssignmentRepository(db),
		dates:       repository.NewRetreatDateRepository(db),
		notifier:    notifier,
		now:         time.Now,
		logger:      logger,
	}
}

func (s *Service) CreateTeacher(ctx context.Context, req CreateTeacherRequest) (*domain.Teacher, error) {
	t := &domain.Teacher{
		Name:            strings.TrimSpace(req.Name),
		Email:           domain.NormalizeEmail(req.Email),
		ContactNumber:   strings.TrimSpace(req.ContactNumber),
		Bio:             req.Bio,
		Specializations: datatypes.JSONSlice[string](req.Specializations),
		IsActive:        req.IsActive == nil || *req.IsActive,
	}
	if fields := validator.Validate(t); fields != nil {
		return nil, domain.NewValidationError("invalid teacher", fields)
	}
	if err := s.teachers.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) ListTeachers(ctx context.Context) ([]domain.Teacher, error) {
	return s.teachers.List(ctx)
}

func (s *Service) UpdateTeacher(ctx context.Context, req UpdateTeacherRequest) (*domain.Teacher, error) {
	if req.ID <= 0 {
		return nil, fmt.Errorf("teacher id is required: %w", domain.ErrValidation)
	}
	if _, err := s.teachers.GetByID(ctx, req.ID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, domain.NewValidationError("invalid teacher", map[string]string{"Name": "required"})
		}
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := domain.NormalizeEmail(*req.Email)
		if validator.Var(email, "required,email") != nil {
			return nil, domain.NewValidationError("invalid teacher", map[string]string{"Email": "email"})
		}
		fields["email"] = email
	}
	if req.ContactNumber != nil {
		fields["contact_number"] = strings.TrimSpace(*req.ContactNumber)
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.Specializations != nil {
		fields["specializations"] = datatypes.JSONSlice[string](*req.Specializations)
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	return s.teachers.Update(ctx, req.ID, fields)
}

func (s *Service) DeleteTeacher(ctx context.Context, id int64) error {
	return s.teachers.Delete(ctx, id)
}

func (s *Service) ListAssignments(ctx context.Context) ([]domain.TeacherRetreatAssignment, error) {
	return s.assignments.List(ctx)
}

// AssignTeacher stores the assignment and tries to notify the teacher
// right away. A failed email leaves the assignment pending for
// ResendPendingNotifications.
func (s *Service) AssignTeacher(ctx context.Context, req AssignTeacherRequest) (*domain.TeacherRetreatAssignment, error) {
	if _, err := s.teachers.GetByID(ctx, req.TeacherID); err != nil {
		return nil, err
	}
	date, err := s.dates.GetByID(ctx, req.RetreatDateID)
	if err != nil {
		return nil, err
	}
	if date.RetreatID != req.RetreatID {
		return nil, fmt.Errorf("retreat date %d does not belong to retreat %d: %w", date.ID, req.RetreatID, domain.ErrValidation)
	}

	exists, err := s.assignments.Exists(ctx, req.TeacherID, req.RetreatDateID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateAssignment
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = domain.DefaultAssignmentRole
	}
	a := &domain.TeacherRetreatAssignment{
		TeacherID:     req.TeacherID,
		RetreatID:     req.RetreatID,
		RetreatDateID: req.RetreatDateID,
		Role:          role,
	}
	if err := s.assignments.Create(ctx, a); err != nil {
		// lost a race with a concurrent assign of the same pair
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrDuplicateAssignment
		}
		return nil, err
	}

	s.logger.Info("teacher assigned",
		zap.Int64("assignment_id", a.ID),
		zap.Int64("teacher_id", a.TeacherID),
		zap.Int64("retreat_date_id", a.RetreatDateID),
	)
	s.deliver(ctx, a.ID)

	return s.assignments.GetDetail(ctx, a.ID)
}

// ResendPendingNotifications retries every assignment whose email has not
// gone out yet.
func (s *Service) ResendPendingNotifications(ctx context.Context) (*ResendResult, error) {
	pending, err := s.assignments.ListPendingNotification(ctx)
	if err != nil {
		return nil, err
	}

	res := &ResendResult{}
	for _, a := range pending {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		if s.deliver(ctx, a.ID) {
			res.Sent++
		} else {
			res.Failed++
		}
	}
	s.logger.Info("pending teacher notifications processed", zap.Int("sent", res.Sent), zap.Int("failed", res.Failed))
	return res, nil
}

func (s *Service) deliver(ctx context.Context, assignmentID int64) bool {
	if err := s.notifier.SendTeacherAssignment(ctx, assignmentID); err != nil {
		s.logger.Warn("teacher assignment email failed", zap.Int64("assignment_id", assignmentID), zap.Error(err))
		return false
	}
	if err := s.assignments.MarkNotified(ctx, assignmentID, s.now()); err != nil {
		s.logger.Error("mark assignment notified", zap.Int64("assignment_id", assignmentID), zap.Error(err))
		return false
	}
	return true
}
