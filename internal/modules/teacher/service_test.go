package teacher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"retreatbooking/internal/domain"
	"retreatbooking/internal/testutil"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendTeacherAssignment(ctx context.Context, assignmentID int64) error {
	args := m.Called(ctx, assignmentID)
	return args.Error(0)
}

type fixture struct {
	db       *gorm.DB
	svc      *Service
	notifier *MockNotifier
	inv      testutil.Inventory
	teacher  *domain.Teacher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	notifier := &MockNotifier{}
	svc := NewService(db, notifier, zap.NewNop())
	inv := testutil.SeedInventory(t, db, 12, 2, 1500)

	teacher, err := svc.CreateTeacher(context.Background(), CreateTeacherRequest{
		Name:            "Ravi Das",
		Email:           "Ravi@Example.com",
		ContactNumber:   "+44 20 1234",
		Specializations: []string{"Hatha", "Pranayama"},
	})
	require.NoError(t, err)
	return &fixture{db: db, svc: svc, notifier: notifier, inv: inv, teacher: teacher}
}

func (f *fixture) assignReq() AssignTeacherRequest {
	return AssignTeacherRequest{
		TeacherID:     f.teacher.ID,
		RetreatID:     f.inv.Retreat.ID,
		RetreatDateID: f.inv.Date.ID,
	}
}

func TestCreateTeacher_Defaults(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "ravi@example.com", f.teacher.Email)
	assert.True(t, f.teacher.IsActive)
	assert.Equal(t, []string{"Hatha", "Pranayama"}, []string(f.teacher.Specializations))
}

func TestCreateTeacher_DuplicateEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateTeacher(context.Background(), CreateTeacherRequest{
		Name:          "Other Ravi",
		Email:         "ravi@example.com",
		ContactNumber: "+1",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateTeacher_InvalidEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateTeacher(context.Background(), CreateTeacherRequest{
		Name:          "Nameless",
		Email:         "not-an-email",
		ContactNumber: "+1",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Fields["Email"])
}

func TestAssignTeacher_SendsAndMarksNotified(t *testing.T) {
	f := newFixture(t)
	f.notifier.On("SendTeacherAssignment", mock.Anything, mock.AnythingOfType("int64")).Return(nil).Once()

	a, err := f.svc.AssignTeacher(context.Background(), f.assignReq())
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultAssignmentRole, a.Role)
	assert.True(t, a.NotificationSent)
	assert.NotNil(t, a.NotificationSentAt)
	require.NotNil(t, a.Teacher)
	assert.Equal(t, "Ravi Das", a.Teacher.Name)
	f.notifier.AssertExpectations(t)
}

func TestAssignTeacher_EmailFailureLeavesPending(t *testing.T) {
	f := newFixture(t)
	f.notifier.On("SendTeacherAssignment", mock.Anything, mock.Anything).Return(errors.New("mailbox full")).Once()

	req := f.assignReq()
	req.Role = "Lead Teacher"
	a, err := f.svc.AssignTeacher(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Lead Teacher", a.Role)
	assert.False(t, a.NotificationSent)
	assert.Nil(t, a.NotificationSentAt)
}

func TestAssignTeacher_Duplicate(t *testing.T) {
	f := newFixture(t)
	f.notifier.On("SendTeacherAssignment", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := f.svc.AssignTeacher(context.Background(), f.assignReq())
	require.NoError(t, err)

	_, err = f.svc.AssignTeacher(context.Background(), f.assignReq())
	assert.ErrorIs(t, err, ErrDuplicateAssignment)
	assert.ErrorIs(t, err, domain.ErrConflict)

	var count int64
	require.NoError(t, f.db.Model(&domain.TeacherRetreatAssignment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	f.notifier.AssertNumberOfCalls(t, "SendTeacherAssignment", 1)
}

func TestAssignTeacher_DateFromAnotherRetreat(t *testing.T) {
	f := newFixture(t)
	other := testutil.SeedInventory(t, f.db, 5, 1, 800)

	req := f.assignReq()
	req.RetreatDateID = other.Date.ID
	_, err := f.svc.AssignTeacher(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrValidation)
	f.notifier.AssertNotCalled(t, "SendTeacherAssignment", mock.Anything, mock.Anything)
}

func TestAssignTeacher_UnknownTeacher(t *testing.T) {
	f := newFixture(t)

	req := f.assignReq()
	req.TeacherID = 999
	_, err := f.svc.AssignTeacher(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResendPendingNotifications(t *testing.T) {
	f := newFixture(t)
	second := testutil.SeedInventory(t, f.db, 8, 2, 1100)
	third := testutil.SeedInventory(t, f.db, 8, 2, 1100)

	f.notifier.On("SendTeacherAssignment", mock.Anything, mock.Anything).Return(errors.New("offline")).Times(3)
	for _, inv := range []testutil.Inventory{f.inv, second, third} {
		_, err := f.svc.AssignTeacher(context.Background(), AssignTeacherRequest{
			TeacherID:     f.teacher.ID,
			RetreatID:     inv.Retreat.ID,
			RetreatDateID: inv.Date.ID,
		})
		require.NoError(t, err)
	}

	var pending []domain.TeacherRetreatAssignment
	require.NoError(t, f.db.Order("id ASC").Find(&pending).Error)
	require.Len(t, pending, 3)

	f.notifier.On("SendTeacherAssignment", mock.Anything, pending[0].ID).Return(nil).Once()
	f.notifier.On("SendTeacherAssignment", mock.Anything, pending[1].ID).Return(errors.New("still offline")).Once()
	f.notifier.On("SendTeacherAssignment", mock.Anything, pending[2].ID).Return(nil).Once()

	res, err := f.svc.ResendPendingNotifications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &ResendResult{Sent: 2, Failed: 1}, res)

	var stillPending int64
	require.NoError(t, f.db.Model(&domain.TeacherRetreatAssignment{}).Where("notification_sent = ?", false).Count(&stillPending).Error)
	assert.EqualValues(t, 1, stillPending)
}

func TestUpdateAndDeleteTeacher(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bio := "Twenty years of practice."
	inactive := false
	updated, err := f.svc.UpdateTeacher(ctx, UpdateTeacherRequest{ID: f.teacher.ID, Bio: &bio, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Ravi Das", updated.Name)

	f.notifier.On("SendTeacherAssignment", mock.Anything, mock.Anything).Return(nil).Once()
	_, err = f.svc.AssignTeacher(ctx, f.assignReq())
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteTeacher(ctx, f.teacher.ID))
	assert.ErrorIs(t, f.svc.DeleteTeacher(ctx, f.teacher.ID), domain.ErrNotFound)

	var assignments int64
	require.NoError(t, f.db.Model(&domain.TeacherRetreatAssignment{}).Count(&assignments).Error)
	assert.Zero(t, assignments)
}

func TestUpdateTeacher_NormalizesAndValidatesEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	padded := "  Ravi.New@Example.com "
	updated, err := f.svc.UpdateTeacher(ctx, UpdateTeacherRequest{ID: f.teacher.ID, Email: &padded})
	require.NoError(t, err)
	assert.Equal(t, "ravi.new@example.com", updated.Email)

	bad := "ravi at example"
	_, err = f.svc.UpdateTeacher(ctx, UpdateTeacherRequest{ID: f.teacher.ID, Email: &bad})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Fields["Email"])
}
