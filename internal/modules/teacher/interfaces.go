package teacher

import "context"

// AssignmentNotifier delivers the assignment email. A nil error means the
// teacher was reached and the assignment can be marked notified.
type AssignmentNotifier interface {
	SendTeacherAssignment(ctx context.Context, assignmentID int64) error
}
