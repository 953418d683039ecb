package domain

import (
	"time"

	"gorm.io/datatypes"
)

const DefaultAssignmentRole = "Instructor"

type Teacher struct {
	ID              int64                       `json:"id" gorm:"primaryKey"`
	Name            string                      `json:"name" gorm:"type:varchar(255);not null" validate:"required"`
	Email           string                      `json:"email" gorm:"type:varchar(255);not null;uniqueIndex" validate:"required,email"`
	ContactNumber   string                      `json:"contactNumber" gorm:"type:varchar(50);not null" validate:"required"`
	Bio             string                      `json:"bio" gorm:"type:text"`
	Specializations datatypes.JSONSlice[string] `json:"specializations"`
	IsActive        bool                        `json:"isActive" gorm:"not null"`
	CreatedAt       time.Time                   `json:"createdAt"`
	UpdatedAt       time.Time                   `json:"updatedAt"`

	Assignments []TeacherRetreatAssignment `json:"retreatAssignments,omitempty" gorm:"foreignKey:TeacherID"`
}

type TeacherRetreatAssignment struct {
	ID                 int64      `json:"id" gorm:"primaryKey"`
	TeacherID          int64      `json:"teacherId" gorm:"not null;uniqueIndex:idx_assignment_teacher_date"`
	RetreatID          int64      `json:"retreatId" gorm:"not null;index"`
	RetreatDateID      int64      `json:"retreatDateId" gorm:"not null;uniqueIndex:idx_assignment_teacher_date"`
	Role               string     `json:"role" gorm:"type:varchar(100);not null"`
	NotificationSent   bool       `json:"notificationSent" gorm:"not null;index"`
	NotificationSentAt *time.Time `json:"notificationSentAt"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`

	Teacher     *Teacher     `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
	Retreat     *Retreat     `json:"retreat,omitempty" gorm:"foreignKey:RetreatID"`
	RetreatDate *RetreatDate `json:"retreatDate,omitempty" gorm:"foreignKey:RetreatDateID"`
}
