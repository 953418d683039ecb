package teacher

type CreateTeacherRequest struct {
	Name            string   `json:"name" binding:"required" validate:"required"`
	Email           string   `json:"email" binding:"required" validate:"required,email"`
	ContactNumber   string   `json:"contactNumber" binding:"required" validate:"required"`
	Bio             string   `json:"bio"`
	Specializations []string `json:"specializations"`
	IsActive        *bool    `json:"isActive"`
}

// UpdateTeacherRequest carries the id in the body; nil fields are left
// untouched.
type UpdateTeacherRequest struct {
	ID              int64     `json:"id"`
	Name            *string   `json:"name"`
	Email           *string   `json:"email"`
	ContactNumber   *string   `json:"contactNumber"`
	Bio             *string   `json:"bio"`
	Specializations *[]string `json:"specializations"`
	IsActive        *bool     `json:"isActive"`
}

type AssignTeacherRequest struct {
	TeacherID     int64  `json:"teacherId" binding:"required"`
	RetreatID     int64  `json:"retreatId" binding:"required"`
	RetreatDateID int64  `json:"retreatDateId" binding:"required"`
	Role          string `json:"role"`
}

type ResendResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}
