package entity

import "time"

// UserRole distinguishes patients from doctors
type UserRole string

const (
	RolePatient UserRole = "patient"
	RoleDoctor  UserRole = "doctor"
)

// User is an account. DoctorID links a doctor-role account to its Doctor row.
type User struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Role      UserRole  `gorm:"type:text;not null" json:"role"`
	DoctorID  *int      `json:"doctorId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`

	// Relationships
	Doctor *Doctor `gorm:"foreignKey:DoctorID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// IsDoctor checks if the account belongs to a doctor
func (u *User) IsDoctor() bool {
	return u.Role == RoleDoctor
}
