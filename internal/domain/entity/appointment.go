package entity

import "time"

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// AppointmentType is the consultation channel
type AppointmentType string

const (
	AppointmentTypeVideo    AppointmentType = "video"
	AppointmentTypeInPerson AppointmentType = "in-person"
)

// Appointment is one booked slot. Date and Time are kept as the exact text
// the client sent (YYYY-MM-DD and HH:MM) and compared by string equality.
type Appointment struct {
	ID          int               `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID    int               `gorm:"not null;index" json:"doctorId"`
	UserID      *int              `gorm:"index" json:"userId"`
	PatientName string            `gorm:"type:text;not null" json:"patientName"`
	Date        string            `gorm:"type:text;not null" json:"date"`
	Time        string            `gorm:"type:text;not null" json:"time"`
	Status      AppointmentStatus `gorm:"type:text;not null;default:'confirmed'" json:"status"`
	Type        AppointmentType   `gorm:"type:text;not null" json:"type"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"createdAt"`

	// Relationships
	Doctor *Doctor `gorm:"foreignKey:DoctorID" json:"-"`
	User   *User   `gorm:"foreignKey:UserID" json:"-"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsCancelled checks if the appointment no longer holds its slot
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// Slot returns the (doctor, date, time) triple the appointment occupies
func (a *Appointment) Slot() Slot {
	return Slot{DoctorID: a.DoctorID, Date: a.Date, Time: a.Time}
}
