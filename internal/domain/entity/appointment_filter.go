package entity

// AppointmentFilter is a domain-level filter for listing appointments.
// Used by repository layer to avoid coupling with delivery DTOs.
type AppointmentFilter struct {
	DoctorID *int
	Date     string // Format: YYYY-MM-DD
}
