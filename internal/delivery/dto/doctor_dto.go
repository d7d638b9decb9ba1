package dto

import "time"

// Request DTOs

// DoctorFilterRequest holds the query parameters of the doctor listing
type DoctorFilterRequest struct {
	MinRating string `json:"minRating"`
}

// Response DTOs

type DoctorResponse struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Specialty     string    `json:"specialty"`
	Bio           string    `json:"bio"`
	Image         string    `json:"image"`
	AvailableDays []int     `json:"availableDays"`
	Rating        string    `json:"rating"`
	CreatedAt     time.Time `json:"createdAt"`
}

type SlotResponse struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type DoctorSlotsResponse struct {
	DoctorID        int            `json:"doctorId"`
	Date            string         `json:"date"`
	AcceptsBookings bool           `json:"acceptsBookings"`
	Slots           []SlotResponse `json:"slots"`
}

type DashboardStats struct {
	Upcoming int            `json:"upcoming"`
	Today    int            `json:"today"`
	ByType   map[string]int `json:"byType"`
}

// DoctorDashboardResponse lists the doctor's non-cancelled appointments
// ordered by date then time.
type DoctorDashboardResponse struct {
	Doctor       DoctorResponse        `json:"doctor"`
	Appointments []AppointmentResponse `json:"appointments"`
	Stats        DashboardStats        `json:"stats"`
}
