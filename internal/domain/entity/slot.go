package entity

import "fmt"

// Slot is one bookable window for a doctor.
type Slot struct {
	DoctorID int
	Date     string // Format: YYYY-MM-DD
	Time     string // Format: HH:MM
}

func (s Slot) String() string {
	return fmt.Sprintf("%d:%s:%s", s.DoctorID, s.Date, s.Time)
}

// DailyTimeSlots is the fixed set of half-hour start times offered each day.
var DailyTimeSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
}

// IsDailyTimeSlot reports whether t is one of DailyTimeSlots
func IsDailyTimeSlot(t string) bool {
	for _, s := range DailyTimeSlots {
		if s == t {
			return true
		}
	}
	return false
}
