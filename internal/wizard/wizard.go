// Package wizard drives the four-step booking flow on top of the REST client:
// pick a doctor, pick a date and time, confirm, done.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"doctor-connect/internal/domain/entity"
	"doctor-connect/pkg/apiclient"
	"doctor-connect/pkg/validator"
)

const (
	DefaultPatientName = "Guest Patient"
	dateLayout         = "2006-01-02"
)

var (
	ErrInvalidTransition = errors.New("action not allowed in current step")
	ErrNoDoctor          = errors.New("no doctor selected")
	ErrDateUnavailable   = errors.New("doctor does not accept bookings on this date")
	ErrInvalidDate       = errors.New("date must be YYYY-MM-DD")
	ErrUnknownTime       = errors.New("time is not an offered slot")
	ErrTimeTaken         = errors.New("time slot is already booked")
	ErrIncomplete        = errors.New("date and time must be selected")
	ErrInvalidType       = errors.New("type must be video or in-person")
)

type State int

const (
	StateSelectDoctor State = iota
	StateSelectSlot
	StateConfirming
	StateSuccess
)

func (s State) String() string {
	switch s {
	case StateSelectDoctor:
		return "select-doctor"
	case StateSelectSlot:
		return "select-slot"
	case StateConfirming:
		return "confirming"
	case StateSuccess:
		return "success"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Client is the part of apiclient.Client the wizard needs.
type Client interface {
	ListDoctors(ctx context.Context) ([]apiclient.Doctor, error)
	GetDoctor(ctx context.Context, id int) (*apiclient.Doctor, error)
	ListAppointments(ctx context.Context, doctorID *int) ([]apiclient.Appointment, error)
	BookAppointment(ctx context.Context, req apiclient.NewAppointment) (*apiclient.Appointment, error)
}

// Wizard is not safe for concurrent use; it models one user's session.
type Wizard struct {
	client Client
	now    func() time.Time

	state       State
	doctorID    int
	doctor      *apiclient.Doctor
	date        string
	clock       string
	apptType    string
	patientName string
	userID      *int

	// booked holds the non-cancelled times of the selected date. It is
	// refreshed on every date change and may be stale; the server decides.
	booked map[string]struct{}

	notice      string
	appointment *apiclient.Appointment
}

// New starts at doctor selection, or directly at slot selection when doctorID is given.
func New(client Client, doctorID *int) *Wizard {
	w := &Wizard{
		client:      client,
		now:         time.Now,
		state:       StateSelectDoctor,
		apptType:    string(entity.AppointmentTypeVideo),
		patientName: DefaultPatientName,
		booked:      map[string]struct{}{},
	}
	if doctorID != nil {
		w.doctorID = *doctorID
		w.state = StateSelectSlot
	}
	return w
}

func (w *Wizard) State() State                        { return w.state }
func (w *Wizard) Doctor() *apiclient.Doctor           { return w.doctor }
func (w *Wizard) Date() string                        { return w.date }
func (w *Wizard) Time() string                        { return w.clock }
func (w *Wizard) Type() string                        { return w.apptType }
func (w *Wizard) Notice() string                      { return w.notice }
func (w *Wizard) Appointment() *apiclient.Appointment { return w.appointment }

// Doctors lists the doctors to choose from in the first step.
func (w *Wizard) Doctors(ctx context.Context) ([]apiclient.Doctor, error) {
	return w.client.ListDoctors(ctx)
}

func (w *Wizard) SelectDoctor(ctx context.Context, id int) error {
	if w.state != StateSelectDoctor {
		return ErrInvalidTransition
	}
	doctor, err := w.client.GetDoctor(ctx, id)
	if err != nil {
		return err
	}
	w.doctorID = id
	w.doctor = doctor
	w.resetSlot()
	w.state = StateSelectSlot
	return nil
}

// Back returns from slot selection to doctor selection.
func (w *Wizard) Back() error {
	if w.state != StateSelectSlot {
		return ErrInvalidTransition
	}
	w.doctorID = 0
	w.doctor = nil
	w.resetSlot()
	w.state = StateSelectDoctor
	return nil
}

// SetPatient overrides the guest defaults used when confirming.
func (w *Wizard) SetPatient(name string, userID *int) {
	if name == "" {
		name = DefaultPatientName
	}
	w.patientName = name
	w.userID = userID
}

func (w *Wizard) SetType(t string) error {
	switch entity.AppointmentType(t) {
	case entity.AppointmentTypeVideo, entity.AppointmentTypeInPerson:
		w.apptType = t
		return nil
	default:
		return ErrInvalidType
	}
}

// SelectDate picks a day, clears the chosen time and refetches the doctor's
// appointments to rebuild the booked-time cache for that day.
func (w *Wizard) SelectDate(ctx context.Context, date string) error {
	if w.state != StateSelectSlot {
		return ErrInvalidTransition
	}
	if !validator.IsISODate(date) {
		return ErrInvalidDate
	}
	day, _ := time.Parse(dateLayout, date)
	if date < w.now().Format(dateLayout) {
		return ErrDateUnavailable
	}

	doctor, err := w.loadDoctor(ctx)
	if err != nil {
		return err
	}
	if !doctor.AcceptsOn(day.Weekday()) {
		return ErrDateUnavailable
	}

	w.date = date
	w.clock = ""
	w.notice = ""

	doctorID := doctor.ID
	appointments, err := w.client.ListAppointments(ctx, &doctorID)
	if err != nil {
		w.booked = map[string]struct{}{}
		return fmt.Errorf("fetch booked slots: %w", err)
	}

	booked := make(map[string]struct{}, len(appointments))
	for _, a := range appointments {
		if a.Date == date && a.Status != string(entity.AppointmentStatusCancelled) {
			booked[a.Time] = struct{}{}
		}
	}
	w.booked = booked
	return nil
}

// Slots reports every offered time for the selected date and whether it looks free.
func (w *Wizard) Slots() map[string]bool {
	slots := make(map[string]bool, len(entity.DailyTimeSlots))
	for _, t := range entity.DailyTimeSlots {
		_, taken := w.booked[t]
		slots[t] = w.date != "" && !taken
	}
	return slots
}

func (w *Wizard) SelectTime(t string) error {
	if w.state != StateSelectSlot {
		return ErrInvalidTransition
	}
	if w.date == "" {
		return ErrIncomplete
	}
	if !entity.IsDailyTimeSlot(t) {
		return ErrUnknownTime
	}
	if _, taken := w.booked[t]; taken {
		return ErrTimeTaken
	}
	w.clock = t
	return nil
}

// Confirm books the selected slot. A conflict keeps the wizard on slot
// selection with Notice set and the time marked as booked.
func (w *Wizard) Confirm(ctx context.Context) error {
	if w.state != StateSelectSlot {
		return ErrInvalidTransition
	}
	if w.date == "" || w.clock == "" {
		return ErrIncomplete
	}
	doctor, err := w.loadDoctor(ctx)
	if err != nil {
		return err
	}

	w.state = StateConfirming
	w.notice = ""
	appointment, err := w.client.BookAppointment(ctx, apiclient.NewAppointment{
		DoctorID:    doctor.ID,
		UserID:      w.userID,
		PatientName: w.patientName,
		Date:        w.date,
		Time:        w.clock,
		Status:      string(entity.AppointmentStatusConfirmed),
		Type:        w.apptType,
	})
	if err != nil {
		w.state = StateSelectSlot
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			w.notice = apiErr.Message
		} else {
			w.notice = "Failed to book appointment"
		}
		if apiclient.IsConflict(err) {
			w.booked[w.clock] = struct{}{}
			w.clock = ""
			return fmt.Errorf("%w: %s", ErrTimeTaken, w.notice)
		}
		return err
	}

	w.appointment = appointment
	w.state = StateSuccess
	return nil
}

func (w *Wizard) loadDoctor(ctx context.Context) (*apiclient.Doctor, error) {
	if w.doctor != nil {
		return w.doctor, nil
	}
	if w.doctorID == 0 {
		return nil, ErrNoDoctor
	}
	doctor, err := w.client.GetDoctor(ctx, w.doctorID)
	if err != nil {
		return nil, err
	}
	w.doctor = doctor
	return doctor, nil
}

func (w *Wizard) resetSlot() {
	w.date = ""
	w.clock = ""
	w.notice = ""
	w.booked = map[string]struct{}{}
}
