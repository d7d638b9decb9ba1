package usecase

import (
	"context"
	"sort"
	"time"

	"doctor-connect/internal/converter"
	"doctor-connect/internal/delivery/dto"
	"doctor-connect/internal/domain/entity"
	"doctor-connect/internal/domain/repository"
	"doctor-connect/pkg/validator"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

var maxRating = decimal.NewFromInt(5)

type DoctorUsecase interface {
	ListDoctors(ctx context.Context, filter *dto.DoctorFilterRequest) ([]dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, id int) (*dto.DoctorResponse, error)
	GetSlots(ctx context.Context, id int, date string) (*dto.DoctorSlotsResponse, error)
	GetDashboard(ctx context.Context, id int) (*dto.DoctorDashboardResponse, error)
}

type doctorUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	now             func() time.Time
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
) DoctorUsecase {
	return &doctorUsecase{
		db:              db,
		log:             log,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		now:             time.Now,
	}
}

// ListDoctors returns every doctor, or only those rated at least MinRating
func (u *doctorUsecase) ListDoctors(ctx context.Context, filter *dto.DoctorFilterRequest) ([]dto.DoctorResponse, error) {
	var minRating *decimal.Decimal
	if filter != nil && filter.MinRating != "" {
		r, err := decimal.NewFromString(filter.MinRating)
		if err != nil || r.IsNegative() || r.GreaterThan(maxRating) {
			return nil, newFieldError("minRating", "minRating must be a number between 0 and 5")
		}
		minRating = &r
	}

	doctors, err := u.doctorRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	if minRating != nil {
		filtered := make([]entity.Doctor, 0, len(doctors))
		for i := range doctors {
			rating, err := doctors[i].RatingValue()
			if err != nil {
				u.log.Warnf("Skipping doctor %d with unreadable rating: %+v", doctors[i].ID, err)
				continue
			}
			if rating.GreaterThanOrEqual(*minRating) {
				filtered = append(filtered, doctors[i])
			}
		}
		doctors = filtered
	}

	return converter.DoctorsToResponses(doctors), nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, id int) (*dto.DoctorResponse, error) {
	doctor, err := u.findDoctor(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.DoctorToResponse(doctor), nil
}

// GetSlots lists the fixed daily slots for a date. Every slot is unavailable
// when the doctor does not work on that weekday.
func (u *doctorUsecase) GetSlots(ctx context.Context, id int, date string) (*dto.DoctorSlotsResponse, error) {
	if !validator.IsISODate(date) {
		return nil, newFieldError("date", "date must be a date in YYYY-MM-DD format")
	}
	day, _ := time.Parse(dateLayout, date)

	doctor, err := u.findDoctor(ctx, id)
	if err != nil {
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindAll(ctx, u.db, &entity.AppointmentFilter{DoctorID: &id, Date: date})
	if err != nil {
		u.log.Warnf("Failed to list appointments for doctor %d on %s: %+v", id, date, err)
		return nil, err
	}

	booked := make(map[string]struct{}, len(appointments))
	for i := range appointments {
		if !appointments[i].IsCancelled() {
			booked[appointments[i].Time] = struct{}{}
		}
	}

	accepts := doctor.AcceptsOn(day.Weekday())
	slots := make([]dto.SlotResponse, 0, len(entity.DailyTimeSlots))
	for _, t := range entity.DailyTimeSlots {
		_, taken := booked[t]
		slots = append(slots, dto.SlotResponse{Time: t, Available: accepts && !taken})
	}

	return &dto.DoctorSlotsResponse{
		DoctorID:        id,
		Date:            date,
		AcceptsBookings: accepts,
		Slots:           slots,
	}, nil
}

// GetDashboard loads the doctor and their appointments concurrently.
func (u *doctorUsecase) GetDashboard(ctx context.Context, id int) (*dto.DoctorDashboardResponse, error) {
	var (
		doctor       *entity.Doctor
		appointments []entity.Appointment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		doctor, err = u.findDoctor(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		appointments, err = u.appointmentRepo.FindAll(gctx, u.db, &entity.AppointmentFilter{DoctorID: &id})
		if err != nil {
			u.log.Warnf("Failed to list appointments for doctor %d: %+v", id, err)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	upcoming := make([]entity.Appointment, 0, len(appointments))
	for i := range appointments {
		if !appointments[i].IsCancelled() {
			upcoming = append(upcoming, appointments[i])
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		if upcoming[i].Date != upcoming[j].Date {
			return upcoming[i].Date < upcoming[j].Date
		}
		return upcoming[i].Time < upcoming[j].Time
	})

	today := u.now().Format(dateLayout)
	stats := dto.DashboardStats{
		Upcoming: len(upcoming),
		ByType:   map[string]int{},
	}
	for i := range upcoming {
		if upcoming[i].Date == today {
			stats.Today++
		}
		stats.ByType[string(upcoming[i].Type)]++
	}

	return &dto.DoctorDashboardResponse{
		Doctor:       *converter.DoctorToResponse(doctor),
		Appointments: converter.AppointmentsToResponses(upcoming),
		Stats:        stats,
	}, nil
}

func (u *doctorUsecase) findDoctor(ctx context.Context, id int) (*entity.Doctor, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", id, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}
