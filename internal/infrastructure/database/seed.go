package database

import (
	"context"
	"fmt"

	"doctor-connect/internal/domain/entity"
	"doctor-connect/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DefaultDoctors is the catalogue written on first start.
var DefaultDoctors = []entity.Doctor{
	{
		Name:          "Dr. Sarah Wilson",
		Specialty:     "Cardiologist",
		Bio:           "Expert in cardiovascular health with 10 years of experience.",
		Image:         "/assets/doctors/friendly_female_doctor_portrait.png",
		AvailableDays: entity.Weekdays{1, 2, 3, 4, 5},
		Rating:        "4.9",
	},
	{
		Name:          "Dr. Michael Chen",
		Specialty:     "General Practitioner",
		Bio:           "Family physician dedicated to comprehensive care for all ages.",
		Image:         "/assets/doctors/professional_male_doctor_portrait.png",
		AvailableDays: entity.Weekdays{1, 3, 5},
		Rating:        "4.8",
	},
	{
		Name:          "Dr. Emily Rodriguez",
		Specialty:     "Dermatologist",
		Bio:           "Specializing in medical and cosmetic dermatology.",
		Image:         "/assets/doctors/experienced_female_specialist_portrait.png",
		AvailableDays: entity.Weekdays{2, 4},
		Rating:        "5.0",
	},
}

// SeedDoctors inserts doctors when the table is empty. Existing data is left untouched.
func SeedDoctors(ctx context.Context, db *gorm.DB, log *logrus.Logger, doctorRepo repository.DoctorRepository, doctors []entity.Doctor) error {
	existing, err := doctorRepo.Count(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to count doctors: %w", err)
	}
	if existing > 0 {
		log.Infof("Database already has %d doctors, skipping seed", existing)
		return nil
	}

	for i := range doctors {
		doctor := doctors[i]
		if !doctor.AvailableDays.Valid() {
			return fmt.Errorf("seed doctor %q: available days must be within 0-6", doctor.Name)
		}
		rating, err := doctor.RatingValue()
		if err != nil {
			return fmt.Errorf("seed doctor %q: %w", doctor.Name, err)
		}
		doctor.Rating = rating.StringFixed(1)

		if err := doctorRepo.Create(ctx, db, &doctor); err != nil {
			return fmt.Errorf("failed to seed doctor %q: %w", doctor.Name, err)
		}
		log.Infof("Seeded doctor: id=%d, name=%s", doctor.ID, doctor.Name)
	}

	return nil
}
