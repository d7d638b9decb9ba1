package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ratingMin = decimal.Zero
	ratingMax = decimal.NewFromInt(5)
)

// Doctor is a bookable practitioner. Rows are written by the seeder only.
type Doctor struct {
	ID            int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"type:text;not null" json:"name"`
	Specialty     string    `gorm:"type:text;not null" json:"specialty"`
	Bio           string    `gorm:"type:text;not null" json:"bio"`
	Image         string    `gorm:"type:text;not null" json:"image"`
	AvailableDays Weekdays  `gorm:"column:available_days;type:jsonb;not null" json:"availableDays"`
	Rating        string    `gorm:"type:text;not null;default:'5.0'" json:"rating"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// RatingValue parses the stored text rating.
func (d *Doctor) RatingValue() (decimal.Decimal, error) {
	r, err := decimal.NewFromString(d.Rating)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid rating %q: %w", d.Rating, err)
	}
	if r.LessThan(ratingMin) || r.GreaterThan(ratingMax) {
		return decimal.Zero, fmt.Errorf("rating %s out of range 0.0-5.0", d.Rating)
	}
	return r, nil
}

// AcceptsOn reports whether the doctor takes appointments on the given weekday.
func (d *Doctor) AcceptsOn(day time.Weekday) bool {
	for _, wd := range d.AvailableDays {
		if wd == int(day) {
			return true
		}
	}
	return false
}

// Weekdays is a set of weekday numbers (0 = Sunday) stored as a jsonb array.
type Weekdays []int

// Valid reports whether every entry is in 0..6.
func (w Weekdays) Valid() bool {
	for _, d := range w {
		if d < 0 || d > 6 {
			return false
		}
	}
	return true
}

// Value implements driver.Valuer
func (w Weekdays) Value() (driver.Value, error) {
	if w == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]int(w))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (w *Weekdays) Scan(value interface{}) error {
	if value == nil {
		*w = Weekdays{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal available_days value:", value))
	}

	var days []int
	if err := json.Unmarshal(bytes, &days); err != nil {
		return err
	}
	*w = Weekdays(days)
	return nil
}
