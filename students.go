package school

import (
	"errors"
	"strings"
	"time"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
	"github.com/uptrace/bun"
)

// Gender values accepted on student records.
const (
	GenderMale      = "male"
	GenderFemale    = "female"
	GenderNonBinary = "non-binary"
)

// ClassRecord describes a class placement, current or historical.
type ClassRecord struct {
	ClassName    string `json:"className"`
	Roll         string `json:"roll"`
	Section      string `json:"section"`
	AcademicYear string `json:"academicYear"`
}

// GuardianContact holds how to reach a student's guardian.
type GuardianContact struct {
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// Guardian is the responsible adult on record for a student.
type Guardian struct {
	GuardianName string          `json:"guardianName"`
	Relationship string          `json:"relationship"`
	Contact      GuardianContact `json:"contact"`
}

// Student is the student record model
type Student struct {
	bun.BaseModel   `bun:"table:students,alias:std"`
	ID              uuid.UUID     `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name            string        `bun:"name,notnull" json:"name"`
	DOB             time.Time     `bun:"dob,notnull" json:"dob"`
	Gender          string        `bun:"gender,notnull" json:"gender"`
	CurrentClass    ClassRecord   `bun:"current_class,type:jsonb" json:"currentClass"`
	Guardian        Guardian      `bun:"guardian,type:jsonb" json:"guardian"`
	PreviousClasses []ClassRecord `bun:"previous_classes,type:jsonb" json:"previousClasses,omitempty"`
	EnrollmentDate  *time.Time    `bun:"enrollment_date,nullzero,default:current_timestamp" json:"enrollmentDate,omitempty"`
	CreatedAt       *time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt       *time.Time    `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Validate checks the record has every required field and well formed
// guardian contact details.
func (s *Student) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.DOB, validation.Required),
		validation.Field(&s.Gender, validation.Required, validation.In(GenderMale, GenderFemale, GenderNonBinary)),
		validation.Field(&s.CurrentClass, validation.Required),
		validation.Field(&s.Guardian, validation.Required),
	)
}

// Validate checks a class placement is fully specified.
func (c ClassRecord) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ClassName, validation.Required),
		validation.Field(&c.Roll, validation.Required),
		validation.Field(&c.Section, validation.Required),
		validation.Field(&c.AcademicYear, validation.Required),
	)
}

// Validate checks the guardian block has a name, relationship, and a
// reachable phone number.
func (g Guardian) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.GuardianName, validation.Required),
		validation.Field(&g.Relationship, validation.Required),
		validation.Field(&g.Contact, validation.Required),
	)
}

// Validate checks the contact block. Email is optional but must be well
// formed when present.
func (c GuardianContact) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Phone, validation.Required, validation.By(ValidPhone)),
		validation.Field(&c.Email, is.Email),
	)
}

// ValidPhone accepts E.164 numbers, validated against phone metadata, and
// falls back to a digit count check for local formats without a country
// prefix.
func ValidPhone(value any) error {
	phone, _ := value.(string)
	if phone == "" {
		return nil
	}

	if strings.HasPrefix(phone, "+") {
		parsed, err := phonenumbers.Parse(phone, "")
		if err != nil {
			return errors.New("must be a valid phone number")
		}
		if !phonenumbers.IsValidNumber(parsed) {
			return errors.New("must be a valid phone number")
		}
		return nil
	}

	digits := 0
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits < 6 {
		return errors.New("must be a valid phone number")
	}
	return nil
}
