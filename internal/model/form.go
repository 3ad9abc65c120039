package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownField is returned when a form is asked to set a field it does not have.
var ErrUnknownField = errors.New("unknown form field")

// ErrInvalidNumber is returned when a numeric form field cannot be parsed.
var ErrInvalidNumber = errors.New("invalid number")

// Form is the editable draft behind the entity form modal. Each variant
// carries its own typed field set; reference fields hold the selected
// record identifier rather than a reference URL.
type Form interface {
	Entity() EntityType
	// With returns a copy of the form with exactly one named field replaced.
	With(name, value string) (Form, error)
}

// InstructorForm is the draft of an InstructorFields mapping.
type InstructorForm struct {
	Name      string
	Email     string
	Phone     string
	Specialty string
}

// ParticipantForm is the draft of a ParticipantFields mapping.
type ParticipantForm struct {
	Name      string
	Email     string
	Phone     string
	BirthDate string
}

// RoomForm is the draft of a RoomFields mapping.
type RoomForm struct {
	Name     string
	Building string
	Capacity int
}

// CourseForm is the draft of a CourseFields mapping.
type CourseForm struct {
	Title           string
	Description     string
	StartDate       string
	EndDate         string
	MaxParticipants int
	Price           float64
	InstructorID    string
	RoomID          string
}

// EnrollmentForm is the draft of an EnrollmentFields mapping.
type EnrollmentForm struct {
	ParticipantID  string
	CourseID       string
	EnrollmentDate string
	Paid           bool
}

func (InstructorForm) Entity() EntityType  { return EntityInstructors }
func (ParticipantForm) Entity() EntityType { return EntityParticipants }
func (RoomForm) Entity() EntityType        { return EntityRooms }
func (CourseForm) Entity() EntityType      { return EntityCourses }
func (EnrollmentForm) Entity() EntityType  { return EntityEnrollments }

// Form field names, as posted by the modal.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPhone           = "telefon"
	FieldSpecialty       = "fachgebiet"
	FieldBirthDate       = "geburtsdatum"
	FieldRoomName        = "raumname"
	FieldBuilding        = "gebaeude"
	FieldCapacity        = "kapazitaet"
	FieldTitle           = "titel"
	FieldDescription     = "beschreibung"
	FieldStartDate       = "startdatum"
	FieldEndDate         = "enddatum"
	FieldMaxParticipants = "max_teilnehmer"
	FieldPrice           = "preis"
	FieldInstructorID    = "dozent_id"
	FieldRoomID          = "raum_id"
	FieldParticipantID   = "teilnehmer_id"
	FieldCourseID        = "kurs_id"
	FieldEnrollmentDate  = "anmeldedatum"
	FieldPaid            = "bezahlt"
)

var formFieldNames = map[EntityType][]string{
	EntityInstructors:  {FieldName, FieldEmail, FieldPhone, FieldSpecialty},
	EntityParticipants: {FieldName, FieldEmail, FieldPhone, FieldBirthDate},
	EntityRooms:        {FieldRoomName, FieldBuilding, FieldCapacity},
	EntityCourses: {
		FieldTitle, FieldDescription, FieldStartDate, FieldEndDate,
		FieldMaxParticipants, FieldPrice, FieldInstructorID, FieldRoomID,
	},
	EntityEnrollments: {FieldParticipantID, FieldCourseID, FieldEnrollmentDate, FieldPaid},
}

// FormFieldNames returns the field names the modal shows for an entity type.
func FormFieldNames(e EntityType) []string {
	return formFieldNames[e]
}

// EmptyForm returns a blank draft for the entity type, or nil if e is unknown.
func EmptyForm(e EntityType) Form {
	switch e {
	case EntityInstructors:
		return InstructorForm{}
	case EntityParticipants:
		return ParticipantForm{}
	case EntityRooms:
		return RoomForm{}
	case EntityCourses:
		return CourseForm{}
	case EntityEnrollments:
		return EnrollmentForm{}
	}
	return nil
}

func (f InstructorForm) With(name, value string) (Form, error) {
	switch name {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldPhone:
		f.Phone = value
	case FieldSpecialty:
		f.Specialty = value
	default:
		return f, unknownField(f, name)
	}
	return f, nil
}

func (f ParticipantForm) With(name, value string) (Form, error) {
	switch name {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldPhone:
		f.Phone = value
	case FieldBirthDate:
		f.BirthDate = value
	default:
		return f, unknownField(f, name)
	}
	return f, nil
}

func (f RoomForm) With(name, value string) (Form, error) {
	switch name {
	case FieldRoomName:
		f.Name = value
	case FieldBuilding:
		f.Building = value
	case FieldCapacity:
		n, err := parseInt(name, value)
		if err != nil {
			return f, err
		}
		f.Capacity = n
	default:
		return f, unknownField(f, name)
	}
	return f, nil
}

func (f CourseForm) With(name, value string) (Form, error) {
	switch name {
	case FieldTitle:
		f.Title = value
	case FieldDescription:
		f.Description = value
	case FieldStartDate:
		f.StartDate = value
	case FieldEndDate:
		f.EndDate = value
	case FieldMaxParticipants:
		n, err := parseInt(name, value)
		if err != nil {
			return f, err
		}
		f.MaxParticipants = n
	case FieldPrice:
		p, err := parseFloat(name, value)
		if err != nil {
			return f, err
		}
		f.Price = p
	case FieldInstructorID:
		f.InstructorID = value
	case FieldRoomID:
		f.RoomID = value
	default:
		return f, unknownField(f, name)
	}
	return f, nil
}

func (f EnrollmentForm) With(name, value string) (Form, error) {
	switch name {
	case FieldParticipantID:
		f.ParticipantID = value
	case FieldCourseID:
		f.CourseID = value
	case FieldEnrollmentDate:
		f.EnrollmentDate = value
	case FieldPaid:
		f.Paid = parseCheckbox(value)
	default:
		return f, unknownField(f, name)
	}
	return f, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func unknownField(f Form, name string) error {
	return fmt.Errorf("%w: %s has no field %q", ErrUnknownField, f.Entity(), name)
}

// Empty numeric input parses as zero; the input's required constraint is
// enforced by the browser.
func parseInt(name, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidNumber, name, value)
	}
	return n, nil
}

func parseFloat(name, value string) (float64, error) {
	value = strings.TrimSpace(strings.ReplaceAll(value, ",", "."))
	if value == "" {
		return 0, nil
	}
	p, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidNumber, name, value)
	}
	return p, nil
}

func parseCheckbox(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
