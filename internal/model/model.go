// Package model defines the core domain types for the course administration
// dashboard.
package model

import (
	"encoding/json"
	"time"
)

// EntityType identifies one of the five record collections. Its value doubles
// as the dashboard tab identifier.
type EntityType string

const (
	EntityCourses      EntityType = "kurse"
	EntityInstructors  EntityType = "dozenten"
	EntityParticipants EntityType = "teilnehmer"
	EntityRooms        EntityType = "raeume"
	EntityEnrollments  EntityType = "anmeldungen"
)

// Entities lists all entity types in tab order.
var Entities = []EntityType{
	EntityCourses,
	EntityInstructors,
	EntityParticipants,
	EntityRooms,
	EntityEnrollments,
}

var entityLabels = map[EntityType]string{
	EntityCourses:      "Kurse",
	EntityInstructors:  "Dozenten",
	EntityParticipants: "Teilnehmer",
	EntityRooms:        "Räume",
	EntityEnrollments:  "Anmeldungen",
}

// Label returns the human-readable tab label.
func (e EntityType) Label() string {
	return entityLabels[e]
}

// Valid reports whether e is one of the known entity types.
func (e EntityType) Valid() bool {
	_, ok := entityLabels[e]
	return ok
}

// ParseEntityType converts a tab identifier into an EntityType.
func ParseEntityType(s string) (EntityType, bool) {
	e := EntityType(s)
	return e, e.Valid()
}

// Fields is implemented by every entity-specific field set.
type Fields interface {
	Entity() EntityType
}

// Record is one entity instance as stored by the hosted records service.
// The identifier is assigned by the service and never generated locally.
type Record[F Fields] struct {
	ID        string `json:"record_id"`
	Fields    F      `json:"fields"`
	CreatedAt string `json:"createdat,omitempty"`
	UpdatedAt string `json:"updatedat,omitempty"`
}

// RecordID returns the service-assigned identifier.
func (r Record[F]) RecordID() string { return r.ID }

// Entity returns the record's entity type.
func (r Record[F]) Entity() EntityType { return r.Fields.Entity() }

// Item is a record of any entity type. It is the edit target of the form
// modal; type-switch on the concrete Record[F] to reach the fields.
type Item interface {
	RecordID() string
	Entity() EntityType
}

// InstructorFields is the field mapping of a Dozent.
type InstructorFields struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"telefon"`
	Specialty string `json:"fachgebiet"`
}

func (InstructorFields) Entity() EntityType { return EntityInstructors }

// ParticipantFields is the field mapping of a Teilnehmer.
type ParticipantFields struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"telefon"`
	BirthDate string `json:"geburtsdatum"`
}

func (ParticipantFields) Entity() EntityType { return EntityParticipants }

// RoomFields is the field mapping of a Raum.
type RoomFields struct {
	Name     string `json:"raumname"`
	Building string `json:"gebaeude"`
	Capacity int    `json:"kapazitaet"`
}

func (RoomFields) Entity() EntityType { return EntityRooms }

// CourseFields is the field mapping of a Kurs. Instructor and Room hold
// references and are omitted from the payload when unset.
type CourseFields struct {
	Title           string  `json:"titel"`
	Description     string  `json:"beschreibung"`
	StartDate       string  `json:"startdatum"`
	EndDate         string  `json:"enddatum"`
	MaxParticipants int     `json:"max_teilnehmer"`
	Price           float64 `json:"preis"`
	Instructor      string  `json:"dozent,omitempty"`
	Room            string  `json:"raum,omitempty"`
}

func (CourseFields) Entity() EntityType { return EntityCourses }

// EnrollmentFields is the field mapping of an Anmeldung. Participant and
// Course hold references and are omitted from the payload when unset.
type EnrollmentFields struct {
	Participant    string `json:"teilnehmer,omitempty"`
	Course         string `json:"kurs,omitempty"`
	EnrollmentDate string `json:"anmeldedatum"`
	Paid           bool   `json:"bezahlt"`
}

func (EnrollmentFields) Entity() EntityType { return EntityEnrollments }

// Convenience aliases for the five record kinds.
type (
	Instructor  = Record[InstructorFields]
	Participant = Record[ParticipantFields]
	Room        = Record[RoomFields]
	Course      = Record[CourseFields]
	Enrollment  = Record[EnrollmentFields]
)

// Stats summarises the collections currently held in memory.
type Stats struct {
	Courses      int `json:"kurse"`
	Instructors  int `json:"dozenten"`
	Participants int `json:"teilnehmer"`
	Rooms        int `json:"raeume"`
	Enrollments  int `json:"anmeldungen"`
	Paid         int `json:"bezahlt"`
}

// Count returns the collection size for the given entity type.
func (s Stats) Count(e EntityType) int {
	switch e {
	case EntityCourses:
		return s.Courses
	case EntityInstructors:
		return s.Instructors
	case EntityParticipants:
		return s.Participants
	case EntityRooms:
		return s.Rooms
	case EntityEnrollments:
		return s.Enrollments
	}
	return 0
}

// JournalAction is the kind of mutation recorded in the audit journal.
type JournalAction string

const (
	ActionCreate JournalAction = "create"
	ActionUpdate JournalAction = "update"
	ActionDelete JournalAction = "delete"
)

// JournalEntry records one successful mutation issued by the dashboard.
type JournalEntry struct {
	ID        string          `json:"id"`
	Entity    EntityType      `json:"entity"`
	Action    JournalAction   `json:"action"`
	RecordID  string          `json:"record_id"`
	Fields    json.RawMessage `json:"fields,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
