package service

import (
	"strings"

	"github.com/Shivanand-hulikatti/kursverwaltung/internal/model"
	"github.com/Shivanand-hulikatti/kursverwaltung/internal/reference"
)

// Placeholder is displayed for a reference that does not resolve.
const Placeholder = "-"

// Alert texts shown after a failed mutation.
const (
	AlertSaveFailed   = "Fehler beim Speichern"
	AlertDeleteFailed = "Fehler beim Löschen"
)

// State is the whole screen state of the dashboard. It is a value: update
// functions take a State and return the next one. Collections are never
// modified in place, so copies of a State may share them.
type State struct {
	ActiveTab model.EntityType
	Search    string
	Loading   bool

	Instructors  []model.Instructor
	Participants []model.Participant
	Rooms        []model.Room
	Courses      []model.Course
	Enrollments  []model.Enrollment

	ModalOpen bool
	// Editing is the record being edited; nil while creating.
	Editing model.Item
	// Draft survives a failed save so the modal can show the entered data.
	Draft  model.Form
	Saving bool
	Alert  string
}

// InitialState is the state before the first load completes.
func InitialState() State {
	return State{ActiveTab: model.EntityCourses, Loading: true}
}

// ─── Update functions ────────────────────────────────────────────────────────

// SelectTab switches the active entity tab.
func SelectTab(s State, tab model.EntityType) State {
	s.ActiveTab = tab
	return s
}

// SetSearch replaces the free-text search term.
func SetSearch(s State, term string) State {
	s.Search = term
	return s
}

// OpenAdd opens the modal for a new record of the active tab.
func OpenAdd(s State) State {
	s.Editing = nil
	s.Draft = nil
	s.ModalOpen = true
	return s
}

// OpenEdit opens the modal seeded from item.
func OpenEdit(s State, item model.Item) State {
	s.Editing = item
	s.Draft = nil
	s.ModalOpen = true
	return s
}

// CloseModal hides the modal and forgets the edit target. It is a no-op while
// a save is in progress.
func CloseModal(s State) State {
	if s.Saving {
		return s
	}
	s.ModalOpen = false
	s.Editing = nil
	s.Draft = nil
	return s
}

// BeginSaving marks a mutation as in flight and clears any previous alert.
func BeginSaving(s State) State {
	s.Saving = true
	s.Alert = ""
	return s
}

// SaveSucceeded clears the saving flag and closes the modal.
func SaveSucceeded(s State) State {
	s.Saving = false
	return CloseModal(s)
}

// SaveFailed keeps the modal open with the submitted draft and raises an alert.
func SaveFailed(s State, draft model.Form) State {
	s.Saving = false
	s.Draft = draft
	s.Alert = AlertSaveFailed
	return s
}

// DeleteFailed raises an alert and leaves the collections untouched.
func DeleteFailed(s State) State {
	s.Saving = false
	s.Alert = AlertDeleteFailed
	return s
}

// DismissAlert clears the alert message.
func DismissAlert(s State) State {
	s.Alert = ""
	return s
}

// RemoveRecord drops the record with the given identifier from the
// collection of entity e.
func RemoveRecord(s State, e model.EntityType, id string) State {
	switch e {
	case model.EntityInstructors:
		s.Instructors = without(s.Instructors, id)
	case model.EntityParticipants:
		s.Participants = without(s.Participants, id)
	case model.EntityRooms:
		s.Rooms = without(s.Rooms, id)
	case model.EntityCourses:
		s.Courses = without(s.Courses, id)
	case model.EntityEnrollments:
		s.Enrollments = without(s.Enrollments, id)
	}
	return s
}

func without[F model.Fields](records []model.Record[F], id string) []model.Record[F] {
	out := make([]model.Record[F], 0, len(records))
	for _, r := range records {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

// ─── Queries ─────────────────────────────────────────────────────────────────

// Stats is recomputed from the collections on every call.
func (s State) Stats() model.Stats {
	paid := 0
	for _, e := range s.Enrollments {
		if e.Fields.Paid {
			paid++
		}
	}
	return model.Stats{
		Courses:      len(s.Courses),
		Instructors:  len(s.Instructors),
		Participants: len(s.Participants),
		Rooms:        len(s.Rooms),
		Enrollments:  len(s.Enrollments),
		Paid:         paid,
	}
}

// Find returns the record with the given identifier in the collection of e.
func (s State) Find(e model.EntityType, id string) (model.Item, bool) {
	switch e {
	case model.EntityInstructors:
		return find(s.Instructors, id)
	case model.EntityParticipants:
		return find(s.Participants, id)
	case model.EntityRooms:
		return find(s.Rooms, id)
	case model.EntityCourses:
		return find(s.Courses, id)
	case model.EntityEnrollments:
		return find(s.Enrollments, id)
	}
	return nil, false
}

func find[F model.Fields](records []model.Record[F], id string) (model.Item, bool) {
	if r, ok := lookup(records, id); ok {
		return r, true
	}
	return nil, false
}

func lookup[F model.Fields](records []model.Record[F], id string) (model.Record[F], bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return model.Record[F]{}, false
}

// resolve finds the record a reference points at and returns its label.
func resolve[F model.Fields](records []model.Record[F], ref string, label func(F) string) string {
	id, ok := reference.ExtractRecordID(ref)
	if !ok {
		return Placeholder
	}
	r, ok := lookup(records, id)
	if !ok {
		return Placeholder
	}
	if l := label(r.Fields); l != "" {
		return l
	}
	return Placeholder
}

// InstructorName resolves an instructor reference to the instructor's name.
func (s State) InstructorName(ref string) string {
	return resolve(s.Instructors, ref, func(f model.InstructorFields) string { return f.Name })
}

// ParticipantName resolves a participant reference to the participant's name.
func (s State) ParticipantName(ref string) string {
	return resolve(s.Participants, ref, func(f model.ParticipantFields) string { return f.Name })
}

// CourseTitle resolves a course reference to the course title.
func (s State) CourseTitle(ref string) string {
	return resolve(s.Courses, ref, func(f model.CourseFields) string { return f.Title })
}

// RoomName resolves a room reference to the room name.
func (s State) RoomName(ref string) string {
	return resolve(s.Rooms, ref, func(f model.RoomFields) string { return f.Name })
}

// ─── Filters ─────────────────────────────────────────────────────────────────

func matches(term string, values ...string) bool {
	term = strings.ToLower(term)
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

func filter[F model.Fields](records []model.Record[F], term string, keys func(F) []string) []model.Record[F] {
	out := make([]model.Record[F], 0, len(records))
	for _, r := range records {
		if matches(term, keys(r.Fields)...) {
			out = append(out, r)
		}
	}
	return out
}

// FilteredInstructors matches the search term against name and specialty.
func (s State) FilteredInstructors() []model.Instructor {
	return filter(s.Instructors, s.Search, func(f model.InstructorFields) []string {
		return []string{f.Name, f.Specialty}
	})
}

// FilteredParticipants matches the search term against name and email.
func (s State) FilteredParticipants() []model.Participant {
	return filter(s.Participants, s.Search, func(f model.ParticipantFields) []string {
		return []string{f.Name, f.Email}
	})
}

// FilteredRooms matches the search term against room name and building.
func (s State) FilteredRooms() []model.Room {
	return filter(s.Rooms, s.Search, func(f model.RoomFields) []string {
		return []string{f.Name, f.Building}
	})
}

// FilteredCourses matches the search term against the title.
func (s State) FilteredCourses() []model.Course {
	return filter(s.Courses, s.Search, func(f model.CourseFields) []string {
		return []string{f.Title}
	})
}

// FilteredEnrollments returns all enrollments; the search box does not apply
// to them.
func (s State) FilteredEnrollments() []model.Enrollment {
	return s.Enrollments
}

// ─── Form seeding ────────────────────────────────────────────────────────────

// SeedForm returns the draft the modal starts from: the surviving draft of a
// failed save, the edit target's fields with references decoded to selected
// identifiers, or an empty form for the active tab.
func (s State) SeedForm() model.Form {
	if s.Draft != nil {
		return s.Draft
	}
	if s.Editing != nil {
		return FormFromItem(s.Editing)
	}
	return model.EmptyForm(s.ActiveTab)
}

// FormFromItem copies a record's fields into a form draft.
func FormFromItem(item model.Item) model.Form {
	switch r := item.(type) {
	case model.Instructor:
		f := r.Fields
		return model.InstructorForm{Name: f.Name, Email: f.Email, Phone: f.Phone, Specialty: f.Specialty}
	case model.Participant:
		f := r.Fields
		return model.ParticipantForm{Name: f.Name, Email: f.Email, Phone: f.Phone, BirthDate: f.BirthDate}
	case model.Room:
		f := r.Fields
		return model.RoomForm{Name: f.Name, Building: f.Building, Capacity: f.Capacity}
	case model.Course:
		f := r.Fields
		instructorID, _ := reference.ExtractRecordID(f.Instructor)
		roomID, _ := reference.ExtractRecordID(f.Room)
		return model.CourseForm{
			Title:           f.Title,
			Description:     f.Description,
			StartDate:       f.StartDate,
			EndDate:         f.EndDate,
			MaxParticipants: f.MaxParticipants,
			Price:           f.Price,
			InstructorID:    instructorID,
			RoomID:          roomID,
		}
	case model.Enrollment:
		f := r.Fields
		participantID, _ := reference.ExtractRecordID(f.Participant)
		courseID, _ := reference.ExtractRecordID(f.Course)
		return model.EnrollmentForm{
			ParticipantID:  participantID,
			CourseID:       courseID,
			EnrollmentDate: f.EnrollmentDate,
			Paid:           f.Paid,
		}
	}
	return nil
}
