package handler

import (
	"html/template"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/kursverwaltung/internal/model"
	"github.com/Shivanand-hulikatti/kursverwaltung/internal/service"
)

// stubLookups resolves every reference to a fixed label, or the placeholder
// for empty references.
type stubLookups struct{}

func (stubLookups) label(prefix, ref string) string {
	if ref == "" {
		return service.Placeholder
	}
	return prefix
}

func (l stubLookups) InstructorName(ref string) string  { return l.label("Dozent", ref) }
func (l stubLookups) ParticipantName(ref string) string { return l.label("Teilnehmer", ref) }
func (l stubLookups) CourseTitle(ref string) string     { return l.label("Kurs", ref) }
func (l stubLookups) RoomName(ref string) string        { return l.label("Raum", ref) }

func TestRenderTables_EmptyTexts(t *testing.T) {
	tests := []struct {
		name  string
		table tableView
		want  string
		span  int
	}{
		{"instructors", renderInstructors(nil), "Keine Dozenten gefunden", 5},
		{"participants", renderParticipants(nil), "Keine Teilnehmer gefunden", 5},
		{"rooms", renderRooms(nil), "Keine Räume gefunden", 4},
		{"courses", renderCourses(nil, stubLookups{}, nil), "Keine Kurse gefunden", 7},
		{"enrollments", renderEnrollments(nil, stubLookups{}), "Keine Anmeldungen gefunden", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, tt.table.Rows)
			assert.Equal(t, tt.want, tt.table.Empty)
			assert.Equal(t, tt.span, tt.table.Span())
		})
	}
}

func TestRenderRooms_Capacity(t *testing.T) {
	table := renderRooms([]model.Room{{ID: "r1", Fields: model.RoomFields{Name: "Studio A", Building: "Haus 1", Capacity: 20}}})

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "r1", table.Rows[0].ID)
	assert.Equal(t, "20 Plätze", table.Rows[0].Cells[2].Text)
}

func TestRenderCourses_MissingReferencesAndDates(t *testing.T) {
	md := func(s string) template.HTML { return template.HTML("<p>" + s + "</p>") }
	table := renderCourses([]model.Course{{ID: "k1", Fields: model.CourseFields{
		Title: "Yoga", Description: "ruhig", StartDate: "2025-03-01", MaxParticipants: 10, Price: 12,
		Instructor: "https://records.test/rest/apps/doz/records/d1",
	}}}, stubLookups{}, md)

	require.Len(t, table.Rows, 1)
	cells := table.Rows[0].Cells
	assert.Equal(t, template.HTML("<p>ruhig</p>"), cells[0].HTML)
	assert.Equal(t, "01.03.25 - -", cells[1].Text)
	assert.Equal(t, "Dozent", cells[2].Text)
	assert.Equal(t, service.Placeholder, cells[3].Text)
	assert.Equal(t, "max. 10", cells[4].Text)
	assert.Equal(t, "12.00 €", cells[5].Text)
}

func TestRenderEnrollments_Status(t *testing.T) {
	table := renderEnrollments([]model.Enrollment{
		{ID: "e1", Fields: model.EnrollmentFields{Paid: true, EnrollmentDate: "2025-02-10T09:30:00"}},
		{ID: "e2", Fields: model.EnrollmentFields{}},
	}, stubLookups{})

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Bezahlt", table.Rows[0].Cells[3].Text)
	assert.Equal(t, "10.02.2025", table.Rows[0].Cells[2].Text)
	assert.Equal(t, "Offen", table.Rows[1].Cells[3].Text)
	assert.Equal(t, service.Placeholder, table.Rows[1].Cells[0].Text)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, service.Placeholder, formatDate("", "02.01.2006"))
	assert.Equal(t, "24.12.2024", formatDate("2024-12-24", "02.01.2006"))
	assert.Equal(t, "gestern", formatDate("gestern", "02.01.2006"))
}

func TestParseForm_Enrollment(t *testing.T) {
	form, err := parseForm(model.EntityEnrollments, url.Values{
		"teilnehmer_id": {"t1"},
		"kurs_id":       {"k1"},
		"anmeldedatum":  {"2025-01-15"},
		"bezahlt":       {"on"},
	})

	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentForm{ParticipantID: "t1", CourseID: "k1", EnrollmentDate: "2025-01-15", Paid: true}, form)
}

func TestParseForm_UnknownEntity(t *testing.T) {
	_, err := parseForm(model.EntityType("events"), url.Values{})

	assert.ErrorIs(t, err, service.ErrUnknownEntity)
}

func TestBuildForm_ClosedModal(t *testing.T) {
	assert.Nil(t, buildForm(service.InitialState()))
}
