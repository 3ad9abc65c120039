package handler

import (
	"fmt"
	"html/template"
	"time"

	"github.com/Shivanand-hulikatti/kursverwaltung/internal/model"
	"github.com/Shivanand-hulikatti/kursverwaltung/internal/service"
)

// Lookups resolves references to display labels. service.State implements it.
type Lookups interface {
	InstructorName(ref string) string
	ParticipantName(ref string) string
	CourseTitle(ref string) string
	RoomName(ref string) string
}

type cellView struct {
	Text  string
	HTML  template.HTML
	Sub   string
	Badge string
}

type rowView struct {
	ID    string
	Cells []cellView
}

type tableView struct {
	Columns []string
	Rows    []rowView
	Empty   string
}

// Span is the column count including the actions column.
func (t tableView) Span() int {
	return len(t.Columns) + 1
}

// renderTable renders the active tab's filtered collection.
func renderTable(s service.State, md func(string) template.HTML) tableView {
	switch s.ActiveTab {
	case model.EntityInstructors:
		return renderInstructors(s.FilteredInstructors())
	case model.EntityParticipants:
		return renderParticipants(s.FilteredParticipants())
	case model.EntityRooms:
		return renderRooms(s.FilteredRooms())
	case model.EntityCourses:
		return renderCourses(s.FilteredCourses(), s, md)
	case model.EntityEnrollments:
		return renderEnrollments(s.FilteredEnrollments(), s)
	}
	return tableView{}
}

func renderInstructors(data []model.Instructor) tableView {
	t := tableView{
		Columns: []string{"Name", "E-Mail", "Telefon", "Fachgebiet"},
		Empty:   "Keine Dozenten gefunden",
	}
	for _, item := range data {
		f := item.Fields
		t.Rows = append(t.Rows, rowView{ID: item.ID, Cells: []cellView{
			{Text: f.Name},
			{Text: f.Email},
			{Text: f.Phone},
			{Text: f.Specialty, Badge: "dozenten"},
		}})
	}
	return t
}

func renderParticipants(data []model.Participant) tableView {
	t := tableView{
		Columns: []string{"Name", "E-Mail", "Telefon", "Geburtsdatum"},
		Empty:   "Keine Teilnehmer gefunden",
	}
	for _, item := range data {
		f := item.Fields
		t.Rows = append(t.Rows, rowView{ID: item.ID, Cells: []cellView{
			{Text: f.Name},
			{Text: f.Email},
			{Text: f.Phone},
			{Text: formatDate(f.BirthDate, "02.01.2006")},
		}})
	}
	return t
}

func renderRooms(data []model.Room) tableView {
	t := tableView{
		Columns: []string{"Raumname", "Gebäude", "Kapazität"},
		Empty:   "Keine Räume gefunden",
	}
	for _, item := range data {
		f := item.Fields
		t.Rows = append(t.Rows, rowView{ID: item.ID, Cells: []cellView{
			{Text: f.Name},
			{Text: f.Building},
			{Text: fmt.Sprintf("%d Plätze", f.Capacity), Badge: "raeume"},
		}})
	}
	return t
}

func renderCourses(data []model.Course, lookups Lookups, md func(string) template.HTML) tableView {
	t := tableView{
		Columns: []string{"Titel", "Zeitraum", "Dozent", "Raum", "Teilnehmer", "Preis"},
		Empty:   "Keine Kurse gefunden",
	}
	for _, item := range data {
		f := item.Fields
		title := cellView{Text: f.Title}
		if f.Description != "" && md != nil {
			title.HTML = md(f.Description)
		}
		period := formatDate(f.StartDate, "02.01.06") + " - " + formatDate(f.EndDate, "02.01.06")
		t.Rows = append(t.Rows, rowView{ID: item.ID, Cells: []cellView{
			title,
			{Text: period},
			{Text: lookups.InstructorName(f.Instructor), Badge: "dozenten"},
			{Text: lookups.RoomName(f.Room), Badge: "raeume"},
			{Text: fmt.Sprintf("max. %d", f.MaxParticipants), Badge: "teilnehmer"},
			{Text: formatPrice(f.Price)},
		}})
	}
	return t
}

func renderEnrollments(data []model.Enrollment, lookups Lookups) tableView {
	t := tableView{
		Columns: []string{"Teilnehmer", "Kurs", "Anmeldedatum", "Status"},
		Empty:   "Keine Anmeldungen gefunden",
	}
	for _, item := range data {
		f := item.Fields
		status := cellView{Text: "Offen", Badge: "offen"}
		if f.Paid {
			status = cellView{Text: "Bezahlt", Badge: "bezahlt"}
		}
		t.Rows = append(t.Rows, rowView{ID: item.ID, Cells: []cellView{
			{Text: lookups.ParticipantName(f.Participant), Badge: "teilnehmer"},
			{Text: lookups.CourseTitle(f.Course), Badge: "kurse"},
			{Text: formatDate(f.EnrollmentDate, "02.01.2006")},
			status,
		}})
	}
	return t
}

// formatDate renders an ISO date (optionally with a time part) in layout.
// Unparseable values are shown as stored.
func formatDate(value, layout string) string {
	if value == "" {
		return service.Placeholder
	}
	datePart := value
	if len(datePart) > 10 {
		datePart = datePart[:10]
	}
	t, err := time.Parse("2006-01-02", datePart)
	if err != nil {
		return value
	}
	return t.Format(layout)
}

func formatPrice(p float64) string {
	return fmt.Sprintf("%.2f €", p)
}
