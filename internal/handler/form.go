package handler

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/Shivanand-hulikatti/kursverwaltung/internal/model"
	"github.com/Shivanand-hulikatti/kursverwaltung/internal/service"
)

type optionView struct {
	Value    string
	Label    string
	Selected bool
}

type fieldView struct {
	Name     string
	Label    string
	Type     string // text, email, tel, date, number, textarea, select, checkbox
	Value    string
	Step     string
	Checked  bool
	Required bool
	Options  []optionView
}

type formView struct {
	Entity  model.EntityType
	Title   string
	Editing bool
	Saving  bool
	Fields  []fieldView
}

// buildForm renders the modal for the current state, or nil when it is closed.
func buildForm(s service.State) *formView {
	if !s.ModalOpen {
		return nil
	}
	form := s.SeedForm()
	if form == nil {
		return nil
	}

	v := &formView{
		Entity:  form.Entity(),
		Title:   "Neu erstellen",
		Editing: s.Editing != nil,
		Saving:  s.Saving,
	}
	if v.Editing {
		v.Title = "Bearbeiten"
	}

	switch f := form.(type) {
	case model.InstructorForm:
		v.Fields = []fieldView{
			text(model.FieldName, "Name", "text", f.Name, true),
			text(model.FieldEmail, "E-Mail", "email", f.Email, true),
			text(model.FieldPhone, "Telefon", "tel", f.Phone, true),
			text(model.FieldSpecialty, "Fachgebiet", "text", f.Specialty, true),
		}
	case model.ParticipantForm:
		v.Fields = []fieldView{
			text(model.FieldName, "Name", "text", f.Name, true),
			text(model.FieldEmail, "E-Mail", "email", f.Email, true),
			text(model.FieldPhone, "Telefon", "tel", f.Phone, true),
			text(model.FieldBirthDate, "Geburtsdatum", "date", f.BirthDate, true),
		}
	case model.RoomForm:
		v.Fields = []fieldView{
			text(model.FieldRoomName, "Raumname", "text", f.Name, true),
			text(model.FieldBuilding, "Gebäude", "text", f.Building, true),
			number(model.FieldCapacity, "Kapazität", intValue(f.Capacity), "1"),
		}
	case model.CourseForm:
		v.Fields = []fieldView{
			text(model.FieldTitle, "Titel", "text", f.Title, true),
			text(model.FieldDescription, "Beschreibung", "textarea", f.Description, false),
			text(model.FieldStartDate, "Startdatum", "date", f.StartDate, true),
			text(model.FieldEndDate, "Enddatum", "date", f.EndDate, true),
			number(model.FieldMaxParticipants, "Max. Teilnehmer", intValue(f.MaxParticipants), "1"),
			number(model.FieldPrice, "Preis (€)", floatValue(f.Price), "0.01"),
			selectField(model.FieldInstructorID, "Dozent", f.InstructorID, instructorOptions(s.Instructors)),
			selectField(model.FieldRoomID, "Raum", f.RoomID, roomOptions(s.Rooms)),
		}
	case model.EnrollmentForm:
		v.Fields = []fieldView{
			selectField(model.FieldParticipantID, "Teilnehmer", f.ParticipantID, participantOptions(s.Participants)),
			selectField(model.FieldCourseID, "Kurs", f.CourseID, courseOptions(s.Courses)),
			text(model.FieldEnrollmentDate, "Anmeldedatum", "date", f.EnrollmentDate, true),
			{Name: model.FieldPaid, Label: "Bezahlt", Type: "checkbox", Checked: f.Paid},
		}
	}
	return v
}

// parseForm applies every posted field of the entity to an empty draft, one
// field at a time.
func parseForm(entity model.EntityType, values url.Values) (model.Form, error) {
	form := model.EmptyForm(entity)
	if form == nil {
		return nil, fmt.Errorf("%w: %q", service.ErrUnknownEntity, entity)
	}
	for _, name := range model.FormFieldNames(entity) {
		var err error
		form, err = form.With(name, values.Get(name))
		if err != nil {
			return nil, err
		}
	}
	return form, nil
}

// ─── Field builders ──────────────────────────────────────────────────────────

func text(name, label, typ, value string, required bool) fieldView {
	return fieldView{Name: name, Label: label, Type: typ, Value: value, Required: required}
}

func number(name, label, value, step string) fieldView {
	return fieldView{Name: name, Label: label, Type: "number", Value: value, Step: step, Required: true}
}

func selectField(name, label, selected string, options []optionView) fieldView {
	opts := make([]optionView, 0, len(options)+1)
	opts = append(opts, optionView{Value: "", Label: "Bitte wählen...", Selected: selected == ""})
	for _, o := range options {
		o.Selected = o.Value == selected
		opts = append(opts, o)
	}
	return fieldView{Name: name, Label: label, Type: "select", Value: selected, Required: true, Options: opts}
}

// New records show an empty number input rather than 0.
func intValue(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func floatValue(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func instructorOptions(data []model.Instructor) []optionView {
	out := make([]optionView, 0, len(data))
	for _, d := range data {
		out = append(out, optionView{Value: d.ID, Label: d.Fields.Name})
	}
	return out
}

func roomOptions(data []model.Room) []optionView {
	out := make([]optionView, 0, len(data))
	for _, r := range data {
		out = append(out, optionView{Value: r.ID, Label: fmt.Sprintf("%s (%s)", r.Fields.Name, r.Fields.Building)})
	}
	return out
}

func participantOptions(data []model.Participant) []optionView {
	out := make([]optionView, 0, len(data))
	for _, p := range data {
		out = append(out, optionView{Value: p.ID, Label: p.Fields.Name})
	}
	return out
}

func courseOptions(data []model.Course) []optionView {
	out := make([]optionView, 0, len(data))
	for _, k := range data {
		out = append(out, optionView{Value: k.ID, Label: k.Fields.Title})
	}
	return out
}
