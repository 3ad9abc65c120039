package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/Shivanand-hulikatti/kursverwaltung/internal/model"
	"github.com/Shivanand-hulikatti/kursverwaltung/internal/reference"
)

const testBase = "https://records.test/rest"

var testCodec = reference.NewCodec(testBase, reference.AppIDs{
	model.EntityInstructors:  "doz",
	model.EntityParticipants: "teil",
	model.EntityRooms:        "raum",
	model.EntityCourses:      "kurs",
	model.EntityEnrollments:  "anm",
})

// fakeStore is an in-memory RecordStore that counts calls.
type fakeStore[F model.Fields] struct {
	mu       sync.Mutex
	records  []model.Record[F]
	nextID   int
	listErr  error
	writeErr error
	lists    int
	creates  []F
	updates  map[string]F
	deletes  []string
}

func newFakeStore[F model.Fields](records ...model.Record[F]) *fakeStore[F] {
	return &fakeStore[F]{records: records, updates: map[string]F{}}
}

func (s *fakeStore[F]) List(context.Context) ([]model.Record[F], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]model.Record[F], len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *fakeStore[F]) Create(_ context.Context, fields F) (model.Record[F], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates = append(s.creates, fields)
	if s.writeErr != nil {
		return model.Record[F]{}, s.writeErr
	}
	s.nextID++
	rec := model.Record[F]{ID: fmt.Sprintf("new-%d", s.nextID), Fields: fields}
	s.records = append(s.records, rec)
	return rec, nil
}

func (s *fakeStore[F]) Update(_ context.Context, id string, fields F) (model.Record[F], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates[id] = fields
	if s.writeErr != nil {
		return model.Record[F]{}, s.writeErr
	}
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Fields = fields
		}
	}
	return model.Record[F]{ID: id, Fields: fields}, nil
}

func (s *fakeStore[F]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, id)
	if s.writeErr != nil {
		return s.writeErr
	}
	out := s.records[:0]
	for _, r := range s.records {
		if r.ID != id {
			out = append(out, r)
		}
	}
	s.records = out
	return nil
}

type fakes struct {
	instructors  *fakeStore[model.InstructorFields]
	participants *fakeStore[model.ParticipantFields]
	rooms        *fakeStore[model.RoomFields]
	courses      *fakeStore[model.CourseFields]
	enrollments  *fakeStore[model.EnrollmentFields]
}

func (f fakes) stores() Stores {
	return Stores{
		Instructors:  f.instructors,
		Participants: f.participants,
		Rooms:        f.rooms,
		Courses:      f.courses,
		Enrollments:  f.enrollments,
	}
}

func ref(e model.EntityType, id string) string {
	return testCodec.URL(e, id)
}

// seeded returns stores holding a small consistent data set.
func seeded() fakes {
	return fakes{
		instructors: newFakeStore(
			model.Instructor{ID: "d1", Fields: model.InstructorFields{Name: "Anna Schmidt", Email: "anna@kurs.de", Specialty: "Yoga"}},
			model.Instructor{ID: "d2", Fields: model.InstructorFields{Name: "Stefan Maier", Email: "stefan@kurs.de", Specialty: "Pilates"}},
			model.Instructor{ID: "d3", Fields: model.InstructorFields{Name: "Petra Roth", Email: "petra@kurs.de", Specialty: "Zumba"}},
		),
		participants: newFakeStore(
			model.Participant{ID: "t1", Fields: model.ParticipantFields{Name: "Lena Bauer", Email: "lena@mail.de"}},
			model.Participant{ID: "t2", Fields: model.ParticipantFields{Name: "Jonas Wolf", Email: "jonas@mail.de"}},
		),
		rooms: newFakeStore(
			model.Room{ID: "r1", Fields: model.RoomFields{Name: "Studio A", Building: "Hauptgebäude", Capacity: 20}},
			model.Room{ID: "r2", Fields: model.RoomFields{Name: "Saal 2", Building: "Nebengebäude", Capacity: 40}},
		),
		courses: newFakeStore(
			model.Course{ID: "k1", Fields: model.CourseFields{
				Title: "Yoga Basics", MaxParticipants: 12, Price: 99.5,
				Instructor: ref(model.EntityInstructors, "d1"), Room: ref(model.EntityRooms, "r1"),
			}},
			model.Course{ID: "k2", Fields: model.CourseFields{
				Title: "Pilates", Instructor: ref(model.EntityInstructors, "gone"),
			}},
		),
		enrollments: newFakeStore(
			model.Enrollment{ID: "41", Fields: model.EnrollmentFields{
				Participant: ref(model.EntityParticipants, "t1"), Course: ref(model.EntityCourses, "k1"), Paid: false,
			}},
			model.Enrollment{ID: "42", Fields: model.EnrollmentFields{
				Participant: ref(model.EntityParticipants, "t2"), Course: ref(model.EntityCourses, "k1"), Paid: true,
			}},
		),
	}
}

// fakeJournal keeps entries in memory.
type fakeJournal struct {
	mu      sync.Mutex
	entries []model.JournalEntry
	err     error
}

func (j *fakeJournal) Append(_ context.Context, e model.JournalEntry) (*model.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return nil, j.err
	}
	j.entries = append(j.entries, e)
	return &e, nil
}

func (j *fakeJournal) Recent(_ context.Context, limit int) ([]model.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if limit > len(j.entries) {
		limit = len(j.entries)
	}
	out := make([]model.JournalEntry, limit)
	copy(out, j.entries[len(j.entries)-limit:])
	return out, nil
}
