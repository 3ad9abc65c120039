package service

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/kursverwaltung/internal/model"
	"github.com/Shivanand-hulikatti/kursverwaltung/internal/reference"
)

// RecordStore is the record service surface for one entity type.
// repository.Records satisfies it.
type RecordStore[F model.Fields] interface {
	List(ctx context.Context) ([]model.Record[F], error)
	Create(ctx context.Context, fields F) (model.Record[F], error)
	Update(ctx context.Context, id string, fields F) (model.Record[F], error)
	Delete(ctx context.Context, id string) error
}

// Stores bundles the five record stores.
type Stores struct {
	Instructors  RecordStore[model.InstructorFields]
	Participants RecordStore[model.ParticipantFields]
	Rooms        RecordStore[model.RoomFields]
	Courses      RecordStore[model.CourseFields]
	Enrollments  RecordStore[model.EnrollmentFields]
}

// strategy is the uniform per-entity contract the dashboard dispatches to.
type strategy interface {
	Entity() model.EntityType
	MapForm(form model.Form) (model.Fields, error)
	Create(ctx context.Context, fields model.Fields) (string, error)
	Update(ctx context.Context, id string, fields model.Fields) error
	Delete(ctx context.Context, id string) error
	// Refetch lists the collection and returns the update that installs it.
	Refetch(ctx context.Context) (func(State) State, error)
}

type recordStrategy[F model.Fields, T model.Form] struct {
	entity   model.EntityType
	store    RecordStore[F]
	toFields func(T) F
	install  func(State, []model.Record[F]) State
}

func (s *recordStrategy[F, T]) Entity() model.EntityType { return s.entity }

func (s *recordStrategy[F, T]) MapForm(form model.Form) (model.Fields, error) {
	t, ok := form.(T)
	if !ok {
		return nil, fmt.Errorf("%w: got %T for %s", ErrFormMismatch, form, s.entity)
	}
	return s.toFields(t), nil
}

func (s *recordStrategy[F, T]) typed(fields model.Fields) (F, error) {
	f, ok := fields.(F)
	if !ok {
		return f, fmt.Errorf("%w: got %T for %s", ErrFormMismatch, fields, s.entity)
	}
	return f, nil
}

func (s *recordStrategy[F, T]) Create(ctx context.Context, fields model.Fields) (string, error) {
	f, err := s.typed(fields)
	if err != nil {
		return "", err
	}
	rec, err := s.store.Create(ctx, f)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (s *recordStrategy[F, T]) Update(ctx context.Context, id string, fields model.Fields) error {
	f, err := s.typed(fields)
	if err != nil {
		return err
	}
	_, err = s.store.Update(ctx, id, f)
	return err
}

func (s *recordStrategy[F, T]) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *recordStrategy[F, T]) Refetch(ctx context.Context) (func(State) State, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return func(st State) State { return s.install(st, records) }, nil
}

// newStrategies wires one strategy per entity type. Reference fields are
// encoded with codec and left empty (so omitted) when nothing is selected.
func newStrategies(stores Stores, codec reference.Codec) map[model.EntityType]strategy {
	return map[model.EntityType]strategy{
		model.EntityInstructors: &recordStrategy[model.InstructorFields, model.InstructorForm]{
			entity: model.EntityInstructors,
			store:  stores.Instructors,
			toFields: func(f model.InstructorForm) model.InstructorFields {
				return model.InstructorFields{Name: f.Name, Email: f.Email, Phone: f.Phone, Specialty: f.Specialty}
			},
			install: func(s State, r []model.Instructor) State { s.Instructors = r; return s },
		},
		model.EntityParticipants: &recordStrategy[model.ParticipantFields, model.ParticipantForm]{
			entity: model.EntityParticipants,
			store:  stores.Participants,
			toFields: func(f model.ParticipantForm) model.ParticipantFields {
				return model.ParticipantFields{Name: f.Name, Email: f.Email, Phone: f.Phone, BirthDate: f.BirthDate}
			},
			install: func(s State, r []model.Participant) State { s.Participants = r; return s },
		},
		model.EntityRooms: &recordStrategy[model.RoomFields, model.RoomForm]{
			entity: model.EntityRooms,
			store:  stores.Rooms,
			toFields: func(f model.RoomForm) model.RoomFields {
				return model.RoomFields{Name: f.Name, Building: f.Building, Capacity: f.Capacity}
			},
			install: func(s State, r []model.Room) State { s.Rooms = r; return s },
		},
		model.EntityCourses: &recordStrategy[model.CourseFields, model.CourseForm]{
			entity: model.EntityCourses,
			store:  stores.Courses,
			toFields: func(f model.CourseForm) model.CourseFields {
				return model.CourseFields{
					Title:           f.Title,
					Description:     f.Description,
					StartDate:       f.StartDate,
					EndDate:         f.EndDate,
					MaxParticipants: f.MaxParticipants,
					Price:           f.Price,
					Instructor:      codec.OptionalURL(model.EntityInstructors, f.InstructorID),
					Room:            codec.OptionalURL(model.EntityRooms, f.RoomID),
				}
			},
			install: func(s State, r []model.Course) State { s.Courses = r; return s },
		},
		model.EntityEnrollments: &recordStrategy[model.EnrollmentFields, model.EnrollmentForm]{
			entity: model.EntityEnrollments,
			store:  stores.Enrollments,
			toFields: func(f model.EnrollmentForm) model.EnrollmentFields {
				return model.EnrollmentFields{
					Participant:    codec.OptionalURL(model.EntityParticipants, f.ParticipantID),
					Course:         codec.OptionalURL(model.EntityCourses, f.CourseID),
					EnrollmentDate: f.EnrollmentDate,
					Paid:           f.Paid,
				}
			},
			install: func(s State, r []model.Enrollment) State { s.Enrollments = r; return s },
		},
	}
}
