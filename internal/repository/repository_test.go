package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/kursverwaltung/internal/model"
)

type call struct {
	Method string
	Path   string
	APIKey string
	Body   map[string]map[string]any
}

type recordingObserver struct {
	mu  sync.Mutex
	ops []string
}

func (o *recordingObserver) ObserveRecords(app, op string, err error, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	status := "ok"
	if err != nil {
		status = "err"
	}
	o.ops = append(o.ops, app+"/"+op+"/"+status)
}

func newServer(t *testing.T, status int, response string, calls *[]call) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := call{Method: r.Method, Path: r.URL.Path, APIKey: r.Header.Get("X-API-Key")}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			require.NoError(t, json.Unmarshal(raw, &c.Body))
		}
		*calls = append(*calls, c)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRecords_ListSortsByCreation(t *testing.T) {
	var calls []call
	srv := newServer(t, http.StatusOK, `{
		"b": {"fields": {"name": "Stefan", "fachgebiet": "Go"}, "createdat": "2024-02-01T10:00:00"},
		"a": {"fields": {"name": "Anna", "fachgebiet": "SQL"}, "createdat": "2024-01-01T10:00:00"}
	}`, &calls)

	obs := &recordingObserver{}
	client := NewClient(srv.URL+"/", "secret", srv.Client(), obs, nil)
	records := NewRecords[model.InstructorFields](client, "doz")

	got, err := records.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "Anna", got[0].Fields.Name)
	assert.Equal(t, "Go", got[1].Fields.Specialty)

	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodGet, calls[0].Method)
	assert.Equal(t, "/apps/doz/records", calls[0].Path)
	assert.Equal(t, "secret", calls[0].APIKey)
	assert.Equal(t, []string{"doz/list/ok"}, obs.ops)
}

func TestRecords_CreateOmitsUnsetReferences(t *testing.T) {
	var calls []call
	srv := newServer(t, http.StatusOK, `{"id": "k9"}`, &calls)
	records := NewRecords[model.CourseFields](NewClient(srv.URL, "", srv.Client(), nil, nil), "kurs")

	rec, err := records.Create(context.Background(), model.CourseFields{
		Title: "Yoga",
		Room:  srv.URL + "/apps/raum/records/r1",
	})
	require.NoError(t, err)
	assert.Equal(t, "k9", rec.ID)

	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	fields := calls[0].Body["fields"]
	assert.Equal(t, "Yoga", fields["titel"])
	assert.NotContains(t, fields, "dozent")
	assert.Contains(t, fields, "raum")
}

func TestRecords_CreateWithoutID(t *testing.T) {
	var calls []call
	srv := newServer(t, http.StatusOK, `{}`, &calls)
	records := NewRecords[model.RoomFields](NewClient(srv.URL, "", srv.Client(), nil, nil), "raum")

	_, err := records.Create(context.Background(), model.RoomFields{Name: "A1"})
	assert.Error(t, err)
}

func TestRecords_UpdateAndDelete(t *testing.T) {
	var calls []call
	srv := newServer(t, http.StatusOK, `{}`, &calls)
	records := NewRecords[model.EnrollmentFields](NewClient(srv.URL, "", srv.Client(), nil, nil), "anm")

	rec, err := records.Update(context.Background(), "42", model.EnrollmentFields{Paid: true})
	require.NoError(t, err)
	assert.Equal(t, "42", rec.ID)
	require.NoError(t, records.Delete(context.Background(), "42"))

	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPatch, calls[0].Method)
	assert.Equal(t, "/apps/anm/records/42", calls[0].Path)
	assert.Equal(t, true, calls[0].Body["fields"]["bezahlt"])
	assert.Equal(t, http.MethodDelete, calls[1].Method)
	assert.Equal(t, "/apps/anm/records/42", calls[1].Path)
}

func TestRecords_StatusErrors(t *testing.T) {
	var calls []call
	srv := newServer(t, http.StatusNotFound, `{"error":"no such record"}`, &calls)
	obs := &recordingObserver{}
	records := NewRecords[model.ParticipantFields](NewClient(srv.URL, "", srv.Client(), obs, nil), "teil")

	err := records.Delete(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Contains(t, se.Body, "no such record")
	assert.Equal(t, []string{"teil/delete/err"}, obs.ops)
}

func TestRecords_ServerErrorIsNotNotFound(t *testing.T) {
	var calls []call
	srv := newServer(t, http.StatusInternalServerError, `boom`, &calls)
	records := NewRecords[model.ParticipantFields](NewClient(srv.URL, "", srv.Client(), nil, nil), "teil")

	_, err := records.List(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}
