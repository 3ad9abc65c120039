// Package service implements the dashboard controller: it owns the screen
// state, loads the five collections and dispatches mutations to per-entity
// strategies backed by the records service.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Shivanand-hulikatti/kursverwaltung/internal/model"
	"github.com/Shivanand-hulikatti/kursverwaltung/internal/reference"
)

var (
	// ErrBusy is returned when a save or delete is already in flight.
	ErrBusy = errors.New("another change is in progress")
	// ErrUnknownEntity is returned for a tab identifier that names no entity type.
	ErrUnknownEntity = errors.New("unknown entity type")
	// ErrRecordNotFound is returned when a record is not in the active collection.
	ErrRecordNotFound = errors.New("record not found")
	// ErrFormMismatch is returned when a form does not belong to the entity being saved.
	ErrFormMismatch = errors.New("form does not match entity type")
	// ErrModalClosed is returned when a form is submitted without an open modal.
	ErrModalClosed = errors.New("no form is open")
	// ErrNoJournal is returned when the audit journal is not configured.
	ErrNoJournal = errors.New("journal not configured")
)

// DeletePrompt is the confirmation question asked before every delete.
const DeletePrompt = "Wirklich löschen?"

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(prompt string) bool

// Journal records successful mutations. repository.JournalRepository
// satisfies it.
type Journal interface {
	Append(ctx context.Context, entry model.JournalEntry) (*model.JournalEntry, error)
	Recent(ctx context.Context, limit int) ([]model.JournalEntry, error)
}

// Dashboard is the process-wide controller. State changes go through the
// pure update functions in state.go; the mutex only serialises access from
// concurrent HTTP requests and is never held across a remote call.
type Dashboard struct {
	mu         sync.Mutex
	state      State
	strategies map[model.EntityType]strategy
	journal    Journal
	logger     *zap.Logger
}

// NewDashboard constructs a Dashboard. journal may be nil.
func NewDashboard(stores Stores, codec reference.Codec, journal Journal, logger *zap.Logger) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{
		state:      InitialState(),
		strategies: newStrategies(stores, codec),
		journal:    journal,
		logger:     logger,
	}
}

// State returns a snapshot of the current screen state.
func (d *Dashboard) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Dashboard) apply(fn func(State) State) State {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = fn(d.state)
	return d.state
}

// Load fetches all five collections in parallel and installs them only if
// every request succeeds. On failure the state stays in Loading and the
// error is returned for the caller to report.
func (d *Dashboard) Load(ctx context.Context) error {
	installs := make([]func(State) State, len(model.Entities))

	var g errgroup.Group
	for i, e := range model.Entities {
		i, e := i, e
		st := d.strategies[e]
		g.Go(func() error {
			install, err := st.Refetch(ctx)
			if err != nil {
				return fmt.Errorf("load %s: %w", e, err)
			}
			installs[i] = install
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s := d.apply(func(s State) State {
		for _, install := range installs {
			s = install(s)
		}
		s.Loading = false
		return s
	})
	d.logger.Info("data loaded", zap.Any("stats", s.Stats()))
	return nil
}

// SelectTab switches the active tab, closing an open modal.
func (d *Dashboard) SelectTab(tab model.EntityType) error {
	if !tab.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownEntity, tab)
	}
	return d.unlessSaving(func(s State) State {
		return SelectTab(CloseModal(s), tab)
	})
}

// Search sets the free-text filter.
func (d *Dashboard) Search(term string) {
	d.apply(func(s State) State { return SetSearch(s, term) })
}

// Add opens the modal to create a record of the active tab.
func (d *Dashboard) Add() error {
	return d.unlessSaving(OpenAdd)
}

// Edit opens the modal for the record with the given identifier in the
// active tab's collection.
func (d *Dashboard) Edit(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state.Saving {
		return ErrBusy
	}
	item, ok := d.state.Find(d.state.ActiveTab, id)
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrRecordNotFound, d.state.ActiveTab, id)
	}
	d.state = OpenEdit(d.state, item)
	return nil
}

// CloseModal hides the modal. It is refused while a save is in progress.
func (d *Dashboard) CloseModal() error {
	return d.unlessSaving(CloseModal)
}

// DismissAlert clears the last alert.
func (d *Dashboard) DismissAlert() {
	d.apply(DismissAlert)
}

func (d *Dashboard) unlessSaving(fn func(State) State) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state.Saving {
		return ErrBusy
	}
	d.state = fn(d.state)
	return nil
}

// Delete removes a record of the active tab after confirm approves it. A
// declined confirmation issues no request. On success the record is dropped
// from the in-memory collection; on failure the state keeps the record and
// carries an alert.
func (d *Dashboard) Delete(ctx context.Context, id string, confirm ConfirmFunc) error {
	if confirm == nil || !confirm(DeletePrompt) {
		return nil
	}

	d.mu.Lock()
	if d.state.Saving {
		d.mu.Unlock()
		return ErrBusy
	}
	entity := d.state.ActiveTab
	st, ok := d.strategies[entity]
	if !ok {
		d.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}
	d.state = BeginSaving(d.state)
	d.mu.Unlock()

	if err := st.Delete(ctx, id); err != nil {
		d.logger.Error("error deleting",
			zap.String("entity", string(entity)),
			zap.String("record_id", id),
			zap.Error(err))
		d.apply(DeleteFailed)
		return fmt.Errorf("delete %s %s: %w", entity, id, err)
	}

	d.apply(func(s State) State {
		s = RemoveRecord(s, entity, id)
		s.Saving = false
		return s
	})
	d.record(ctx, entity, model.ActionDelete, id, nil)
	return nil
}

// Save creates a record, or updates the edit target when one is set, from
// the submitted form. The modal must be open and the form must belong to the
// active tab, so a resubmitted form cannot create a second record. On success the affected collection is re-fetched and
// the modal closes; on failure the modal stays open with the form intact.
func (d *Dashboard) Save(ctx context.Context, form model.Form) error {
	if form == nil {
		return ErrFormMismatch
	}
	entity := form.Entity()

	d.mu.Lock()
	if d.state.Saving {
		d.mu.Unlock()
		return ErrBusy
	}
	if !d.state.ModalOpen {
		d.mu.Unlock()
		return ErrModalClosed
	}
	if entity != d.state.ActiveTab {
		d.mu.Unlock()
		return fmt.Errorf("%w: tab %s, got %s form", ErrFormMismatch, d.state.ActiveTab, entity)
	}
	st, ok := d.strategies[entity]
	if !ok {
		d.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}
	editing := d.state.Editing
	if editing != nil && editing.Entity() != entity {
		d.mu.Unlock()
		return fmt.Errorf("%w: editing %s, got %s form", ErrFormMismatch, editing.Entity(), entity)
	}
	d.state = BeginSaving(d.state)
	d.mu.Unlock()

	fields, recordID, action, install, err := d.save(ctx, st, editing, form)
	if err != nil {
		d.logger.Error("error saving",
			zap.String("entity", string(entity)),
			zap.Error(err))
		d.apply(func(s State) State { return SaveFailed(s, form) })
		return fmt.Errorf("save %s: %w", entity, err)
	}

	d.apply(func(s State) State { return SaveSucceeded(install(s)) })
	d.record(ctx, entity, action, recordID, fields)
	return nil
}

func (d *Dashboard) save(ctx context.Context, st strategy, editing model.Item, form model.Form) (
	fields model.Fields, recordID string, action model.JournalAction, install func(State) State, err error,
) {
	fields, err = st.MapForm(form)
	if err != nil {
		return nil, "", "", nil, err
	}

	if editing != nil {
		recordID, action = editing.RecordID(), model.ActionUpdate
		err = st.Update(ctx, recordID, fields)
	} else {
		action = model.ActionCreate
		recordID, err = st.Create(ctx, fields)
	}
	if err != nil {
		return nil, "", "", nil, err
	}

	install, err = st.Refetch(ctx)
	if err != nil {
		return nil, "", "", nil, fmt.Errorf("refetch: %w", err)
	}
	return fields, recordID, action, install, nil
}

// record appends a journal entry. Journal failures never fail the mutation.
func (d *Dashboard) record(ctx context.Context, entity model.EntityType, action model.JournalAction, id string, fields model.Fields) {
	if d.journal == nil {
		return
	}
	entry := model.JournalEntry{Entity: entity, Action: action, RecordID: id}
	if fields != nil {
		raw, err := json.Marshal(fields)
		if err != nil {
			d.logger.Warn("encode journal fields", zap.Error(err))
		} else {
			entry.Fields = raw
		}
	}
	if _, err := d.journal.Append(ctx, entry); err != nil {
		d.logger.Warn("append journal entry",
			zap.String("entity", string(entity)),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}

// Recent returns the latest journal entries.
func (d *Dashboard) Recent(ctx context.Context, limit int) ([]model.JournalEntry, error) {
	if d.journal == nil {
		return nil, ErrNoJournal
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return d.journal.Recent(ctx, limit)
}
