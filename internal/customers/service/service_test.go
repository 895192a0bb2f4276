package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"salesdesk_backend/internal/customers/repository"
	"salesdesk_backend/internal/customers/transport"
	"salesdesk_backend/platform/apperr"
	"salesdesk_backend/platform/events"

	"github.com/google/uuid"
)

var _ Store = (*repository.Repository)(nil)

type fakeStore struct {
	customer   repository.Customer
	existed    bool
	convertErr error
	converted  []uuid.UUID
	createErr  error
	reminders  []repository.Reminder
	noteErr    error
}

func (f *fakeStore) Create(_ context.Context, params repository.CreateCustomerParams) (repository.Customer, error) {
	if f.createErr != nil {
		return repository.Customer{}, f.createErr
	}
	return repository.Customer{ID: uuid.New(), Name: params.Name, Email: params.Email}, nil
}

func (f *fakeStore) GetByID(context.Context, uuid.UUID) (repository.Customer, error) {
	return f.customer, nil
}

func (f *fakeStore) List(context.Context) ([]repository.Customer, error) {
	return []repository.Customer{f.customer}, nil
}

func (f *fakeStore) ConvertLead(_ context.Context, leadID uuid.UUID, _ *uuid.UUID) (repository.Customer, bool, error) {
	if f.convertErr != nil {
		return repository.Customer{}, false, f.convertErr
	}
	f.converted = append(f.converted, leadID)
	return f.customer, f.existed, nil
}

func (f *fakeStore) AddNote(_ context.Context, customerID uuid.UUID, authorID *uuid.UUID, body string) (repository.Note, error) {
	if f.noteErr != nil {
		return repository.Note{}, f.noteErr
	}
	return repository.Note{ID: uuid.New(), CustomerID: customerID, AuthorID: authorID, Body: body}, nil
}

func (f *fakeStore) ListNotes(context.Context, uuid.UUID) ([]repository.Note, error) {
	return nil, nil
}

func (f *fakeStore) AddReminder(_ context.Context, customerID uuid.UUID, message string, remindAt time.Time) (repository.Reminder, error) {
	rem := repository.Reminder{ID: uuid.New(), CustomerID: customerID, Message: message, RemindAt: remindAt}
	f.reminders = append(f.reminders, rem)
	return rem, nil
}

func (f *fakeStore) ListReminders(context.Context, uuid.UUID) ([]repository.Reminder, error) {
	return f.reminders, nil
}

func (f *fakeStore) MarkReminderDone(_ context.Context, customerID, id uuid.UUID) (repository.Reminder, error) {
	return repository.Reminder{ID: id, CustomerID: customerID, Reminded: true}, nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func TestConvertPublishesEventForFreshConversion(t *testing.T) {
	store := &fakeStore{customer: repository.Customer{ID: uuid.New(), Name: "Acme"}}
	bus := &recordingBus{}
	svc := New(store, bus)

	got, err := svc.Convert(context.Background(), uuid.New(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Existing {
		t.Fatal("expected fresh conversion")
	}
	if len(bus.published) != 1 || bus.published[0].EventName() != "leads.converted" {
		t.Fatalf("expected one leads.converted event, got %v", bus.published)
	}
}

func TestConvertIsIdempotent(t *testing.T) {
	store := &fakeStore{customer: repository.Customer{ID: uuid.New(), Name: "Acme"}, existed: true}
	bus := &recordingBus{}
	svc := New(store, bus)

	got, err := svc.Convert(context.Background(), uuid.New(), nil)
	if err != nil {
		t.Fatalf("expected repeated conversion to succeed, got %v", err)
	}
	if !got.Existing {
		t.Fatal("expected existing customer to be reported")
	}
	if got.Customer.ID != store.customer.ID {
		t.Fatalf("expected prior customer %s, got %s", store.customer.ID, got.Customer.ID)
	}
	if len(bus.published) != 0 {
		t.Fatalf("expected no event for repeated conversion, got %d", len(bus.published))
	}
}

func TestConvertMapsErrors(t *testing.T) {
	cases := []struct {
		name     string
		storeErr error
		wantKind apperr.Kind
	}{
		{"missing lead", repository.ErrLeadNotFound, apperr.KindNotFound},
		{"lost lead", repository.ErrInvalidTransition, apperr.KindValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := New(&fakeStore{convertErr: tc.storeErr}, &recordingBus{})
			_, err := svc.Convert(context.Background(), uuid.New(), nil)
			var appErr *apperr.Error
			if !errors.As(err, &appErr) || appErr.Kind != tc.wantKind {
				t.Fatalf("expected kind %v, got %v", tc.wantKind, err)
			}
		})
	}
}

func TestCreateMapsDuplicateEmailToConflict(t *testing.T) {
	svc := New(&fakeStore{createErr: repository.ErrDuplicateEmail}, &recordingBus{})

	_, err := svc.Create(context.Background(), transport.CreateCustomerRequest{Name: "Dup", Email: "dup@example.com"})
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestAddNoteRequiresBody(t *testing.T) {
	svc := New(&fakeStore{}, &recordingBus{})

	_, err := svc.AddNote(context.Background(), uuid.New(), nil, transport.AddNoteRequest{Body: "  "})
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddReminderRequiresSchedule(t *testing.T) {
	svc := New(&fakeStore{}, &recordingBus{})

	_, err := svc.AddReminder(context.Background(), uuid.New(), transport.AddReminderRequest{Message: "call back"})
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddReminderAcceptsPastTimes(t *testing.T) {
	store := &fakeStore{}
	svc := New(store, &recordingBus{})

	_, err := svc.AddReminder(context.Background(), uuid.New(), transport.AddReminderRequest{
		Message:  "call back",
		RemindAt: time.Now().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("expected past reminder to be accepted, got %v", err)
	}
	if len(store.reminders) != 1 {
		t.Fatalf("expected reminder stored, got %d", len(store.reminders))
	}
}
