package appointment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/healthbridge/healthbridge/internal/platform/mailer"
)

type mockRepo struct {
	appts      map[int64]*Appointment
	encounters map[int64]*ClinicalEncounter
	nextID     int64
	contact    *PatientContact
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		appts:      map[int64]*Appointment{},
		encounters: map[int64]*ClinicalEncounter{},
		nextID:     1,
		contact:    &PatientContact{FullName: "Ada Obi"},
	}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = m.nextID
	m.nextID++
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	m.appts[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (m *mockRepo) Update(_ context.Context, id int64, set map[string]interface{}) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if v, ok := set["status"]; ok {
		a.Status = Status(v.(string))
	}
	if v, ok := set["cancellation_reason"]; ok {
		r := v.(string)
		a.CancellationReason = &r
	}
	if v, ok := set["cancelled_at"]; ok {
		t := v.(time.Time)
		a.CancelledAt = &t
	}
	if v, ok := set["completed_at"]; ok {
		t := v.(time.Time)
		a.CompletedAt = &t
	}
	if v, ok := set["check_in_time"]; ok {
		t := v.(time.Time)
		a.CheckInTime = &t
	}
	if v, ok := set["unit"]; ok {
		a.Unit = v.(string)
	}
	a.UpdatedAt = time.Now()
	return a, nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.appts[id]; !ok {
		return ErrNotFound
	}
	delete(m.appts, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, f Filter, _, _ int) ([]*Appointment, int64, error) {
	var items []*Appointment
	for _, a := range m.appts {
		if f.Status != "" && string(a.Status) != f.Status {
			continue
		}
		if f.PatientID != nil && a.PatientID != *f.PatientID {
			continue
		}
		items = append(items, a)
	}
	return items, int64(len(items)), nil
}

func (m *mockRepo) PatientContact(_ context.Context, _ int64) (*PatientContact, error) {
	if m.contact == nil {
		return nil, ErrInvalidReference
	}
	return m.contact, nil
}

func (m *mockRepo) CreateEncounter(_ context.Context, e *ClinicalEncounter) error {
	if _, ok := m.appts[e.AppointmentID]; !ok {
		return ErrNotFound
	}
	e.ID = m.nextID
	m.nextID++
	m.encounters[e.ID] = e
	return nil
}

func (m *mockRepo) GetEncounter(_ context.Context, id int64) (*ClinicalEncounter, error) {
	e, ok := m.encounters[id]
	if !ok {
		return nil, ErrEncounterNotFound
	}
	return e, nil
}

func (m *mockRepo) ListEncounters(_ context.Context, appointmentID int64) ([]*ClinicalEncounter, error) {
	var items []*ClinicalEncounter
	for _, e := range m.encounters {
		if e.AppointmentID == appointmentID {
			items = append(items, e)
		}
	}
	return items, nil
}

func newTestService(repo *mockRepo) (*Service, *mailer.MemoryMailer) {
	mail := mailer.NewMemoryMailer()
	return NewService(repo, mail, PassthroughTx), mail
}

func validCreateInput() *CreateInput {
	return &CreateInput{
		PatientID:       1,
		HospitalID:      1,
		AppointmentType: "consultation",
		Unit:            "Cardiology",
		Reason:          "Chest pain",
		ScheduledDate:   "2026-09-10",
		ScheduledTime:   "09:30 AM",
	}
}

func validEncounterInput(appointmentID int64) *CreateEncounterInput {
	return &CreateEncounterInput{
		AppointmentID:  appointmentID,
		EncounterDate:  "2026-09-10",
		EncounterTime:  "10:00 AM",
		ChiefComplaint: "Chest pain",
		ProviderName:   "Dr. Eze",
	}
}

func TestCreate_ForcesPendingAndDefaults(t *testing.T) {
	svc, _ := newTestService(newMockRepo())

	a, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Status != StatusPending {
		t.Errorf("status must start pending, got %s", a.Status)
	}
	if a.Duration != 30 {
		t.Errorf("duration should default to 30, got %d", a.Duration)
	}
	if a.Priority != PriorityNormal {
		t.Errorf("priority should default to normal, got %s", a.Priority)
	}
}

func TestCreate_SendsConfirmationWhenEmailOnFile(t *testing.T) {
	repo := newMockRepo()
	email := "ada@example.com"
	repo.contact.Email = &email
	svc, mail := newTestService(repo)

	if _, err := svc.Create(context.Background(), validCreateInput()); err != nil {
		t.Fatalf("create: %v", err)
	}
	sent := mail.Sent()
	if len(sent) != 1 || sent[0].To != email {
		t.Errorf("expected one confirmation to %s, got %v", email, sent)
	}
}

func TestCreate_EmailFailureDoesNotFailBooking(t *testing.T) {
	repo := newMockRepo()
	email := "ada@example.com"
	repo.contact.Email = &email
	svc, mail := newTestService(repo)
	mail.FailWith = errors.New("smtp down")

	if _, err := svc.Create(context.Background(), validCreateInput()); err != nil {
		t.Errorf("booking must survive email failure: %v", err)
	}
}

func TestCreate_NoEmailNoSend(t *testing.T) {
	svc, mail := newTestService(newMockRepo())

	if _, err := svc.Create(context.Background(), validCreateInput()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(mail.Sent()) != 0 {
		t.Error("no email on file means no send attempt")
	}
}

func seedAt(t *testing.T, svc *Service, status Status) *Appointment {
	t.Helper()
	a, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	a.Status = status
	return a
}

func TestUpdateStatus_CancelRequiresReason(t *testing.T) {
	svc, _ := newTestService(newMockRepo())
	a := seedAt(t, svc, StatusPending)

	_, err := svc.UpdateStatus(context.Background(), a.ID, &StatusInput{Status: "cancelled"})
	if !errors.Is(err, ErrCancellationReason) {
		t.Errorf("expected ErrCancellationReason, got %v", err)
	}

	blank := "   "
	_, err = svc.UpdateStatus(context.Background(), a.ID, &StatusInput{Status: "cancelled", CancellationReason: &blank})
	if !errors.Is(err, ErrCancellationReason) {
		t.Errorf("blank reason should be rejected, got %v", err)
	}
}

func TestUpdateStatus_CancelStampsTimestampAndReason(t *testing.T) {
	svc, _ := newTestService(newMockRepo())
	a := seedAt(t, svc, StatusPending)

	reason := "patient request"
	got, err := svc.UpdateStatus(context.Background(), a.ID, &StatusInput{Status: "cancelled", CancellationReason: &reason})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != StatusCancelled || got.CancelledAt == nil || got.CancellationReason == nil {
		t.Errorf("cancel should stamp cancelledAt and keep the reason: %+v", got)
	}
}

func TestUpdateStatus_TerminalRejected(t *testing.T) {
	svc, _ := newTestService(newMockRepo())
	a := seedAt(t, svc, StatusCompleted)

	reason := "late"
	_, err := svc.UpdateStatus(context.Background(), a.ID, &StatusInput{Status: "cancelled", CancellationReason: &reason})
	if !errors.Is(err, ErrTerminalState) {
		t.Errorf("expected ErrTerminalState, got %v", err)
	}
}

func TestUpdateStatus_SkipRejected(t *testing.T) {
	svc, _ := newTestService(newMockRepo())
	a := seedAt(t, svc, StatusPending)

	_, err := svc.UpdateStatus(context.Background(), a.ID, &StatusInput{Status: "waiting"})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestUpdateStatus_CompleteFromAnyLiveState(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusConfirmed, StatusWaiting, StatusInProgress} {
		svc, _ := newTestService(newMockRepo())
		a := seedAt(t, svc, from)

		got, err := svc.UpdateStatus(context.Background(), a.ID, &StatusInput{Status: "completed"})
		if err != nil {
			t.Fatalf("%s -> completed should be allowed: %v", from, err)
		}
		if got.Status != StatusCompleted {
			t.Errorf("expected completed, got %s", got.Status)
		}
		if got.CompletedAt == nil {
			t.Errorf("completing from %s should stamp completedAt", from)
		}
	}
}

func TestUpdateStatus_RepeatCancelIsNoOp(t *testing.T) {
	svc, _ := newTestService(newMockRepo())
	a := seedAt(t, svc, StatusConfirmed)

	reason := "patient travelled"
	first, err := svc.UpdateStatus(context.Background(), a.ID, &StatusInput{Status: "cancelled", CancellationReason: &reason})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	stamped := *first.CancelledAt

	again, err := svc.UpdateStatus(context.Background(), a.ID, &StatusInput{Status: "cancelled", CancellationReason: &reason})
	if err != nil {
		t.Fatalf("retried cancel should succeed: %v", err)
	}
	if again.Status != StatusCancelled {
		t.Errorf("expected cancelled, got %s", again.Status)
	}
	if !again.CancelledAt.Equal(stamped) {
		t.Error("retried cancel must not re-stamp cancelledAt")
	}
}

func TestUpdateStatus_WaitingStampsCheckIn(t *testing.T) {
	svc, _ := newTestService(newMockRepo())
	a := seedAt(t, svc, StatusConfirmed)

	got, err := svc.UpdateStatus(context.Background(), a.ID, &StatusInput{Status: "waiting"})
	if err != nil {
		t.Fatalf("waiting: %v", err)
	}
	if got.CheckInTime == nil {
		t.Error("transition to waiting should stamp checkInTime")
	}
}

func TestUpdateStatus_CompletedStampsCompletedAt(t *testing.T) {
	svc, _ := newTestService(newMockRepo())
	a := seedAt(t, svc, StatusInProgress)

	got, err := svc.UpdateStatus(context.Background(), a.ID, &StatusInput{Status: "completed"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got.CompletedAt == nil {
		t.Error("completion should stamp completedAt")
	}
}

func TestUpdateStatus_EarlyNoShowAllowed(t *testing.T) {
	svc, _ := newTestService(newMockRepo())
	a, err := svc.Create(context.Background(), &CreateInput{
		PatientID: 1, HospitalID: 1, AppointmentType: "consultation",
		Unit: "Cardiology", Reason: "Chest pain",
		ScheduledDate: time.Now().AddDate(1, 0, 0).Format("2006-01-02"),
		ScheduledTime: "09:30 AM",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.UpdateStatus(context.Background(), a.ID, &StatusInput{Status: "no-show"})
	if err != nil {
		t.Fatalf("early no-show must be allowed: %v", err)
	}
	if got.Status != StatusNoShow {
		t.Errorf("expected no-show, got %s", got.Status)
	}
}

func TestCreateEncounter_AutoCompletesParent(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newTestService(repo)
	a := seedAt(t, svc, StatusInProgress)

	e, err := svc.CreateEncounter(context.Background(), validEncounterInput(a.ID))
	if err != nil {
		t.Fatalf("create encounter: %v", err)
	}
	if e.ID == 0 {
		t.Error("encounter should be stored")
	}

	parent := repo.appts[a.ID]
	if parent.Status != StatusCompleted {
		t.Errorf("parent should be auto-completed, got %s", parent.Status)
	}
	if parent.CompletedAt == nil {
		t.Error("auto-completion should stamp completedAt")
	}
}

func TestCreateEncounter_CompletedParentNotRestamped(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newTestService(repo)
	a := seedAt(t, svc, StatusCompleted)
	stamped := time.Now().Add(-time.Hour)
	repo.appts[a.ID].CompletedAt = &stamped

	if _, err := svc.CreateEncounter(context.Background(), validEncounterInput(a.ID)); err != nil {
		t.Fatalf("encounter on completed parent should attach: %v", err)
	}
	if !repo.appts[a.ID].CompletedAt.Equal(stamped) {
		t.Error("existing completedAt must not be re-stamped")
	}
}

func TestCreateEncounter_ClosedParentRejected(t *testing.T) {
	for _, status := range []Status{StatusCancelled, StatusNoShow} {
		repo := newMockRepo()
		svc, _ := newTestService(repo)
		a := seedAt(t, svc, status)

		_, err := svc.CreateEncounter(context.Background(), validEncounterInput(a.ID))
		if !errors.Is(err, ErrEncounterParentClosed) {
			t.Errorf("%s parent: expected ErrEncounterParentClosed, got %v", status, err)
		}
		if len(repo.encounters) != 0 {
			t.Errorf("%s parent: no encounter may be stored", status)
		}
	}
}

func TestCreateEncounter_EncodesLists(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newTestService(repo)
	a := seedAt(t, svc, StatusInProgress)

	in := validEncounterInput(a.ID)
	in.Prescriptions = []Prescription{{Medication: "Amlodipine", Dosage: "5mg", Frequency: "daily", Duration: "30 days"}}
	in.SecondaryDiagnoses = []string{"I10"}

	e, err := svc.CreateEncounter(context.Background(), in)
	if err != nil {
		t.Fatalf("create encounter: %v", err)
	}
	if !strings.Contains(e.Prescriptions, "Amlodipine") {
		t.Errorf("prescriptions should be JSON-encoded, got %q", e.Prescriptions)
	}
	if e.SecondaryDiagnoses != `["I10"]` {
		t.Errorf("unexpected secondary diagnoses %q", e.SecondaryDiagnoses)
	}
}

func TestListEncounters_AbsentAppointment(t *testing.T) {
	svc, _ := newTestService(newMockRepo())
	if _, err := svc.ListEncounters(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
