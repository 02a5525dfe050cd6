package service

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetlog/duty-status/internal/core/domain"
	"github.com/fleetlog/duty-status/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubOperatorStore struct {
	records map[domain.OperatorKey]*domain.Operator

	getErrs   []error // consumed one per Get call
	createErr error
	updateErr error
	queryErr  error

	created []*domain.Operator
	updates []domain.FieldSet
	queries []ports.FieldQuery
}

func newStubOperatorStore(ops ...*domain.Operator) *stubOperatorStore {
	s := &stubOperatorStore{records: map[domain.OperatorKey]*domain.Operator{}}
	for _, op := range ops {
		cp := *op
		s.records[op.Key()] = &cp
	}
	return s
}

func (s *stubOperatorStore) Get(_ context.Context, key domain.OperatorKey) (*domain.Operator, error) {
	if len(s.getErrs) > 0 {
		err := s.getErrs[0]
		s.getErrs = s.getErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	op, ok := s.records[key]
	if !ok {
		return nil, domain.ErrOperatorNotFound
	}
	cp := *op
	return &cp, nil
}

func (s *stubOperatorStore) Create(_ context.Context, op *domain.Operator) (domain.OperatorKey, error) {
	if s.createErr != nil {
		return domain.OperatorKey{}, s.createErr
	}
	if _, ok := s.records[op.Key()]; ok {
		return domain.OperatorKey{}, domain.ErrOperatorExists
	}
	rec, snapshot := *op, *op
	s.records[op.Key()] = &rec
	s.created = append(s.created, &snapshot)
	return op.Key(), nil
}

func (s *stubOperatorStore) UpdatePartial(_ context.Context, key domain.OperatorKey, fields domain.FieldSet) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	op, ok := s.records[key]
	if !ok {
		return domain.ErrOperatorNotFound
	}
	fields.Apply(op)
	s.updates = append(s.updates, fields)
	return nil
}

func (s *stubOperatorStore) QueryByField(_ context.Context, q ports.FieldQuery) ([]*domain.Operator, error) {
	s.queries = append(s.queries, q)
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	var out []*domain.Operator
	for _, op := range s.records {
		if q.TenantID != "" && op.TenantID != q.TenantID {
			continue
		}
		v := stubFieldValue(op, q.Field)
		for _, want := range q.Values {
			if v != "" && v == want {
				cp := *op
				out = append(out, &cp)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		for _, f := range q.OrderBy {
			a, b := stubFieldValue(out[i], f), stubFieldValue(out[j], f)
			if a != b {
				return a < b
			}
		}
		return false
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *stubOperatorStore) ListOperatorIDs(_ context.Context, tenantID string, limit int) ([]string, error) {
	var ids []string
	for k := range s.records {
		if k.TenantID == tenantID {
			ids = append(ids, k.OperatorID)
		}
	}
	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func stubFieldValue(op *domain.Operator, f domain.Field) string {
	switch f {
	case domain.FieldTenantID:
		return op.TenantID
	case domain.FieldOperatorID:
		return op.OperatorID
	case domain.FieldContactPhone:
		return op.ContactPhone
	case domain.FieldCardID:
		return op.CardID
	case domain.FieldExternalServiceID:
		return op.ExternalServiceID
	default:
		return ""
	}
}

type stubAnomalies struct {
	reported []domain.Anomaly
}

func (a *stubAnomalies) Report(_ context.Context, an domain.Anomaly) {
	a.reported = append(a.reported, an)
}

func (a *stubAnomalies) kinds() []domain.AnomalyKind {
	out := make([]domain.AnomalyKind, 0, len(a.reported))
	for _, an := range a.reported {
		out = append(out, an.Kind)
	}
	return out
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

const testNow int64 = 1_700_000_000

func fixedClock() Option {
	return WithClock(func() time.Time { return time.Unix(testNow, 0) })
}

func newDutySvc(store *stubOperatorStore, anomalies *stubAnomalies) ports.DutyStatusService {
	return NewDutyService(store, anomalies, zerolog.Nop(), fixedClock())
}

func seededOperator(tenant, id string, status domain.DutyStatus, statusTime int64) *domain.Operator {
	op := domain.NewOperator(tenant, id)
	op.DutyStatus = status
	op.DutyStatusTime = statusTime
	return op
}

func stored(t *testing.T, s *stubOperatorStore, tenant, id string) *domain.Operator {
	t.Helper()
	op, ok := s.records[domain.NewOperatorKey(tenant, id)]
	if !ok {
		t.Fatalf("operator %s/%s not stored", tenant, id)
	}
	return op
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestDutyService_UpdateStatus_HappyPath(t *testing.T) {
	store := newStubOperatorStore(seededOperator("acme", "d1", domain.DutyOffDuty, testNow-3600))
	anomalies := &stubAnomalies{}

	changed, err := newDutySvc(store, anomalies).UpdateStatus(context.Background(), ports.StatusUpdateInput{
		TenantID:   "acme",
		OperatorID: "d1",
		Status:     domain.DutyDriving,
		Timestamp:  testNow - 60,
		DeviceID:   "truck-7",
	})

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !changed {
		t.Fatal("expected changed=true")
	}
	op := stored(t, store, "acme", "d1")
	if op.DutyStatus != domain.DutyDriving || op.DutyStatusTime != testNow-60 {
		t.Errorf("got status %v at %d", op.DutyStatus, op.DutyStatusTime)
	}
	if op.AssociatedDeviceID != "truck-7" {
		t.Errorf("expected device truck-7, got %q", op.AssociatedDeviceID)
	}
	if len(anomalies.reported) != 0 {
		t.Errorf("expected no anomalies, got %v", anomalies.kinds())
	}
}

func TestDutyService_UpdateStatus_PersistsOnlyDirtyFields(t *testing.T) {
	store := newStubOperatorStore(seededOperator("acme", "d1", domain.DutyOffDuty, testNow-3600))

	_, err := newDutySvc(store, &stubAnomalies{}).UpdateStatus(context.Background(), ports.StatusUpdateInput{
		TenantID: "acme", OperatorID: "d1", Status: domain.DutyOnDuty, Timestamp: testNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(store.updates))
	}
	got := store.updates[0].Fields()
	want := []domain.Field{domain.FieldDutyStatus, domain.FieldDutyStatusTime}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("expected fields %v, got %v", want, got)
	}
}

func TestDutyService_UpdateStatus_SameStatusIsNoOp(t *testing.T) {
	store := newStubOperatorStore(seededOperator("acme", "d1", domain.DutyDriving, testNow-3600))

	changed, err := newDutySvc(store, &stubAnomalies{}).UpdateStatus(context.Background(), ports.StatusUpdateInput{
		TenantID: "acme", OperatorID: "d1", Status: domain.DutyDriving, Timestamp: testNow,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed {
		t.Error("expected changed=false for a repeated status")
	}
	if len(store.updates) != 0 {
		t.Errorf("expected no writes, got %d", len(store.updates))
	}
	if got := stored(t, store, "acme", "d1").DutyStatusTime; got != testNow-3600 {
		t.Errorf("status time must not move, got %d", got)
	}
}

func TestDutyService_UpdateStatus_DeviceOnlyChange(t *testing.T) {
	op := seededOperator("acme", "d1", domain.DutyDriving, testNow-3600)
	op.AssociatedDeviceID = "truck-1"
	store := newStubOperatorStore(op)

	changed, err := newDutySvc(store, &stubAnomalies{}).UpdateStatus(context.Background(), ports.StatusUpdateInput{
		TenantID: "acme", OperatorID: "d1", Status: domain.DutyDriving, Timestamp: testNow, DeviceID: "  truck-2 ",
	})

	if err != nil || !changed {
		t.Fatalf("expected change without error, got changed=%v err=%v", changed, err)
	}
	if len(store.updates) != 1 || len(store.updates[0]) != 1 || !store.updates[0].Has(domain.FieldAssociatedDeviceID) {
		t.Fatalf("expected only the device field written, got %v", store.updates)
	}
	if got := stored(t, store, "acme", "d1").AssociatedDeviceID; got != "truck-2" {
		t.Errorf("expected trimmed device id, got %q", got)
	}
}

func TestDutyService_UpdateStatus_BlankDeviceKeepsAssociation(t *testing.T) {
	op := seededOperator("acme", "d1", domain.DutyDriving, testNow-3600)
	op.AssociatedDeviceID = "truck-1"
	store := newStubOperatorStore(op)

	changed, _ := newDutySvc(store, &stubAnomalies{}).UpdateStatus(context.Background(), ports.StatusUpdateInput{
		TenantID: "acme", OperatorID: "d1", Status: domain.DutyDriving, Timestamp: testNow, DeviceID: "   ",
	})

	if changed {
		t.Error("a blank device must not count as a change")
	}
	if got := stored(t, store, "acme", "d1").AssociatedDeviceID; got != "truck-1" {
		t.Errorf("association lost, got %q", got)
	}
}

func TestDutyService_UpdateStatus_InvalidStatusCoercedToUnknown(t *testing.T) {
	store := newStubOperatorStore(seededOperator("acme", "d1", domain.DutyOnDuty, testNow-3600))

	changed, err := newDutySvc(store, &stubAnomalies{}).UpdateStatus(context.Background(), ports.StatusUpdateInput{
		TenantID: "acme", OperatorID: "d1", Status: domain.DutyStatus(42), Timestamp: testNow,
	})

	if err != nil || !changed {
		t.Fatalf("expected change, got changed=%v err=%v", changed, err)
	}
	if got := stored(t, store, "acme", "d1").DutyStatus; got != domain.DutyUnknown {
		t.Errorf("expected UNKNOWN, got %v", got)
	}
}

func TestDutyService_UpdateStatus_TimestampDefaultsToNow(t *testing.T) {
	store := newStubOperatorStore(seededOperator("acme", "d1", domain.DutyOffDuty, testNow-3600))
	anomalies := &stubAnomalies{}

	_, err := newDutySvc(store, anomalies).UpdateStatus(context.Background(), ports.StatusUpdateInput{
		TenantID: "acme", OperatorID: "d1", Status: domain.DutyOnDuty, Timestamp: 0,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := stored(t, store, "acme", "d1").DutyStatusTime; got != testNow {
		t.Errorf("expected now (%d), got %d", testNow, got)
	}
	if k := anomalies.kinds(); len(k) != 1 || k[0] != domain.AnomalyTimestampDefaulted {
		t.Errorf("expected defaulted anomaly, got %v", k)
	}
}

func TestDutyService_UpdateStatus_FutureTimestampClamped(t *testing.T) {
	store := newStubOperatorStore(seededOperator("acme", "d1", domain.DutyOffDuty, testNow-3600))
	anomalies := &stubAnomalies{}

	_, err := newDutySvc(store, anomalies).UpdateStatus(context.Background(), ports.StatusUpdateInput{
		TenantID: "acme", OperatorID: "d1", Status: domain.DutyOnDuty, Timestamp: testNow + 3600,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := stored(t, store, "acme", "d1").DutyStatusTime; got != testNow+domain.AllowedFutureSeconds {
		t.Errorf("expected clamp to now+%d, got %d", domain.AllowedFutureSeconds, got)
	}
	if k := anomalies.kinds(); len(k) != 1 || k[0] != domain.AnomalyTimestampClamped {
		t.Errorf("expected clamped anomaly, got %v", k)
	}
}

func TestDutyService_UpdateStatus_SmallFutureSkewAccepted(t *testing.T) {
	store := newStubOperatorStore(seededOperator("acme", "d1", domain.DutyOffDuty, testNow-3600))
	anomalies := &stubAnomalies{}

	_, _ = newDutySvc(store, anomalies).UpdateStatus(context.Background(), ports.StatusUpdateInput{
		TenantID: "acme", OperatorID: "d1", Status: domain.DutyOnDuty, Timestamp: testNow + 5,
	})

	if got := stored(t, store, "acme", "d1").DutyStatusTime; got != testNow+5 {
		t.Errorf("expected %d, got %d", testNow+5, got)
	}
	if len(anomalies.reported) != 0 {
		t.Errorf("expected no anomaly, got %v", anomalies.kinds())
	}
}

func TestDutyService_UpdateStatus_OutOfOrderAcceptedAndFlagged(t *testing.T) {
	store := newStubOperatorStore(seededOperator("acme", "d1", domain.DutyOffDuty, testNow-100))
	anomalies := &stubAnomalies{}

	changed, err := newDutySvc(store, anomalies).UpdateStatus(context.Background(), ports.StatusUpdateInput{
		TenantID: "acme", OperatorID: "d1", Status: domain.DutySleeper, Timestamp: testNow - 500,
	})

	if err != nil || !changed {
		t.Fatalf("expected change, got changed=%v err=%v", changed, err)
	}
	if got := stored(t, store, "acme", "d1").DutyStatusTime; got != testNow-500 {
		t.Errorf("out-of-order time must be kept as reported, got %d", got)
	}
	if len(anomalies.reported) != 1 {
		t.Fatalf("expected one anomaly, got %v", anomalies.kinds())
	}
	an := anomalies.reported[0]
	if an.Kind != domain.AnomalyTimestampOrder || an.ReportedTime != testNow-500 || an.ReferenceTime != testNow-100 {
		t.Errorf("unexpected anomaly: %+v", an)
	}
}

func TestDutyService_UpdateStatus_OutOfOrderWithoutReporterLogsWarning(t *testing.T) {
	store := newStubOperatorStore(seededOperator("acme", "d1", domain.DutyOffDuty, testNow-100))
	var buf bytes.Buffer
	svc := NewDutyService(store, nil, zerolog.New(&buf), fixedClock())

	changed, err := svc.UpdateStatus(context.Background(), ports.StatusUpdateInput{
		TenantID: "acme", OperatorID: "d1", Status: domain.DutySleeper, Timestamp: testNow - 500,
	})

	if err != nil || !changed {
		t.Fatalf("expected change, got changed=%v err=%v", changed, err)
	}
	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"kind":"timestamp_out_of_order"`, `"operator":"acme/d1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in log output %s", want, out)
		}
	}
}

func TestDutyService_UpdateStatus_StoredFutureTimeClampedToNow(t *testing.T) {
	// A stored time ahead of the clock is treated as "now" for ordering.
	store := newStubOperatorStore(seededOperator("acme", "d1", domain.DutyOffDuty, testNow+9999))
	anomalies := &stubAnomalies{}

	_, _ = newDutySvc(store, anomalies).UpdateStatus(context.Background(), ports.StatusUpdateInput{
		TenantID: "acme", OperatorID: "d1", Status: domain.DutyOnDuty, Timestamp: testNow + 5,
	})

	if len(anomalies.reported) != 0 {
		t.Errorf("expected no anomaly, got %v", anomalies.kinds())
	}
	if got := stored(t, store, "acme", "d1").DutyStatusTime; got != testNow+5 {
		t.Errorf("expected %d, got %d", testNow+5, got)
	}
}

func TestDutyService_UpdateStatus_UnknownOperatorWithoutCreate(t *testing.T) {
	store := newStubOperatorStore()

	changed, err := newDutySvc(store, &stubAnomalies{}).UpdateStatus(context.Background(), ports.StatusUpdateInput{
		TenantID: "acme", OperatorID: "ghost", Status: domain.DutyDriving, Timestamp: testNow,
	})

	if !errors.Is(err, domain.ErrOperatorNotFound) {
		t.Errorf("expected ErrOperatorNotFound, got: %v", err)
	}
	if changed || len(store.created) != 0 {
		t.Error("nothing must be written")
	}
}

func TestDutyService_UpdateStatus_AutoCreate(t *testing.T) {
	store := newStubOperatorStore()

	changed, err := newDutySvc(store, &stubAnomalies{}).UpdateStatus(context.Background(), ports.StatusUpdateInput{
		TenantID:    "ACME",
		OperatorID:  " Jane.Doe@Example.com ",
		Status:      domain.DutyOnDuty,
		Timestamp:   testNow - 10,
		AllowCreate: true,
	})

	if err != nil || !changed {
		t.Fatalf("expected change, got changed=%v err=%v", changed, err)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one created record, got %d", len(store.created))
	}
	created := store.created[0]
	if created.TenantID != "acme" || created.OperatorID != "jane.doe@example.com" {
		t.Errorf("key not normalised: %s", created.Key())
	}
	if created.DutyStatus != domain.DutyUnknown {
		t.Errorf("a new record starts UNKNOWN, got %v", created.DutyStatus)
	}
	if created.Description != "Jane.Doe@Example.com" || created.ContactEmail != "Jane.Doe@Example.com" {
		t.Errorf("expected description and email seeded from the ID, got %q / %q", created.Description, created.ContactEmail)
	}
	if got := stored(t, store, "acme", "jane.doe@example.com").DutyStatus; got != domain.DutyOnDuty {
		t.Errorf("expected ON after create, got %v", got)
	}
}

func TestDutyService_UpdateStatus_AutoCreatePlainIDHasNoEmail(t *testing.T) {
	store := newStubOperatorStore()

	_, _ = newDutySvc(store, &stubAnomalies{}).UpdateStatus(context.Background(), ports.StatusUpdateInput{
		TenantID: "acme", OperatorID: "d42", Status: domain.DutyOnDuty, AllowCreate: true,
	})

	if len(store.created) != 1 || store.created[0].ContactEmail != "" {
		t.Errorf("expected one record without email, got %+v", store.created)
	}
}

func TestDutyService_UpdateStatus_AutoCreateUnknownStatusNoChange(t *testing.T) {
	store := newStubOperatorStore()

	changed, err := newDutySvc(store, &stubAnomalies{}).UpdateStatus(context.Background(), ports.StatusUpdateInput{
		TenantID: "acme", OperatorID: "d42", Status: domain.DutyUnknown, AllowCreate: true,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed {
		t.Error("UNKNOWN on a fresh record is not a change")
	}
	if len(store.created) != 1 {
		t.Error("record must still be created")
	}
}

func TestDutyService_UpdateStatus_CreateRaceReadsWinner(t *testing.T) {
	store := newStubOperatorStore(seededOperator("acme", "d1", domain.DutyOffDuty, testNow-3600))
	store.getErrs = []error{domain.ErrOperatorNotFound} // first read misses, second sees the winner

	changed, err := newDutySvc(store, &stubAnomalies{}).UpdateStatus(context.Background(), ports.StatusUpdateInput{
		TenantID: "acme", OperatorID: "d1", Status: domain.DutyOnDuty, Timestamp: testNow, AllowCreate: true,
	})

	if err != nil || !changed {
		t.Fatalf("expected change, got changed=%v err=%v", changed, err)
	}
	if len(store.created) != 0 {
		t.Error("no duplicate record expected")
	}
}

func TestDutyService_UpdateStatus_BlankKey(t *testing.T) {
	store := newStubOperatorStore()

	for _, in := range []ports.StatusUpdateInput{
		{TenantID: "", OperatorID: "d1"},
		{TenantID: "acme", OperatorID: "   "},
	} {
		_, err := newDutySvc(store, &stubAnomalies{}).UpdateStatus(context.Background(), in)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("%+v: expected ErrInvalidArgument, got %v", in, err)
		}
	}
}

func TestDutyService_UpdateStatus_StorageErrors(t *testing.T) {
	boom := errors.New("connection reset")

	t.Run("get", func(t *testing.T) {
		store := newStubOperatorStore()
		store.getErrs = []error{boom}
		_, err := newDutySvc(store, &stubAnomalies{}).UpdateStatus(context.Background(), ports.StatusUpdateInput{
			TenantID: "acme", OperatorID: "d1", Status: domain.DutyOnDuty,
		})
		if !errors.Is(err, domain.ErrStorage) || !errors.Is(err, boom) {
			t.Errorf("expected storage error wrapping cause, got %v", err)
		}
	})

	t.Run("create", func(t *testing.T) {
		store := newStubOperatorStore()
		store.createErr = boom
		_, err := newDutySvc(store, &stubAnomalies{}).UpdateStatus(context.Background(), ports.StatusUpdateInput{
			TenantID: "acme", OperatorID: "d1", Status: domain.DutyOnDuty, AllowCreate: true,
		})
		if !errors.Is(err, domain.ErrStorage) {
			t.Errorf("expected storage error, got %v", err)
		}
	})

	t.Run("update", func(t *testing.T) {
		store := newStubOperatorStore(seededOperator("acme", "d1", domain.DutyOffDuty, 0))
		store.updateErr = boom
		changed, err := newDutySvc(store, &stubAnomalies{}).UpdateStatus(context.Background(), ports.StatusUpdateInput{
			TenantID: "acme", OperatorID: "d1", Status: domain.DutyOnDuty,
		})
		if changed || !errors.Is(err, domain.ErrStorage) {
			t.Errorf("expected changed=false and storage error, got %v %v", changed, err)
		}
	})
}
