package hmo

import (
	"context"
	"strings"
	"testing"

	"github.com/healthbridge/healthbridge/internal/platform/auth"
	"github.com/healthbridge/healthbridge/internal/platform/blobstore"
)

type mockRepo struct {
	hmos   map[int64]*HMO
	byOrg  map[string]int64
	nextID int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{hmos: map[int64]*HMO{}, byOrg: map[string]int64{}, nextID: 1}
}

func (m *mockRepo) Create(_ context.Context, h *HMO) error {
	if _, ok := m.byOrg[h.OrganizationID]; ok {
		return ErrDuplicateOrganization
	}
	h.ID = m.nextID
	m.nextID++
	m.hmos[h.ID] = h
	m.byOrg[h.OrganizationID] = h.ID
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64, orgID string) (*HMO, error) {
	h, ok := m.hmos[id]
	if !ok || (orgID != "" && h.OrganizationID != orgID) {
		return nil, ErrNotFound
	}
	return h, nil
}

func (m *mockRepo) Update(ctx context.Context, id int64, orgID string, set map[string]interface{}) (*HMO, error) {
	h, err := m.GetByID(ctx, id, orgID)
	if err != nil {
		return nil, err
	}
	if v, ok := set["company_name"]; ok {
		h.CompanyName = v.(string)
	}
	if v, ok := set["plan_types"]; ok {
		h.PlanTypes = v.(string)
	}
	return h, nil
}

func (m *mockRepo) Delete(ctx context.Context, id int64, orgID string) error {
	h, err := m.GetByID(ctx, id, orgID)
	if err != nil {
		return err
	}
	delete(m.hmos, h.ID)
	delete(m.byOrg, h.OrganizationID)
	return nil
}

func (m *mockRepo) List(_ context.Context, orgID string, _, _ int) ([]*HMO, int64, error) {
	var items []*HMO
	for _, h := range m.hmos {
		if orgID == "" || h.OrganizationID == orgID {
			items = append(items, h)
		}
	}
	return items, int64(len(items)), nil
}

func (m *mockRepo) SetDocumentURL(_ context.Context, id int64, doc Document, url string) (*string, error) {
	h, ok := m.hmos[id]
	if !ok {
		return nil, ErrNotFound
	}
	var prior *string
	if doc == DocumentFinancialStatement {
		prior = h.FinancialStatementURL
		h.FinancialStatementURL = &url
	} else {
		prior = h.InsuranceLicenseURL
		h.InsuranceLicenseURL = &url
	}
	return prior, nil
}

func validCreateInput(orgID string) *CreateInput {
	return &CreateInput{
		OrganizationID:     orgID,
		CompanyName:        "Crestline Health",
		RegistrationNumber: "RC-5541",
	}
}

func TestCreate_Defaults(t *testing.T) {
	svc := NewService(newMockRepo(), blobstore.NewMemoryStore("http://blobs.test"))

	h, err := svc.Create(context.Background(), validCreateInput("org-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if h.Country != "Nigeria" {
		t.Errorf("country should default to Nigeria, got %q", h.Country)
	}
	if h.PlanTypes != "[]" || h.HospitalPartners != "[]" {
		t.Error("list columns should default to empty arrays")
	}
	if h.InsuranceLicenseURL != nil || h.FinancialStatementURL != nil {
		t.Error("document URLs are only set through uploads")
	}
}

func TestUploadDocument_StoresAndRecordsURL(t *testing.T) {
	store := blobstore.NewMemoryStore("http://blobs.test")
	svc := NewService(newMockRepo(), store)
	ctx := context.Background()

	h, err := svc.Create(ctx, validCreateInput("org-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.UploadDocument(ctx, auth.Identity{}, h.ID, DocumentInsuranceLicense,
		"license.pdf", "application/pdf", strings.NewReader("pdf-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if got.InsuranceLicenseURL == nil || *got.InsuranceLicenseURL == "" {
		t.Fatal("expected a recorded document URL")
	}
	key := store.KeyFromURL(*got.InsuranceLicenseURL)
	if !strings.Contains(key, "/") {
		t.Errorf("document keys are namespaced per profile, got %q", key)
	}
	if _, _, err := store.Get(ctx, key); err != nil {
		t.Errorf("uploaded blob should exist at %q: %v", key, err)
	}
}

func TestUploadDocument_ReplacesPriorBlob(t *testing.T) {
	store := blobstore.NewMemoryStore("http://blobs.test")
	svc := NewService(newMockRepo(), store)
	ctx := context.Background()

	h, err := svc.Create(ctx, validCreateInput("org-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := svc.UploadDocument(ctx, auth.Identity{}, h.ID, DocumentFinancialStatement,
		"q1.pdf", "application/pdf", strings.NewReader("v1"))
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	firstKey := store.KeyFromURL(*first.FinancialStatementURL)
	if _, _, err := store.Get(ctx, firstKey); err != nil {
		t.Fatalf("first blob should exist before replacement: %v", err)
	}

	second, err := svc.UploadDocument(ctx, auth.Identity{}, h.ID, DocumentFinancialStatement,
		"q2.pdf", "application/pdf", strings.NewReader("v2"))
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if *second.FinancialStatementURL == *first.FinancialStatementURL {
		t.Error("replacement should issue a new URL")
	}
	if _, _, err := store.Get(ctx, firstKey); err == nil {
		t.Error("replaced blob should have been deleted")
	}
}

func TestUploadDocument_AbsentHMO(t *testing.T) {
	svc := NewService(newMockRepo(), blobstore.NewMemoryStore("http://blobs.test"))

	_, err := svc.UploadDocument(context.Background(), auth.Identity{}, 9, DocumentInsuranceLicense,
		"license.pdf", "application/pdf", strings.NewReader("x"))
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_OrgScoping(t *testing.T) {
	svc := NewService(newMockRepo(), blobstore.NewMemoryStore("http://blobs.test"))

	h, err := svc.Create(context.Background(), validCreateInput("org-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Get(context.Background(), auth.Identity{OrganizationID: "org-2"}, h.ID); err != ErrNotFound {
		t.Errorf("cross-org read should be not-found, got %v", err)
	}
}
