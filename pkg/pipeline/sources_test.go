package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/tendant/simple-crm-slim/pkg/domain"
)

func TestCreateSource_Defaults(t *testing.T) {
	svc, _, _, _ := newTestService()

	source, err := svc.CreateSource(context.Background(), testContext(uuid.New()), CreateSourceInput{Name: "Referral"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !source.IsActive {
		t.Error("source should default to active")
	}
}

func TestCreateSource_DuplicateName(t *testing.T) {
	svc, _, _, _ := newTestService()
	org := uuid.New()

	if _, err := svc.CreateSource(context.Background(), testContext(org), CreateSourceInput{Name: "Referral"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	_, err := svc.CreateSource(context.Background(), testContext(org), CreateSourceInput{Name: "Referral"})
	if !errors.Is(err, domain.ErrDuplicateName) {
		t.Fatalf("error = %v, want duplicate name", err)
	}
}

func TestCreateSource_EmptyName(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.CreateSource(context.Background(), testContext(uuid.New()), CreateSourceInput{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("error = %v, want validation error", err)
	}
}

func TestListSources_AlphabeticalAndScoped(t *testing.T) {
	svc, _, _, _ := newTestService()
	orgA := uuid.New()
	orgB := uuid.New()

	for _, name := range []string{"Web", "Ads", "Referral"} {
		if _, err := svc.CreateSource(context.Background(), testContext(orgA), CreateSourceInput{Name: name}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}
	if _, err := svc.CreateSource(context.Background(), testContext(orgB), CreateSourceInput{Name: "Other"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	list, err := svc.ListSources(context.Background(), testContext(orgA))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("list length = %d, want 3 (no cross-tenant rows)", len(list))
	}
	want := []string{"Ads", "Referral", "Web"}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("list[%d] = %q, want %q", i, list[i].Name, name)
		}
	}
}

func TestDeleteSource_NoReferenceGuard(t *testing.T) {
	svc, _, _, clients := newTestService()
	org := uuid.New()

	source, err := svc.CreateSource(context.Background(), testContext(org), CreateSourceInput{Name: "Referral"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Unlike stages, sources delete unconditionally once found.
	clients.set(org, "Referral", 10)
	if err := svc.DeleteSource(context.Background(), testContext(org), source.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
}

func TestDeleteSource_ForeignOrganizationLooksAbsent(t *testing.T) {
	svc, _, _, _ := newTestService()

	source, err := svc.CreateSource(context.Background(), testContext(uuid.New()), CreateSourceInput{Name: "Referral"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err = svc.DeleteSource(context.Background(), testContext(uuid.New()), source.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("error = %v, want not found", err)
	}
}

func TestUpdateSource_RenameCollision(t *testing.T) {
	svc, _, _, _ := newTestService()
	org := uuid.New()

	if _, err := svc.CreateSource(context.Background(), testContext(org), CreateSourceInput{Name: "Web"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := svc.CreateSource(context.Background(), testContext(org), CreateSourceInput{Name: "Ads"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.UpdateSource(context.Background(), testContext(org), second.ID, UpdateSourceInput{Name: strPtr("Web")})
	if !errors.Is(err, domain.ErrDuplicateName) {
		t.Fatalf("error = %v, want duplicate name", err)
	}
}
