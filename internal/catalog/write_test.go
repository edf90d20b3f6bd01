package catalog

import (
	"context"
	"testing"

	"github.com/roach88/mdx/internal/testutil"
)

const testMDX = "SELECT {[PRODUCT].[PRODUCT].[P1]} ON 0\nFROM [SALES]"

func TestSave_InsertsEntry(t *testing.T) {
	c := createTestCatalog(t)
	ctx := context.Background()

	entry, err := c.Save(ctx, "products", "Sales", testMDX)
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if entry.ID == "" {
		t.Error("entry ID is empty")
	}
	if entry.Name != "products" {
		t.Errorf("Name = %q, expected %q", entry.Name, "products")
	}
	if entry.Cube != "Sales" {
		t.Errorf("Cube = %q, expected %q", entry.Cube, "Sales")
	}
	if entry.MDX != testMDX {
		t.Errorf("MDX = %q, expected %q", entry.MDX, testMDX)
	}
	if entry.ContentHash != contentHash("products", testMDX) {
		t.Errorf("ContentHash = %q, expected %q", entry.ContentHash, contentHash("products", testMDX))
	}
	if entry.CreatedSeq != 1 {
		t.Errorf("CreatedSeq = %d, expected 1", entry.CreatedSeq)
	}
}

func TestSave_IdempotentOnIdenticalContent(t *testing.T) {
	c := createTestCatalog(t)
	ctx := context.Background()

	first, err := c.Save(ctx, "products", "Sales", testMDX)
	if err != nil {
		t.Fatalf("first Save() failed: %v", err)
	}

	second, err := c.Save(ctx, "products", "Sales", testMDX)
	if err != nil {
		t.Fatalf("second Save() failed: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("second Save returned ID %q, expected existing %q", second.ID, first.ID)
	}
	if second.CreatedSeq != first.CreatedSeq {
		t.Errorf("second Save returned seq %d, expected existing %d", second.CreatedSeq, first.CreatedSeq)
	}

	entries, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("catalog holds %d entries, expected 1", len(entries))
	}
}

func TestSave_SameTextDifferentName(t *testing.T) {
	c := createTestCatalog(t)
	ctx := context.Background()

	if _, err := c.Save(ctx, "a", "Sales", testMDX); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if _, err := c.Save(ctx, "b", "Sales", testMDX); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	entries, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("catalog holds %d entries, expected 2", len(entries))
	}
}

func TestSave_EmptyNameRejected(t *testing.T) {
	c := createTestCatalog(t)

	if _, err := c.Save(context.Background(), "", "Sales", testMDX); err == nil {
		t.Error("expected error for empty name, got nil")
	}
}

func TestSave_EmptyTextRejected(t *testing.T) {
	c := createTestCatalog(t)

	if _, err := c.Save(context.Background(), "products", "Sales", ""); err == nil {
		t.Error("expected error for empty query text, got nil")
	}
}

func TestSave_SequencesAdvance(t *testing.T) {
	c := createTestCatalog(t)
	ctx := context.Background()

	first, err := c.Save(ctx, "a", "Sales", "SELECT {} ON 0\nFROM [A]")
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	second, err := c.Save(ctx, "b", "Sales", "SELECT {} ON 0\nFROM [B]")
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if first.CreatedSeq != 1 || second.CreatedSeq != 2 {
		t.Errorf("sequences = %d, %d, expected 1, 2", first.CreatedSeq, second.CreatedSeq)
	}
}

func TestSave_InjectedDeps(t *testing.T) {
	clock := testutil.NewDeterministicClock()
	c := createTestCatalog(t,
		WithSequencer(clock),
		WithIDGenerator(NewFixedIDGenerator("q-1", "q-2")),
	)
	ctx := context.Background()

	first, err := c.Save(ctx, "a", "Sales", "SELECT {} ON 0\nFROM [A]")
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	second, err := c.Save(ctx, "b", "Sales", "SELECT {} ON 0\nFROM [B]")
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if first.ID != "q-1" || second.ID != "q-2" {
		t.Errorf("IDs = %q, %q, expected q-1, q-2", first.ID, second.ID)
	}
	if clock.Current() != 2 {
		t.Errorf("clock at %d after two saves, expected 2", clock.Current())
	}
}

func TestDelete_RemovesEntry(t *testing.T) {
	c := createTestCatalog(t)
	ctx := context.Background()

	entry, err := c.Save(ctx, "products", "Sales", testMDX)
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	deleted, err := c.Delete(ctx, entry.ID)
	if err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if !deleted {
		t.Error("Delete() returned false for existing entry")
	}

	entries, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("catalog holds %d entries after delete, expected 0", len(entries))
	}
}

func TestDelete_MissingIsNoOp(t *testing.T) {
	c := createTestCatalog(t)

	deleted, err := c.Delete(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if deleted {
		t.Error("Delete() returned true for missing entry")
	}
}
