package services

import (
	"fmt"
	"testing"
	"time"
)

func TestInteractionLogStampsIdentityAndTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ids := 0
	log := NewInteractionLog(InteractionLogDeps{
		Clock: func() time.Time { return now },
		IDGen: func() string {
			ids++
			return fmt.Sprintf("id-%d", ids)
		},
	})

	log.Record(InteractionRecord{Kind: KindContact, ItemID: 1})

	records := log.Recent(0)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ID != "id-1" {
		t.Errorf("ID = %q, want id-1", records[0].ID)
	}
	if !records[0].OccurredAt.Equal(now) {
		t.Errorf("OccurredAt = %v, want %v", records[0].OccurredAt, now)
	}
}

func TestInteractionLogPreservesExplicitFields(t *testing.T) {
	stamp := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	log := NewInteractionLog(InteractionLogDeps{})

	log.Record(InteractionRecord{ID: "fixed", Kind: KindCopy, ItemID: 2, OccurredAt: stamp})

	records := log.Recent(1)
	if records[0].ID != "fixed" || !records[0].OccurredAt.Equal(stamp) {
		t.Fatalf("explicit fields overwritten: %+v", records[0])
	}
}

func TestInteractionLogRecentNewestFirst(t *testing.T) {
	log := NewInteractionLog(InteractionLogDeps{})
	for i := 1; i <= 5; i++ {
		log.Record(InteractionRecord{Kind: KindContact, ItemID: i})
	}

	records := log.Recent(3)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].ItemID != 5 || records[1].ItemID != 4 || records[2].ItemID != 3 {
		t.Fatalf("unexpected order %+v", records)
	}
}

func TestInteractionLogCapacityEvictsOldest(t *testing.T) {
	log := NewInteractionLog(InteractionLogDeps{Capacity: 3})
	for i := 1; i <= 5; i++ {
		log.Record(InteractionRecord{Kind: KindCopy, ItemID: i})
	}

	records := log.Recent(0)
	if len(records) != 3 {
		t.Fatalf("expected 3 retained records, got %d", len(records))
	}
	if records[0].ItemID != 5 || records[2].ItemID != 3 {
		t.Fatalf("unexpected retained set %+v", records)
	}
}
