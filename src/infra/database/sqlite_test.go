package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/contre95/beetwatch/src/features/importing"
)

func TestSqliteHistory_RecordAndRecent(t *testing.T) {
	history, err := NewSqliteHistory(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to open history: %v", err)
	}
	defer history.Close()

	ctx := context.Background()
	base := time.Now()
	outcomes := []importing.DispatchOutcome{
		{ID: "1", Path: "/unsorted/AlbumX", Action: importing.ActionImportDirectory, IsDirectory: true, Succeeded: true, StartedAt: base, Duration: 1500 * time.Millisecond},
		{ID: "2", Path: "/unsorted/AlbumX/01.mp3", Action: importing.ActionImportFile, Skipped: true, SkipReason: importing.SkipCovered, StartedAt: base.Add(time.Second)},
		{ID: "3", Path: "/unsorted/AlbumY", Action: importing.ActionImportDirectory, IsDirectory: true, Error: "beet exited with code 1", StartedAt: base.Add(2 * time.Second)},
	}
	for _, o := range outcomes {
		if err := history.Record(ctx, o); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	recent, err := history.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(recent))
	}
	if recent[0].ID != "3" || recent[1].ID != "2" {
		t.Errorf("expected newest first, got %s, %s", recent[0].ID, recent[1].ID)
	}
	if recent[0].Err == nil || recent[0].Error != "beet exited with code 1" {
		t.Errorf("expected error to be restored, got %+v", recent[0])
	}
	if !recent[1].Skipped || recent[1].SkipReason != importing.SkipCovered {
		t.Errorf("expected skipped outcome, got %+v", recent[1])
	}

	all, err := history.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	first := all[len(all)-1]
	if first.Duration != 1500*time.Millisecond || !first.Succeeded || !first.IsDirectory {
		t.Errorf("unexpected round trip: %+v", first)
	}
	if first.Action != importing.ActionImportDirectory {
		t.Errorf("expected action %s, got %s", importing.ActionImportDirectory, first.Action)
	}
}
