package importing

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
)

func TestProcessedSet_AncestorCoverage(t *testing.T) {
	set := NewProcessedSet()
	dir := "/unsorted/AlbumX"

	if set.IsCoveredByProcessedAncestor(dir) {
		t.Fatal("empty set should not cover anything")
	}

	set.MarkProcessed(dir)

	if !set.IsCoveredByProcessedAncestor(dir) {
		t.Error("expected directory itself to be covered")
	}
	if !set.IsCoveredByProcessedAncestor(filepath.Join(dir, "x.mp3")) {
		t.Error("expected file inside directory to be covered")
	}
	if !set.IsCoveredByProcessedAncestor(filepath.Join(dir, "CD1", "x.mp3")) {
		t.Error("expected nested file to be covered")
	}
	if set.IsCoveredByProcessedAncestor("/unsorted/AlbumY/x.mp3") {
		t.Error("sibling directory should not be covered")
	}
	if set.IsCoveredByProcessedAncestor("/unsorted/AlbumX2/x.mp3") {
		t.Error("directory sharing a name prefix should not be covered")
	}
	if set.IsCoveredByProcessedAncestor("/unsorted") {
		t.Error("parent directory should not be covered")
	}
}

func TestProcessedSet_Unmark(t *testing.T) {
	set := NewProcessedSet()
	dir := "/unsorted/AlbumX"

	set.MarkProcessed(dir)
	set.Unmark(dir)

	if set.IsCoveredByProcessedAncestor(dir) {
		t.Error("expected directory to be gone after Unmark")
	}
	// no-op on absent members
	set.Unmark("/unsorted/never")
	if set.Len() != 0 {
		t.Errorf("expected empty set, got %d members", set.Len())
	}
}

func TestProcessedSet_CleansPaths(t *testing.T) {
	set := NewProcessedSet()
	set.MarkProcessed("/unsorted/AlbumX/")

	if !set.IsCoveredByProcessedAncestor("/unsorted/AlbumX/track.mp3") {
		t.Error("trailing separator should not prevent coverage")
	}
	set.Unmark("/unsorted/./AlbumX")
	if set.Len() != 0 {
		t.Error("expected cleaned path to be unmarked")
	}
}

func TestProcessedSet_RootMember(t *testing.T) {
	set := NewProcessedSet()
	set.MarkProcessed("/")
	if !set.IsCoveredByProcessedAncestor("/anything/at/all.mp3") {
		t.Error("expected root to cover every path")
	}
}

func TestProcessedSet_Claim(t *testing.T) {
	set := NewProcessedSet()
	dir := "/unsorted/AlbumX"

	if !set.Claim(dir) {
		t.Fatal("first claim should succeed")
	}
	if set.Claim(dir) {
		t.Error("second claim while in flight should fail")
	}
	if set.IsCoveredByProcessedAncestor(filepath.Join(dir, "x.mp3")) {
		t.Error("an in-flight directory must not cover its files")
	}
	if set.Len() != 0 || len(set.Snapshot()) != 0 {
		t.Error("an in-flight directory must not be a member")
	}

	set.MarkProcessed(dir)
	if !set.IsCoveredByProcessedAncestor(filepath.Join(dir, "x.mp3")) {
		t.Error("settled directory should cover its files")
	}
	if !set.Claim(dir) {
		t.Error("claim on a settled directory should succeed")
	}

	set.Unmark(dir)
	if set.IsCoveredByProcessedAncestor(dir) {
		t.Error("rollback should remove membership")
	}
	if !set.Claim(dir) {
		t.Error("claim after rollback should succeed")
	}
}

func TestProcessedSet_Snapshot(t *testing.T) {
	set := NewProcessedSet()
	set.MarkProcessed("/u/b")
	set.MarkProcessed("/u/a")
	set.Claim("/u/c")

	got := set.Snapshot()
	want := []string{"/u/a", "/u/b"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("snapshot[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestProcessedSet_ConcurrentAccess(t *testing.T) {
	set := NewProcessedSet()
	const workers = 64

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dir := fmt.Sprintf("/unsorted/Album%02d", i)
			set.MarkProcessed(dir)
			if !set.IsCoveredByProcessedAncestor(dir + "/track.mp3") {
				t.Errorf("mark for %s not visible to the same goroutine", dir)
			}
			set.IsCoveredByProcessedAncestor(fmt.Sprintf("/unsorted/Album%02d/x.flac", (i+1)%workers))
		}(i)
	}
	wg.Wait()

	if got := set.Len(); got != workers {
		t.Fatalf("expected %d members, got %d", workers, got)
	}
	for i := 0; i < workers; i++ {
		if !set.IsCoveredByProcessedAncestor(fmt.Sprintf("/unsorted/Album%02d", i)) {
			t.Errorf("lost update for Album%02d", i)
		}
	}
}
