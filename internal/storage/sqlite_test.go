package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func record(session string, round, score int, outcome string) RoundRecord {
	return RoundRecord{
		Session:       session,
		Round:         round,
		Score:         score,
		Coins:         round,
		DurationMs:    int64(round) * 30000,
		EntropyBanked: float64(round) * 12.5,
		Outcome:       outcome,
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openStore(t)

	for i, score := range []int{100, 50, 200} {
		if _, err := store.SaveRound(record("s1", i+1, score, "completed")); err != nil {
			t.Fatalf("SaveRound() failed: %v", err)
		}
	}
	if _, err := store.SaveRound(record("s2", 1, 500, "failed")); err != nil {
		t.Fatalf("SaveRound() failed: %v", err)
	}

	rounds, err := store.TopRounds(10)
	if err != nil {
		t.Fatalf("TopRounds() failed: %v", err)
	}

	if len(rounds) != 4 {
		t.Errorf("Expected 4 rounds, got %d", len(rounds))
	}

	// Should be sorted descending by score
	if rounds[0].Score != 500 {
		t.Errorf("Expected highest score to be 500, got %d", rounds[0].Score)
	}
	if rounds[0].Outcome != "failed" {
		t.Errorf("Outcome not persisted: %q", rounds[0].Outcome)
	}
	if rounds[1].Score != 200 || rounds[2].Score != 100 || rounds[3].Score != 50 {
		t.Errorf("Rounds not in expected order: %v", rounds)
	}

	// Per-session history comes back oldest round first
	history, err := store.SessionRounds("s1")
	if err != nil {
		t.Fatalf("SessionRounds() failed: %v", err)
	}
	if len(history) != 3 {
		t.Errorf("Expected 3 session rounds, got %d", len(history))
	}
	if history[0].Round != 1 || history[2].Round != 3 {
		t.Errorf("Session history not in round order: %v", history)
	}
}

func TestStoreTopRoundsLimit(t *testing.T) {
	store := openStore(t)

	for i := 0; i < 5; i++ {
		store.SaveRound(record("s", i+1, (i+1)*100, "completed"))
	}

	rounds, err := store.TopRounds(3)
	if err != nil {
		t.Fatalf("TopRounds() failed: %v", err)
	}

	if len(rounds) != 3 {
		t.Errorf("Expected 3 rounds with limit, got %d", len(rounds))
	}

	if rounds[0].Score != 500 || rounds[1].Score != 400 || rounds[2].Score != 300 {
		t.Errorf("Rounds not in expected order: %v", rounds)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openStore(t)

	// No rounds yet
	high, err := store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty ledger, got %d", high)
	}

	store.SaveRound(record("s", 1, 100, "completed"))
	store.SaveRound(record("s", 2, 300, "completed"))
	store.SaveRound(record("s", 3, 200, "failed"))

	high, err = store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearRounds(t *testing.T) {
	store := openStore(t)

	store.SaveRound(record("s", 1, 100, "completed"))
	store.SaveRound(record("s", 2, 200, "completed"))

	if err := store.ClearRounds(); err != nil {
		t.Fatalf("ClearRounds() failed: %v", err)
	}

	rounds, _ := store.TopRounds(10)
	if len(rounds) != 0 {
		t.Errorf("Expected 0 rounds after clear, got %d", len(rounds))
	}
}

func TestStoreStats(t *testing.T) {
	store := openStore(t)

	store.SaveRound(record("s", 1, 100, "completed"))
	store.SaveRound(record("s", 2, 300, "completed"))

	stats, err := store.GetStats()
	if err != nil {
		t.Fatalf("GetStats() failed: %v", err)
	}
	if stats.RoundsCount != 2 || stats.HighScore != 300 || stats.TotalScore != 400 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestNilRecorderIsNoOp(t *testing.T) {
	r := NewRecorder(nil)
	if err := r.Record(record("s", 1, 100, "completed")); err != nil {
		t.Fatalf("nil recorder returned error: %v", err)
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	// Nested directories are created on demand
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
