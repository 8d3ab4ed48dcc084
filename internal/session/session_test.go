package session

import (
	"testing"

	"github.com/vmarchenko/brickwave/internal/config"
)

func newActive(t *testing.T) *Session {
	t.Helper()
	s := New(config.Default())
	s.StartRound(1, 40)
	return s
}

func TestMutatorsNoOpUnlessActive(t *testing.T) {
	s := New(config.Default())
	if s.Status() != StatusPending {
		t.Fatalf("new session status = %s, want pending", s.Status())
	}

	s.RecordBrickHit(20)
	if pts, _ := s.RecordBrickBreak(20, 10, false, 1); pts != 0 {
		t.Fatalf("pending break awarded %d points", pts)
	}
	s.RecordPaddleHit(20)
	s.RecordCoin(1)
	s.Tick(1)

	if s.Score() != 0 || s.Now() != 0 {
		t.Fatalf("pending session mutated: score=%d elapsed=%f", s.Score(), s.Now())
	}

	s.StartRound(1, 10)
	s.Pause()
	s.RecordBrickHit(20)
	if s.Entropy().Charge != 0 {
		t.Fatal("paused session gained entropy")
	}
	s.Resume()
	if s.Status() != StatusActive {
		t.Fatalf("resume -> %s", s.Status())
	}
}

func TestBrickBreakAwardsPointsAndCombo(t *testing.T) {
	s := newActive(t)

	pts, _ := s.RecordBrickBreak(26, 12, false, 1)
	if pts < config.Default().Scoring.BasePoints {
		t.Fatalf("points = %d, want >= base", pts)
	}
	if s.Momentum().VolleyLength != 1 {
		t.Fatalf("volley = %d, want 1", s.Momentum().VolleyLength)
	}

	// A second break under heat must award more than the first.
	pts2, _ := s.RecordBrickBreak(26, 12, false, 1)
	if pts2 <= pts {
		t.Fatalf("combo break %d <= first break %d", pts2, pts)
	}
	if s.Score() != pts+pts2 {
		t.Fatalf("score = %d, want %d", s.Score(), pts+pts2)
	}
}

func TestDoublePointsAndGambleMultiplier(t *testing.T) {
	base := newActive(t)
	pts, _ := base.RecordBrickBreak(26, 12, false, 1)

	doubled := newActive(t)
	dpts, _ := doubled.RecordBrickBreak(26, 12, true, 1)
	if dpts != pts*2 {
		t.Fatalf("double points: %d, want %d", dpts, pts*2)
	}

	gambled := newActive(t)
	gpts, _ := gambled.RecordBrickBreak(26, 12, false, 3)
	if gpts <= pts {
		t.Fatalf("gamble multiplier points %d <= base %d", gpts, pts)
	}
}

func TestMilestoneFiresOncePerCrossing(t *testing.T) {
	s := newActive(t)
	first := config.Default().Scoring.ComboMilestones[0]

	var fired int
	for i := 0; i < first+3; i++ {
		if _, m := s.RecordBrickBreak(26, 12, false, 1); m != nil {
			fired++
			if m.Combo != first && fired == 1 {
				t.Fatalf("first milestone at combo %d, want %d", m.Combo, first)
			}
		}
	}
	if fired != 1 {
		t.Fatalf("milestone fired %d times over one crossing, want 1", fired)
	}
}

func TestMilestoneRearmsAfterComboReset(t *testing.T) {
	cfg := config.Default()
	s := New(cfg)
	s.StartRound(1, 200)
	first := cfg.Scoring.ComboMilestones[0]

	for i := 0; i < first; i++ {
		s.RecordBrickBreak(26, 12, false, 1)
	}
	// Expire the combo window without touching anything else.
	s.Tick(cfg.Scoring.ComboDecayWindow + 1)
	if s.Momentum().VolleyLength != 0 {
		t.Fatal("combo did not reset after decay window")
	}

	var refired bool
	for i := 0; i < first; i++ {
		if _, m := s.RecordBrickBreak(26, 12, false, 1); m != nil {
			refired = true
		}
	}
	if !refired {
		t.Fatal("milestone did not rearm after combo reset")
	}
}

func TestEntropyStaysClamped(t *testing.T) {
	s := newActive(t)

	for i := 0; i < 500; i++ {
		s.RecordBrickBreak(44, 40, false, 1)
		s.RecordWallHit(44)
		s.RecordPaddleHit(44)
	}
	e := s.Entropy()
	if e.Charge < 0 || e.Charge > 100 {
		t.Fatalf("charge out of range: %f", e.Charge)
	}
	if e.Stored < 0 || e.Stored > 100 {
		t.Fatalf("stored out of range: %f", e.Stored)
	}

	for i := 0; i < 50; i++ {
		s.LoseLife()
		s.Tick(10)
	}
	if e = s.Entropy(); e.Charge < 0 {
		t.Fatalf("charge went negative: %f", e.Charge)
	}
}

func TestLoseLifeResetsRally(t *testing.T) {
	s := newActive(t)
	s.RecordBrickBreak(26, 12, false, 1)
	s.RecordBrickBreak(26, 12, false, 1)

	remaining, failed := s.LoseLife()
	if failed {
		t.Fatal("failed with lives remaining")
	}
	if remaining != config.Default().Gameplay.Lives-1 {
		t.Fatalf("lives = %d", remaining)
	}
	if m := s.Momentum(); m.VolleyLength != 0 || m.ComboHeat != 0 {
		t.Fatalf("rally not reset: %+v", m)
	}

	for !failed {
		_, failed = s.LoseLife()
	}
	if s.Lives() != 0 {
		t.Fatalf("lives after drain = %d", s.Lives())
	}
}

func TestCompleteRoundBanksEntropy(t *testing.T) {
	s := newActive(t)
	for i := 0; i < 30; i++ {
		s.RecordBrickBreak(30, 15, false, 1)
	}
	s.Tick(4)

	charge := s.Entropy().Charge
	banked, _ := s.CompleteRound()
	if charge > 0 && banked <= 0 {
		t.Fatalf("banked %f of charge %f", banked, charge)
	}
	if s.Status() != StatusCompleted {
		t.Fatalf("status = %s", s.Status())
	}

	// Terminal mutators no-op.
	if b, _ := s.CompleteRound(); b != 0 {
		t.Fatal("double completion banked again")
	}
}

func TestCoinDropChanceCapped(t *testing.T) {
	cfg := config.Default()
	s := New(cfg)
	s.StartRound(1, 500)
	for i := 0; i < 300; i++ {
		s.RecordBrickBreak(44, 40, false, 1)
	}
	if p := s.CoinDropChance(true); p > cfg.Scoring.CoinChanceCap {
		t.Fatalf("coin chance %f above cap %f", p, cfg.Scoring.CoinChanceCap)
	}
	if p := s.CoinDropChance(false); p <= 0 {
		t.Fatalf("coin chance %f, want positive", p)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	s := newActive(t)
	s.RecordBrickBreak(26, 12, false, 1)
	s.RecordCoin(2)

	snap := s.Snapshot()
	snap.Score = -1
	snap.Momentum.VolleyLength = 99
	snap.Entropy.Charge = 999

	if s.Score() < 0 || s.Momentum().VolleyLength == 99 || s.Entropy().Charge > 100 {
		t.Fatal("snapshot mutation leaked into live session")
	}
	if snap.HUD.ScoreLabel == "" || snap.AudioScene == "" {
		t.Fatal("snapshot missing derived views")
	}
	if snap.ID != s.ID() {
		t.Fatal("snapshot id mismatch")
	}
}
