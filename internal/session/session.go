// Package session is the single source of truth for score, coins, lives,
// round, momentum and entropy. Everything else reads it through deep-cloned
// snapshots; only the collision engine and the director mutate it.
package session

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/vmarchenko/brickwave/internal/config"
	"github.com/vmarchenko/brickwave/internal/core"
)

// Status is the session lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Preferences are player-facing toggles carried on the snapshot for the
// HUD/audio layers.
type Preferences struct {
	Music        bool
	Sfx          bool
	ReducedFlash bool
}

// HUDView is the derived read-only view the renderer consumes.
type HUDView struct {
	ScoreLabel   string
	LivesLabel   string
	RoundLabel   string
	ComboBar     float64 // [0,1]
	EntropyBar   float64 // [0,1]
	EntropyTrend string
}

// Snapshot is the immutable read view of a session. Callers receive a deep
// clone; mutating it cannot affect the live session.
type Snapshot struct {
	ID             uuid.UUID
	Status         Status
	Score          int
	Coins          int
	LivesRemaining int
	Round          int
	BrickTotal     int
	BrickRemaining int
	Momentum       Momentum
	Entropy        Entropy
	AudioScene     string
	Preferences    Preferences
	HUD            HUDView
	ElapsedSecs    float64
}

// Milestone reports one upward combo threshold crossing.
type Milestone struct {
	Combo         int
	Multiplier    float64
	PointsAwarded int
}

// Session is the scoring/momentum/entropy state machine. All mutators are
// no-ops unless the status is active, except the lifecycle transitions
// themselves.
type Session struct {
	id     uuid.UUID
	status Status

	score int
	coins int
	lives int
	round int

	brickTotal     int
	brickRemaining int

	momentum Momentum
	entropy  Entropy

	elapsed   float64
	roundStart float64

	nextMilestone int // Index into cfg.Scoring.ComboMilestones

	prefs   Preferences
	scoring config.ScoringConfig
	entCfg  config.EntropyConfig
	maxBallSpeed float64
}

// New creates a pending session from the configuration object.
func New(cfg config.Config) *Session {
	return NewWithID(cfg, uuid.New())
}

// NewWithID creates a pending session with a caller-supplied id. Replay
// tooling derives the id from the seed so identical runs stamp identical
// ids on their events.
func NewWithID(cfg config.Config, id uuid.UUID) *Session {
	return &Session{
		id:           id,
		status:       StatusPending,
		lives:        cfg.Gameplay.Lives,
		prefs:        Preferences{Music: true, Sfx: true},
		scoring:      cfg.Scoring,
		entCfg:       cfg.Entropy,
		maxBallSpeed: cfg.Physics.BallMaxSpeed,
	}
}

// ID returns the session id stamped on every published event.
func (s *Session) ID() uuid.UUID { return s.id }

// Status returns the lifecycle state.
func (s *Session) Status() Status { return s.status }

// Now returns the simulation clock in seconds.
func (s *Session) Now() float64 { return s.elapsed }

// Score returns the current score.
func (s *Session) Score() int { return s.score }

// Lives returns the remaining lives.
func (s *Session) Lives() int { return s.lives }

// Round returns the current round number (1-based once started).
func (s *Session) Round() int { return s.round }

// StartRound transitions pending/completed -> active and resets per-round
// state. Score and coins persist across rounds; momentum and entropy charge
// do not.
func (s *Session) StartRound(round, brickTotal int) {
	if s.status == StatusFailed {
		return
	}
	s.status = StatusActive
	s.round = round
	s.brickTotal = brickTotal
	s.brickRemaining = brickTotal
	s.momentum.reset()
	s.entropy.Charge = 0
	s.entropy.Trend = TrendStable
	s.entropy.LastEvent = "round-start"
	s.nextMilestone = 0
	s.roundStart = s.elapsed
}

// CompleteRound banks entropy and transitions to completed. Returns the
// banked entropy and the round duration.
func (s *Session) CompleteRound() (banked float64, durationMs int64) {
	if s.status != StatusActive {
		return 0, 0
	}
	banked = s.entropy.bankOnRoundEnd(s.entCfg.RoundBankFraction)
	s.status = StatusCompleted
	return banked, int64((s.elapsed - s.roundStart) * 1000)
}

// Fail transitions to the terminal failed state.
func (s *Session) Fail() (durationMs int64) {
	if s.status != StatusActive {
		return 0
	}
	s.status = StatusFailed
	return int64((s.elapsed - s.roundStart) * 1000)
}

// Pause suspends an active session.
func (s *Session) Pause() {
	if s.status == StatusActive {
		s.status = StatusPaused
	}
}

// Resume reverses Pause.
func (s *Session) Resume() {
	if s.status == StatusPaused {
		s.status = StatusActive
	}
}

// Tick advances the simulation clock and applies continuous decay. Runs
// once per fixed step while active.
func (s *Session) Tick(dt float64) {
	if s.status != StatusActive {
		return
	}
	s.elapsed += dt
	if expired := s.momentum.decay(dt, s.scoring.ComboDecayWindow); expired {
		s.nextMilestone = 0
		s.entropy.drop(s.entCfg.LifeLossDrop/4, "combo-reset")
	}
	s.entropy.decay(dt, s.entCfg.DecayPerSec)
}

// speedNorm maps an impact speed into [0,1] against the configured ceiling.
func (s *Session) speedNorm(speed float64) float64 {
	if s.maxBallSpeed <= 0 {
		return 0
	}
	return core.ClampF(speed/s.maxBallSpeed, 0, 1)
}

// entropyGain scales a base gain by combo heat and impact speed.
func (s *Session) entropyGain(base, speed float64) float64 {
	return base * (1 + s.momentum.ComboHeat) * (0.5 + s.speedNorm(speed))
}

// RecordBrickHit registers a non-breaking brick contact.
func (s *Session) RecordBrickHit(impactSpeed float64) {
	if s.status != StatusActive {
		return
	}
	s.entropy.gain(s.entropyGain(s.entCfg.HitGain, impactSpeed), "brick-hit", s.entCfg.BankFraction)
}

// RecordBrickBreak folds a break into score and momentum and returns the
// points awarded plus any milestone crossed. distance is the ball's travel
// distance from the paddle, doublePoints mirrors the active reward, and
// multiplier carries the gamble bonus (1 when none).
func (s *Session) RecordBrickBreak(impactSpeed, distance float64, doublePoints bool, multiplier float64) (int, *Milestone) {
	if s.status != StatusActive {
		return 0, nil
	}

	s.momentum.onBreak(s.speedNorm(impactSpeed), s.scoring.ComboDecayWindow)
	s.entropy.gain(s.entropyGain(s.entCfg.BreakGain, impactSpeed), "brick-break", s.entCfg.BankFraction)

	if s.brickRemaining > 0 {
		s.brickRemaining--
	}
	if s.brickTotal > 0 {
		s.momentum.BrickDensity = float64(s.brickRemaining) / float64(s.brickTotal)
	}

	factor := 1 + s.scoring.DistanceFactor*distance + s.scoring.SpeedFactor*impactSpeed
	factor *= 1 + s.momentum.ComboHeat
	if multiplier > 1 {
		factor *= multiplier
	}
	points := int(math.Round(float64(s.scoring.BasePoints) * factor))
	if points < 1 {
		points = 1
	}
	if doublePoints {
		points *= 2
	}
	s.score += points

	return points, s.checkMilestone()
}

// checkMilestone fires once per upward threshold crossing and never on a
// repeat at the same volley value.
func (s *Session) checkMilestone() *Milestone {
	thresholds := s.scoring.ComboMilestones
	if s.nextMilestone >= len(thresholds) {
		return nil
	}
	if s.momentum.VolleyLength < thresholds[s.nextMilestone] {
		return nil
	}

	idx := s.nextMilestone
	s.nextMilestone++
	mult := float64(idx + 2) // 5 -> x2, 10 -> x3, ...
	bonus := s.scoring.MilestoneBonus * (idx + 1)
	s.score += bonus
	return &Milestone{
		Combo:         s.momentum.VolleyLength,
		Multiplier:    mult,
		PointsAwarded: bonus,
	}
}

// RecordPaddleHit registers a paddle reflection.
func (s *Session) RecordPaddleHit(speed float64) {
	if s.status != StatusActive {
		return
	}
	s.entropy.gain(s.entropyGain(s.entCfg.PaddleGain, speed), "paddle-hit", s.entCfg.BankFraction)
}

// RecordWallHit registers a wall reflection.
func (s *Session) RecordWallHit(speed float64) {
	if s.status != StatusActive {
		return
	}
	s.entropy.gain(s.entropyGain(s.entCfg.WallGain, speed), "wall-hit", s.entCfg.BankFraction)
}

// RecordCoin registers a coin pickup and returns the new coin total.
func (s *Session) RecordCoin(value int) int {
	if s.status != StatusActive {
		return s.coins
	}
	if value < 1 {
		value = 1
	}
	s.coins += value
	s.score += value * s.scoring.CoinValue
	s.entropy.gain(s.entCfg.CoinGain, "coin", s.entCfg.BankFraction)
	return s.coins
}

// AddBonus adds points outside the break formula (gamble success awards).
func (s *Session) AddBonus(points int) {
	if s.status != StatusActive || points <= 0 {
		return
	}
	s.score += points
}

// LoseLife resets the rally and decrements lives. Returns the remaining
// lives and whether the session just failed.
func (s *Session) LoseLife() (remaining int, failed bool) {
	if s.status != StatusActive {
		return s.lives, false
	}
	s.momentum.reset()
	s.nextMilestone = 0
	s.entropy.drop(s.entCfg.LifeLossDrop, "life-loss")

	s.lives--
	if s.lives <= 0 {
		s.lives = 0
		return 0, true
	}
	return s.lives, false
}

// CoinDropChance derives the drop probability for a brick break:
// base + combo bonus + entropy bonus + active-reward bonus, clamped to the
// configured cap.
func (s *Session) CoinDropChance(rewardActive bool) float64 {
	p := s.scoring.CoinBaseChance
	p += s.scoring.CoinComboBonus * s.momentum.ComboHeat
	p += s.scoring.CoinEntropyBonus * (s.entropy.Charge / entropyMax)
	if rewardActive {
		p += s.scoring.CoinRewardBonus
	}
	return core.ClampF(p, 0, s.scoring.CoinChanceCap)
}

// Momentum returns a copy of the momentum block.
func (s *Session) Momentum() Momentum { return s.momentum }

// Entropy returns a copy of the entropy block.
func (s *Session) Entropy() Entropy { return s.entropy }

// BrickRemaining returns the live breakable brick count.
func (s *Session) BrickRemaining() int { return s.brickRemaining }

// audioScene names the mood for the audio layer from entropy and heat.
func (s *Session) audioScene() string {
	switch {
	case s.momentum.ComboHeat > 0.7 || s.entropy.Charge > 75:
		return "frenzy"
	case s.entropy.Trend == TrendRising || s.momentum.ComboHeat > 0.3:
		return "tense"
	}
	return "calm"
}

// Snapshot returns a deep-cloned immutable read view.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:             s.id,
		Status:         s.status,
		Score:          s.score,
		Coins:          s.coins,
		LivesRemaining: s.lives,
		Round:          s.round,
		BrickTotal:     s.brickTotal,
		BrickRemaining: s.brickRemaining,
		Momentum:       s.momentum,
		Entropy:        s.entropy,
		AudioScene:     s.audioScene(),
		Preferences:    s.prefs,
		ElapsedSecs:    s.elapsed,
		HUD: HUDView{
			ScoreLabel:   fmt.Sprintf("Score: %d", s.score),
			LivesLabel:   fmt.Sprintf("Lives: %d", s.lives),
			RoundLabel:   fmt.Sprintf("Round: %d", s.round),
			ComboBar:     s.momentum.ComboHeat,
			EntropyBar:   s.entropy.Charge / entropyMax,
			EntropyTrend: string(s.entropy.Trend),
		},
	}
}
