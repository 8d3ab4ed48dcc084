// Package config provides YAML-based configuration loading for the
// simulation core. The whole tree is handed to the game director as a single
// object at construction time; nothing reads configuration afterwards.
package config

import (
	"math"

	"github.com/vmarchenko/brickwave/internal/core"
)

// Config is the complete simulation configuration.
type Config struct {
	Gameplay   GameplayConfig   `yaml:"gameplay"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Loop       LoopConfig       `yaml:"loop"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Entropy    EntropyConfig    `yaml:"entropy"`
	Rewards    RewardsConfig    `yaml:"rewards"`
	Foreshadow ForeshadowConfig `yaml:"foreshadow"`
}

// GameplayConfig defines round-level parameters.
type GameplayConfig struct {
	Lives          int     `yaml:"lives"`
	ServeDelaySecs float64 `yaml:"serve_delay_secs"`
	PowerUpChance  float64 `yaml:"powerup_chance"`        // Base spawn probability on brick break
	PowerUpLevelMul float64 `yaml:"powerup_level_multiplier"` // Per-round scaling of the spawn probability
}

// PhysicsConfig defines world and body parameters. The playfield is a
// continuous box; all units are world cells.
type PhysicsConfig struct {
	WorldWidth   float64 `yaml:"world_width"`
	WorldHeight  float64 `yaml:"world_height"`
	BallRadius   float64 `yaml:"ball_radius"`
	BallSpeed    float64 `yaml:"ball_speed"`     // Base speed, cells/sec
	BallMaxSpeed float64 `yaml:"ball_max_speed"`
	LaunchSpeed  float64 `yaml:"launch_speed"`
	PaddleWidth  float64 `yaml:"paddle_width"`
	PaddleWide   float64 `yaml:"paddle_wide_width"` // Width under the wide-paddle reward
	PaddleSpeed  float64 `yaml:"paddle_speed"`
	PaddleY      float64 `yaml:"paddle_y"` // Distance of the paddle from the bottom wall
}

// LoopConfig defines fixed-step loop parameters.
type LoopConfig struct {
	StepHz           int     `yaml:"step_hz"`             // Fixed steps per second
	MaxFrameDelta    float64 `yaml:"max_frame_delta"`     // Clamp on wall-clock delta per frame
	MaxStepsPerFrame int     `yaml:"max_steps_per_frame"` // Spiral-of-death bound
}

// ScoringConfig defines score, combo and drop parameters.
type ScoringConfig struct {
	BasePoints       int     `yaml:"base_points"`
	DistanceFactor   float64 `yaml:"distance_factor"`  // Bonus per cell of paddle distance
	SpeedFactor      float64 `yaml:"speed_factor"`     // Bonus per cell/sec of impact speed
	ComboDecayWindow float64 `yaml:"combo_decay_window"` // Seconds until combo heat resets
	ComboMilestones  []int   `yaml:"combo_milestones"` // Volley lengths that fire milestone events
	MilestoneBonus   int     `yaml:"milestone_bonus"`  // Points per milestone multiplier unit
	GambleMultiplier float64 `yaml:"gamble_multiplier"` // Score multiplier on gamble success

	CoinBaseChance   float64 `yaml:"coin_base_chance"`
	CoinComboBonus   float64 `yaml:"coin_combo_bonus"`   // Added per unit of combo heat
	CoinEntropyBonus float64 `yaml:"coin_entropy_bonus"` // Added per unit of entropy charge fraction
	CoinRewardBonus  float64 `yaml:"coin_reward_bonus"`  // Added while any reward is active
	CoinChanceCap    float64 `yaml:"coin_chance_cap"`
	CoinValue        int     `yaml:"coin_value"`
}

// EntropyConfig defines how the secondary charge resource reacts to events.
type EntropyConfig struct {
	HitGain       float64 `yaml:"hit_gain"`
	BreakGain     float64 `yaml:"break_gain"`
	PaddleGain    float64 `yaml:"paddle_gain"`
	WallGain      float64 `yaml:"wall_gain"`
	CoinGain      float64 `yaml:"coin_gain"`
	LifeLossDrop  float64 `yaml:"life_loss_drop"`  // Charge removed on a life loss
	DecayPerSec   float64 `yaml:"decay_per_sec"`   // Passive charge decay
	BankFraction  float64 `yaml:"bank_fraction"`   // Share of overflow banked into stored
	RoundBankFraction float64 `yaml:"round_bank_fraction"` // Share of charge banked on round completion
}

// RewardsConfig defines timed-reward durations and magnitudes.
type RewardsConfig struct {
	StickyDuration      float64 `yaml:"sticky_duration"`
	DoublePointsDuration float64 `yaml:"double_points_duration"`
	GhostBrickDuration  float64 `yaml:"ghost_brick_duration"`
	WidePaddleDuration  float64 `yaml:"wide_paddle_duration"`
	MultiBallDuration   float64 `yaml:"multi_ball_duration"`
	MultiBallMaxDuration float64 `yaml:"multi_ball_max_duration"`
	MultiBallCapacity   int     `yaml:"multi_ball_capacity"`
	MultiBallCount      int     `yaml:"multi_ball_count"` // Extras requested per activation
	SlowTimeDuration    float64 `yaml:"slow_time_duration"`
	SlowTimeMaxDuration float64 `yaml:"slow_time_max_duration"`
	SlowTimeScale       float64 `yaml:"slow_time_scale"` // Target time scale while active
}

// ForeshadowConfig defines the impact predictor envelope.
type ForeshadowConfig struct {
	MinBallSpeed    float64 `yaml:"min_ball_speed"`   // Below this, prediction is skipped
	WindowMin       float64 `yaml:"window_min"`       // Earliest predicted impact worth cueing
	WindowMax       float64 `yaml:"window_max"`       // Prediction horizon
	RetargetEpsilon float64 `yaml:"retarget_epsilon"` // Time delta that forces a reschedule
	LeadMin         float64 `yaml:"lead_min"`
	LeadMax         float64 `yaml:"lead_max"`
	ReleaseDrift    float64 `yaml:"release_drift"`    // Max drift before a cue is cancelled at impact
	DefaultRadius   float64 `yaml:"default_radius"`   // Fallback when a body carries no radius
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ApplyPreset mutates the config for a named difficulty preset.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Gameplay.Lives = 5
		cfg.Physics.PaddleWidth = 10
		cfg.Physics.BallSpeed = 22
	case DifficultyHard:
		cfg.Gameplay.Lives = 2
		cfg.Physics.PaddleWidth = 6
		cfg.Physics.BallSpeed = 34
	}
	// Normal and fixed keep the loaded values.
}

// Sanitize clamps malformed numeric fields to typed fallbacks so a bad or
// hostile config file can never poison the simulation. Field-by-field, never
// an error.
func (c *Config) Sanitize() {
	d := Default()

	if c.Gameplay.Lives <= 0 {
		c.Gameplay.Lives = d.Gameplay.Lives
	}
	c.Gameplay.ServeDelaySecs = core.Sanitize(c.Gameplay.ServeDelaySecs, d.Gameplay.ServeDelaySecs)
	c.Gameplay.PowerUpChance = core.ClampF(c.Gameplay.PowerUpChance, 0, 1)
	c.Gameplay.PowerUpLevelMul = core.Sanitize(c.Gameplay.PowerUpLevelMul, d.Gameplay.PowerUpLevelMul)

	c.Physics.WorldWidth = positive(c.Physics.WorldWidth, d.Physics.WorldWidth)
	c.Physics.WorldHeight = positive(c.Physics.WorldHeight, d.Physics.WorldHeight)
	c.Physics.BallRadius = positive(c.Physics.BallRadius, d.Physics.BallRadius)
	c.Physics.BallSpeed = positive(c.Physics.BallSpeed, d.Physics.BallSpeed)
	c.Physics.BallMaxSpeed = positive(c.Physics.BallMaxSpeed, 0)
	if c.Physics.BallMaxSpeed < c.Physics.BallSpeed {
		c.Physics.BallMaxSpeed = core.ClampF(d.Physics.BallMaxSpeed, c.Physics.BallSpeed, 1e6)
	}
	c.Physics.LaunchSpeed = positive(c.Physics.LaunchSpeed, c.Physics.BallSpeed)
	c.Physics.PaddleWidth = positive(c.Physics.PaddleWidth, d.Physics.PaddleWidth)
	c.Physics.PaddleWide = positive(c.Physics.PaddleWide, 0)
	if c.Physics.PaddleWide <= c.Physics.PaddleWidth {
		c.Physics.PaddleWide = c.Physics.PaddleWidth * 1.6
	}
	c.Physics.PaddleSpeed = positive(c.Physics.PaddleSpeed, d.Physics.PaddleSpeed)
	c.Physics.PaddleY = positive(c.Physics.PaddleY, d.Physics.PaddleY)

	if c.Loop.StepHz <= 0 {
		c.Loop.StepHz = d.Loop.StepHz
	}
	c.Loop.MaxFrameDelta = core.Sanitize(c.Loop.MaxFrameDelta, d.Loop.MaxFrameDelta)
	if c.Loop.MaxFrameDelta == 0 {
		c.Loop.MaxFrameDelta = d.Loop.MaxFrameDelta
	}
	if c.Loop.MaxStepsPerFrame <= 0 {
		c.Loop.MaxStepsPerFrame = d.Loop.MaxStepsPerFrame
	}

	if c.Scoring.BasePoints <= 0 {
		c.Scoring.BasePoints = d.Scoring.BasePoints
	}
	c.Scoring.DistanceFactor = core.Sanitize(c.Scoring.DistanceFactor, d.Scoring.DistanceFactor)
	c.Scoring.SpeedFactor = core.Sanitize(c.Scoring.SpeedFactor, d.Scoring.SpeedFactor)
	c.Scoring.ComboDecayWindow = positive(c.Scoring.ComboDecayWindow, d.Scoring.ComboDecayWindow)
	if len(c.Scoring.ComboMilestones) == 0 {
		c.Scoring.ComboMilestones = d.Scoring.ComboMilestones
	}
	if c.Scoring.MilestoneBonus <= 0 {
		c.Scoring.MilestoneBonus = d.Scoring.MilestoneBonus
	}
	c.Scoring.GambleMultiplier = positive(c.Scoring.GambleMultiplier, 0)
	if c.Scoring.GambleMultiplier < 1 {
		c.Scoring.GambleMultiplier = d.Scoring.GambleMultiplier
	}
	c.Scoring.CoinBaseChance = core.ClampF(c.Scoring.CoinBaseChance, 0, 1)
	c.Scoring.CoinComboBonus = core.Sanitize(c.Scoring.CoinComboBonus, d.Scoring.CoinComboBonus)
	c.Scoring.CoinEntropyBonus = core.Sanitize(c.Scoring.CoinEntropyBonus, d.Scoring.CoinEntropyBonus)
	c.Scoring.CoinRewardBonus = core.Sanitize(c.Scoring.CoinRewardBonus, d.Scoring.CoinRewardBonus)
	c.Scoring.CoinChanceCap = core.ClampF(c.Scoring.CoinChanceCap, 0, 1)
	if c.Scoring.CoinChanceCap == 0 {
		c.Scoring.CoinChanceCap = d.Scoring.CoinChanceCap
	}
	if c.Scoring.CoinValue <= 0 {
		c.Scoring.CoinValue = d.Scoring.CoinValue
	}

	c.Entropy.HitGain = core.Sanitize(c.Entropy.HitGain, d.Entropy.HitGain)
	c.Entropy.BreakGain = core.Sanitize(c.Entropy.BreakGain, d.Entropy.BreakGain)
	c.Entropy.PaddleGain = core.Sanitize(c.Entropy.PaddleGain, d.Entropy.PaddleGain)
	c.Entropy.WallGain = core.Sanitize(c.Entropy.WallGain, d.Entropy.WallGain)
	c.Entropy.CoinGain = core.Sanitize(c.Entropy.CoinGain, d.Entropy.CoinGain)
	c.Entropy.LifeLossDrop = core.Sanitize(c.Entropy.LifeLossDrop, d.Entropy.LifeLossDrop)
	c.Entropy.DecayPerSec = core.Sanitize(c.Entropy.DecayPerSec, d.Entropy.DecayPerSec)
	c.Entropy.BankFraction = core.ClampF(c.Entropy.BankFraction, 0, 1)
	c.Entropy.RoundBankFraction = core.ClampF(c.Entropy.RoundBankFraction, 0, 1)

	c.Rewards.StickyDuration = core.Sanitize(c.Rewards.StickyDuration, d.Rewards.StickyDuration)
	c.Rewards.DoublePointsDuration = core.Sanitize(c.Rewards.DoublePointsDuration, d.Rewards.DoublePointsDuration)
	c.Rewards.GhostBrickDuration = core.Sanitize(c.Rewards.GhostBrickDuration, d.Rewards.GhostBrickDuration)
	c.Rewards.WidePaddleDuration = core.Sanitize(c.Rewards.WidePaddleDuration, d.Rewards.WidePaddleDuration)
	c.Rewards.MultiBallDuration = core.Sanitize(c.Rewards.MultiBallDuration, d.Rewards.MultiBallDuration)
	c.Rewards.MultiBallMaxDuration = positive(c.Rewards.MultiBallMaxDuration, 0)
	if c.Rewards.MultiBallMaxDuration < c.Rewards.MultiBallDuration {
		c.Rewards.MultiBallMaxDuration = d.Rewards.MultiBallMaxDuration
	}
	if c.Rewards.MultiBallCapacity <= 0 {
		c.Rewards.MultiBallCapacity = d.Rewards.MultiBallCapacity
	}
	if c.Rewards.MultiBallCount <= 0 {
		c.Rewards.MultiBallCount = d.Rewards.MultiBallCount
	}
	c.Rewards.SlowTimeDuration = core.Sanitize(c.Rewards.SlowTimeDuration, d.Rewards.SlowTimeDuration)
	c.Rewards.SlowTimeMaxDuration = positive(c.Rewards.SlowTimeMaxDuration, 0)
	if c.Rewards.SlowTimeMaxDuration < c.Rewards.SlowTimeDuration {
		c.Rewards.SlowTimeMaxDuration = d.Rewards.SlowTimeMaxDuration
	}
	c.Rewards.SlowTimeScale = core.ClampF(c.Rewards.SlowTimeScale, 0, 1)
	if c.Rewards.SlowTimeScale == 0 {
		c.Rewards.SlowTimeScale = d.Rewards.SlowTimeScale
	}

	c.Foreshadow.MinBallSpeed = positive(c.Foreshadow.MinBallSpeed, d.Foreshadow.MinBallSpeed)
	c.Foreshadow.WindowMin = positive(c.Foreshadow.WindowMin, d.Foreshadow.WindowMin)
	c.Foreshadow.WindowMax = positive(c.Foreshadow.WindowMax, 0)
	if c.Foreshadow.WindowMax <= c.Foreshadow.WindowMin {
		c.Foreshadow.WindowMax = d.Foreshadow.WindowMax
	}
	c.Foreshadow.RetargetEpsilon = positive(c.Foreshadow.RetargetEpsilon, d.Foreshadow.RetargetEpsilon)
	c.Foreshadow.LeadMin = positive(c.Foreshadow.LeadMin, d.Foreshadow.LeadMin)
	c.Foreshadow.LeadMax = positive(c.Foreshadow.LeadMax, 0)
	if c.Foreshadow.LeadMax <= c.Foreshadow.LeadMin {
		c.Foreshadow.LeadMax = d.Foreshadow.LeadMax
	}
	c.Foreshadow.ReleaseDrift = positive(c.Foreshadow.ReleaseDrift, d.Foreshadow.ReleaseDrift)
	c.Foreshadow.DefaultRadius = positive(c.Foreshadow.DefaultRadius, d.Foreshadow.DefaultRadius)
}

// positive returns val unless it is non-finite or not strictly positive, in
// which case fallback is returned.
func positive(val, fallback float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) || val <= 0 {
		return fallback
	}
	return val
}
