package config

import (
	"math"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsParse(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		t.Fatalf("embedded defaults should parse: %v", err)
	}
	if cfg.Loop.StepHz != 120 {
		t.Errorf("embedded step_hz = %d, want 120", cfg.Loop.StepHz)
	}
	if cfg.Rewards.MultiBallCapacity != 4 {
		t.Errorf("embedded multi_ball_capacity = %d, want 4", cfg.Rewards.MultiBallCapacity)
	}
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		t.Fatalf("embedded defaults should parse: %v", err)
	}
	d := Default()
	if cfg.Physics.BallSpeed != d.Physics.BallSpeed {
		t.Errorf("ball_speed mismatch: yaml=%f hardcoded=%f", cfg.Physics.BallSpeed, d.Physics.BallSpeed)
	}
	if cfg.Foreshadow.WindowMax != d.Foreshadow.WindowMax {
		t.Errorf("window_max mismatch: yaml=%f hardcoded=%f", cfg.Foreshadow.WindowMax, d.Foreshadow.WindowMax)
	}
}

func TestSanitizeClampsMalformedValues(t *testing.T) {
	cfg := Config{}
	cfg.Gameplay.Lives = -4
	cfg.Gameplay.PowerUpChance = 7.5
	cfg.Physics.BallSpeed = math.NaN()
	cfg.Scoring.CoinChanceCap = 2
	cfg.Rewards.SlowTimeScale = -1
	cfg.Entropy.BankFraction = math.Inf(1)

	cfg.Sanitize()
	d := Default()

	if cfg.Gameplay.Lives != d.Gameplay.Lives {
		t.Errorf("negative lives should fall back, got %d", cfg.Gameplay.Lives)
	}
	if cfg.Gameplay.PowerUpChance != 1 {
		t.Errorf("powerup chance should clamp to 1, got %f", cfg.Gameplay.PowerUpChance)
	}
	if math.IsNaN(cfg.Physics.BallSpeed) || cfg.Physics.BallSpeed <= 0 {
		t.Errorf("NaN ball speed should fall back, got %f", cfg.Physics.BallSpeed)
	}
	if cfg.Scoring.CoinChanceCap != d.Scoring.CoinChanceCap {
		t.Errorf("coin cap above 1 should fall back, got %f", cfg.Scoring.CoinChanceCap)
	}
	if cfg.Rewards.SlowTimeScale != d.Rewards.SlowTimeScale {
		t.Errorf("bad slow-time scale should fall back, got %f", cfg.Rewards.SlowTimeScale)
	}
	if cfg.Entropy.BankFraction < 0 || cfg.Entropy.BankFraction > 1 {
		t.Errorf("bank fraction should clamp to [0,1], got %f", cfg.Entropy.BankFraction)
	}
}

func TestSanitizeRejectsNonFiniteValues(t *testing.T) {
	cfg := Default()
	cfg.Physics.BallMaxSpeed = math.NaN()
	cfg.Physics.PaddleWide = math.NaN()
	cfg.Scoring.GambleMultiplier = math.NaN()
	cfg.Scoring.CoinChanceCap = math.NaN()
	cfg.Rewards.SlowTimeScale = math.NaN()
	cfg.Rewards.MultiBallMaxDuration = math.Inf(1)
	cfg.Foreshadow.WindowMax = math.NaN()
	cfg.Foreshadow.LeadMax = math.Inf(-1)

	cfg.Sanitize()

	checks := []struct {
		name string
		val  float64
	}{
		{"ball max speed", cfg.Physics.BallMaxSpeed},
		{"wide paddle width", cfg.Physics.PaddleWide},
		{"gamble multiplier", cfg.Scoring.GambleMultiplier},
		{"coin chance cap", cfg.Scoring.CoinChanceCap},
		{"slow-time scale", cfg.Rewards.SlowTimeScale},
		{"multi-ball max duration", cfg.Rewards.MultiBallMaxDuration},
		{"foreshadow window max", cfg.Foreshadow.WindowMax},
		{"foreshadow lead max", cfg.Foreshadow.LeadMax},
	}
	for _, c := range checks {
		if math.IsNaN(c.val) || math.IsInf(c.val, 0) || c.val <= 0 {
			t.Errorf("%s should fall back to a finite positive value, got %f", c.name, c.val)
		}
	}
	if cfg.Physics.BallMaxSpeed < cfg.Physics.BallSpeed {
		t.Errorf("max speed %f should not drop below base speed %f",
			cfg.Physics.BallMaxSpeed, cfg.Physics.BallSpeed)
	}
	if cfg.Foreshadow.WindowMax <= cfg.Foreshadow.WindowMin {
		t.Errorf("window max %f should exceed window min %f",
			cfg.Foreshadow.WindowMax, cfg.Foreshadow.WindowMin)
	}
}

func TestSanitizeKeepsValidValues(t *testing.T) {
	cfg := Default()
	cfg.Physics.BallSpeed = 31
	cfg.Gameplay.Lives = 7
	cfg.Sanitize()

	if cfg.Physics.BallSpeed != 31 {
		t.Errorf("valid ball speed should survive, got %f", cfg.Physics.BallSpeed)
	}
	if cfg.Gameplay.Lives != 7 {
		t.Errorf("valid lives should survive, got %d", cfg.Gameplay.Lives)
	}
}

func TestApplyPreset(t *testing.T) {
	easy := Default()
	ApplyPreset(&easy, DifficultyEasy)
	hard := Default()
	ApplyPreset(&hard, DifficultyHard)

	if easy.Gameplay.Lives <= hard.Gameplay.Lives {
		t.Error("easy should grant more lives than hard")
	}
	if easy.Physics.BallSpeed >= hard.Physics.BallSpeed {
		t.Error("easy should have a slower ball than hard")
	}

	fixed := Default()
	ApplyPreset(&fixed, DifficultyFixed)
	if fixed.Gameplay.Lives != Default().Gameplay.Lives {
		t.Error("fixed preset should not change lives")
	}
}
