package config

import (
	_ "embed"
)

//go:embed defaults/brickwave.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Gameplay: GameplayConfig{
			Lives:           3,
			ServeDelaySecs:  1.0,
			PowerUpChance:   0.18,
			PowerUpLevelMul: 1.0,
		},
		Physics: PhysicsConfig{
			WorldWidth:   80,
			WorldHeight:  48,
			BallRadius:   0.5,
			BallSpeed:    26,
			BallMaxSpeed: 44,
			LaunchSpeed:  26,
			PaddleWidth:  8,
			PaddleWide:   13,
			PaddleSpeed:  42,
			PaddleY:      3,
		},
		Loop: LoopConfig{
			StepHz:           120,
			MaxFrameDelta:    0.25,
			MaxStepsPerFrame: 8,
		},
		Scoring: ScoringConfig{
			BasePoints:       10,
			DistanceFactor:   0.02,
			SpeedFactor:      0.03,
			ComboDecayWindow: 2.8,
			ComboMilestones:  []int{5, 10, 20, 35, 50},
			MilestoneBonus:   25,
			GambleMultiplier: 3.0,
			CoinBaseChance:   0.08,
			CoinComboBonus:   0.12,
			CoinEntropyBonus: 0.10,
			CoinRewardBonus:  0.05,
			CoinChanceCap:    0.75,
			CoinValue:        1,
		},
		Entropy: EntropyConfig{
			HitGain:           2.0,
			BreakGain:         6.0,
			PaddleGain:        1.0,
			WallGain:          0.5,
			CoinGain:          3.0,
			LifeLossDrop:      40.0,
			DecayPerSec:       1.5,
			BankFraction:      0.5,
			RoundBankFraction: 0.35,
		},
		Rewards: RewardsConfig{
			StickyDuration:       10,
			DoublePointsDuration: 12,
			GhostBrickDuration:   8,
			WidePaddleDuration:   12,
			MultiBallDuration:    15,
			MultiBallMaxDuration: 30,
			MultiBallCapacity:    4,
			MultiBallCount:       2,
			SlowTimeDuration:     6,
			SlowTimeMaxDuration:  18,
			SlowTimeScale:        0.55,
		},
		Foreshadow: ForeshadowConfig{
			MinBallSpeed:    4,
			WindowMin:       0.28,
			WindowMax:       3.6,
			RetargetEpsilon: 0.1,
			LeadMin:         0.35,
			LeadMax:         2.6,
			ReleaseDrift:    0.12,
			DefaultRadius:   0.5,
		},
	}
}
