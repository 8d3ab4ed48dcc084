// Package events defines the typed event bus the simulation core publishes
// on, and every event carried over it. Events are the only way state changes
// leave the core; external consumers (HUD, audio, harness) never see live
// mutable structures.
package events

import "github.com/google/uuid"

// Kind names an event channel.
type Kind string

const (
	KindBrickHit        Kind = "brick_hit"
	KindBrickBreak      Kind = "brick_break"
	KindPaddleHit       Kind = "paddle_hit"
	KindWallHit         Kind = "wall_hit"
	KindLifeLost        Kind = "life_lost"
	KindBallLaunched    Kind = "ball_launched"
	KindRoundCompleted  Kind = "round_completed"
	KindComboMilestone  Kind = "combo_milestone"
	KindCoinCollected   Kind = "coin_collected"
	KindRewardActivated Kind = "reward_activated"
	KindGambleResolved  Kind = "gamble_resolved"
)

// Event is implemented by every published event.
type Event interface {
	Kind() Kind
	EventMeta() Meta
}

// Meta is stamped on every event: the owning session and the simulation
// timestamp (seconds since round start). Event structs embed it, so the
// accessor cannot share the field's name or the promotion would be shadowed.
type Meta struct {
	Session uuid.UUID `json:"session"`
	Time    float64   `json:"time"`
}

// EventMeta returns the event metadata. Embedding Meta satisfies half of
// the Event interface.
func (m Meta) EventMeta() Meta { return m }

// BrickHit fires whenever a ball strikes a brick, breaking or not.
type BrickHit struct {
	Meta
	Row            int     `json:"row"`
	Col            int     `json:"col"`
	ImpactVelocity float64 `json:"impactVelocity"`
	BrickType      string  `json:"brickType"`
	ComboHeat      float64 `json:"comboHeat"`
	PreviousHP     int     `json:"previousHp"`
	RemainingHP    int     `json:"remainingHp"`
}

func (BrickHit) Kind() Kind { return KindBrickHit }

// BrickBreak fires when a brick's hp reaches zero and it is removed.
type BrickBreak struct {
	Meta
	Row            int     `json:"row"`
	Col            int     `json:"col"`
	ImpactVelocity float64 `json:"impactVelocity"`
	BrickType      string  `json:"brickType"`
	ComboHeat      float64 `json:"comboHeat"`
	InitialHP      int     `json:"initialHp"`
	PointsAwarded  int     `json:"pointsAwarded"`
}

func (BrickBreak) Kind() Kind { return KindBrickBreak }

// PaddleHit fires when a ball reflects off (or sticks to) the paddle.
type PaddleHit struct {
	Meta
	Angle        float64 `json:"angle"`
	Speed        float64 `json:"speed"`
	ImpactOffset float64 `json:"impactOffset"` // -1 left edge .. +1 right edge
	Stuck        bool    `json:"stuck"`
}

func (PaddleHit) Kind() Kind { return KindPaddleHit }

// WallHit fires on ball-wall contact. Side is left|right|top|bottom.
type WallHit struct {
	Meta
	Side  string  `json:"side"`
	Speed float64 `json:"speed"`
}

func (WallHit) Kind() Kind { return KindWallHit }

// LifeLost fires when the primary ball crosses the bottom wall with no extra
// ball left to promote.
type LifeLost struct {
	Meta
	LivesRemaining int    `json:"livesRemaining"`
	Cause          string `json:"cause"`
}

func (LifeLost) Kind() Kind { return KindLifeLost }

// BallLaunched fires when a ball leaves the paddle.
type BallLaunched struct {
	Meta
	PosX  float64 `json:"posX"`
	PosY  float64 `json:"posY"`
	DirX  float64 `json:"dirX"`
	DirY  float64 `json:"dirY"`
	Speed float64 `json:"speed"`
}

func (BallLaunched) Kind() Kind { return KindBallLaunched }

// RoundCompleted fires on round completion or failure. Failed is the
// terminal outcome record for a lost session.
type RoundCompleted struct {
	Meta
	Round         int     `json:"round"`
	ScoreAwarded  int     `json:"scoreAwarded"`
	DurationMs    int64   `json:"durationMs"`
	Failed        bool    `json:"failed"`
	EntropyBanked float64 `json:"entropyBanked"`
}

func (RoundCompleted) Kind() Kind { return KindRoundCompleted }

// ComboMilestone fires exactly once per upward crossing of a configured
// volley threshold.
type ComboMilestone struct {
	Meta
	Combo         int     `json:"combo"`
	Multiplier    float64 `json:"multiplier"`
	PointsAwarded int     `json:"pointsAwarded"`
	TotalScore    int     `json:"totalScore"`
}

func (ComboMilestone) Kind() Kind { return KindComboMilestone }

// CoinCollected fires when a coin pickup reaches the paddle.
type CoinCollected struct {
	Meta
	Value int `json:"value"`
	Coins int `json:"coins"`
}

func (CoinCollected) Kind() Kind { return KindCoinCollected }

// RewardActivated fires when the reward resolver activates a reward.
type RewardActivated struct {
	Meta
	Reward   string  `json:"reward"`
	Duration float64 `json:"duration"`
	Replaced string  `json:"replaced,omitempty"`
	Extended bool    `json:"extended"`
}

func (RewardActivated) Kind() Kind { return KindRewardActivated }

// GambleResolved fires when a primed gamble brick resolves.
type GambleResolved struct {
	Meta
	Row     int  `json:"row"`
	Col     int  `json:"col"`
	Success bool `json:"success"`
	Bonus   int  `json:"bonus"`
}

func (GambleResolved) Kind() Kind { return KindGambleResolved }
