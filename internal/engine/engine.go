// Package engine interprets raw collision pairs into game-rule outcomes:
// brick damage, paddle reflection, wall handling, pickup effects and the
// session mutations and published events that follow from each.
package engine

import (
	"math"

	"github.com/vmarchenko/brickwave/internal/arena"
	"github.com/vmarchenko/brickwave/internal/balls"
	"github.com/vmarchenko/brickwave/internal/config"
	"github.com/vmarchenko/brickwave/internal/core"
	"github.com/vmarchenko/brickwave/internal/events"
	"github.com/vmarchenko/brickwave/internal/foreshadow"
	"github.com/vmarchenko/brickwave/internal/gamble"
	"github.com/vmarchenko/brickwave/internal/physics"
	"github.com/vmarchenko/brickwave/internal/rewards"
	"github.com/vmarchenko/brickwave/internal/session"
)

// maxBounceAngle bounds the paddle reflection, in radians from vertical.
const maxBounceAngle = 1.0

// pickupFallSpeed is how fast dropped pickups sink toward the paddle.
const pickupFallSpeed = 9.0

// pickup records what a falling pickup body grants on paddle contact.
type pickup struct {
	reward rewards.Kind // KindNone means a coin
	value  int
}

// Deps bundles the collaborators the engine mutates.
type Deps struct {
	World     physics.World
	Bricks    *arena.Arena
	Session   *session.Session
	Bus       *events.Bus
	Pool      *balls.Pool
	Rewards   *rewards.Resolver
	Gambles   *gamble.Tracker
	Predictor *foreshadow.Predictor
	DropRNG   *core.RNG
}

// Engine resolves collision-start events for one session.
type Engine struct {
	cfg config.Config
	d   Deps

	paddle  physics.BodyID
	pickups map[physics.BodyID]pickup

	ghosted   bool
	widened   bool
	roundOver bool
	failed    bool
}

// New wires an engine. SetPaddle must be called before the first step.
func New(cfg config.Config, d Deps) *Engine {
	return &Engine{cfg: cfg, d: d, pickups: make(map[physics.BodyID]pickup)}
}

// SetPaddle registers the paddle body the engine reflects balls off.
func (e *Engine) SetPaddle(id physics.BodyID) { e.paddle = id }

// RoundOver reports whether the current round reached a terminal state.
func (e *Engine) RoundOver() bool { return e.roundOver }

// Failed reports whether the terminal state was a failure.
func (e *Engine) Failed() bool { return e.failed }

// ResetRound clears per-round engine state at level load.
func (e *Engine) ResetRound() {
	e.roundOver = false
	e.failed = false
	e.ghosted = false
	e.widened = false
	for body := range e.pickups {
		e.d.World.Remove(body)
		delete(e.pickups, body)
	}
	e.d.Gambles.Clear()
	for _, id := range e.d.Bricks.GambleIDs() {
		e.d.Gambles.Register(id)
	}
	e.d.Rewards.Clear()
	e.d.Predictor.CancelAll()
}

func (e *Engine) meta() events.Meta {
	return events.Meta{Session: e.d.Session.ID(), Time: e.d.Session.Now()}
}

// Resolve walks the collision-start events recorded by the physics step.
func (e *Engine) Resolve(contacts []physics.Contact) {
	for _, c := range contacts {
		if e.roundOver {
			return
		}
		switch {
		case c.ATag == physics.TagBall && c.BTag == physics.TagBrick:
			e.ballBrick(c)
		case c.ATag == physics.TagBall && c.BTag == physics.TagPaddle:
			e.ballPaddle(c)
		case c.ATag == physics.TagBall && physics.WallSide(c.BTag) != "":
			e.ballWall(c)
		case e.isPickup(c.ATag) && c.BTag == physics.TagPaddle:
			e.pickupPaddle(c)
		case e.isPickup(c.ATag) && physics.WallSide(c.BTag) == "bottom":
			e.removePickup(c.A)
		}
	}
}

func (e *Engine) isPickup(tag physics.Tag) bool {
	return tag == physics.TagPowerUp || tag == physics.TagCoin
}

// Tick advances per-step engine bookkeeping that is not contact-driven:
// gamble countdowns, reward expiry and the world-side effects of reward
// state flipping.
func (e *Engine) Tick(dt float64) {
	for _, id := range e.d.Gambles.Tick(dt) {
		brick, ok := e.d.Bricks.Get(id)
		if !ok {
			continue
		}
		// Expiry penalty: the brick heals back to full instead of dying.
		e.d.Bricks.ResetHP(id, brick.BaseHP)
		e.d.Bus.Publish(events.GambleResolved{
			Meta: e.meta(), Row: brick.Row, Col: brick.Col, Success: false,
		})
	}

	e.d.Rewards.Tick(dt, e.d.Pool.ExtrasAlive())
	e.applyGhost()
	e.applyWide()
}

func (e *Engine) applyGhost() {
	ghost := e.d.Rewards.GhostBricks()
	if ghost == e.ghosted {
		return
	}
	e.ghosted = ghost
	e.d.Bricks.ForEach(func(b *arena.Brick) {
		if b.Breakable || b.Gamble {
			e.d.World.SetSensor(b.Body, ghost)
		}
	})
}

func (e *Engine) applyWide() {
	wide := e.d.Rewards.WidePaddle()
	if wide == e.widened || e.paddle == 0 {
		return
	}
	e.widened = wide
	width := e.cfg.Physics.PaddleWidth
	if wide {
		width = e.cfg.Physics.PaddleWide
	}
	if body, ok := e.d.World.Get(e.paddle); ok {
		e.d.World.SetHalf(e.paddle, core.Vec2{X: width / 2, Y: body.Half.Y})
	}
}

// ballBrick damages or destroys the struck brick and fans out every side
// effect a break carries.
func (e *Engine) ballBrick(c physics.Contact) {
	brick, ok := e.d.Bricks.ByBody(c.B)
	if !ok {
		return
	}
	ball, ok := e.d.World.Get(c.A)
	if !ok {
		// The ball died earlier in this contact batch.
		return
	}
	speed := ball.Speed()

	e.d.Predictor.Release(e.d.Session.Now(), c.A)

	if !brick.Breakable && !brick.Gamble {
		e.d.Session.RecordBrickHit(speed)
		e.d.Bus.Publish(events.BrickHit{
			Meta: e.meta(), Row: brick.Row, Col: brick.Col,
			ImpactVelocity: speed, BrickType: brick.Type(),
			ComboHeat:  e.d.Session.Momentum().ComboHeat,
			PreviousHP: brick.HP, RemainingHP: brick.HP,
		})
		return
	}

	prevHP := brick.HP
	hp := e.d.Bricks.Damage(brick.ID, 1)
	if hp > 0 {
		if brick.Gamble {
			e.d.Gambles.OnHit(brick.ID)
		}
		e.d.Session.RecordBrickHit(speed)
		e.d.Bus.Publish(events.BrickHit{
			Meta: e.meta(), Row: brick.Row, Col: brick.Col,
			ImpactVelocity: speed, BrickType: brick.Type(),
			ComboHeat:  e.d.Session.Momentum().ComboHeat,
			PreviousHP: prevHP, RemainingHP: hp,
		})
		return
	}

	e.breakBrick(c, brick, speed)
}

func (e *Engine) breakBrick(c physics.Contact, brick *arena.Brick, speed float64) {
	multiplier := 1.0
	gambleWon := false
	if brick.Gamble {
		gambleWon = e.d.Gambles.OnBreak(brick.ID)
		if gambleWon {
			multiplier = e.cfg.Scoring.GambleMultiplier
		}
	}

	points, milestone := e.d.Session.RecordBrickBreak(
		speed, e.paddleDistance(c.Pos), e.d.Rewards.DoublePoints(), multiplier)

	e.d.Bus.Publish(events.BrickBreak{
		Meta: e.meta(), Row: brick.Row, Col: brick.Col,
		ImpactVelocity: speed, BrickType: brick.Type(),
		ComboHeat: e.d.Session.Momentum().ComboHeat,
		InitialHP: brick.BaseHP, PointsAwarded: points,
	})
	if gambleWon {
		e.d.Bus.Publish(events.GambleResolved{
			Meta: e.meta(), Row: brick.Row, Col: brick.Col,
			Success: true, Bonus: points,
		})
	}
	if milestone != nil {
		e.d.Bus.Publish(events.ComboMilestone{
			Meta: e.meta(), Combo: milestone.Combo,
			Multiplier: milestone.Multiplier, PointsAwarded: milestone.PointsAwarded,
			TotalScore: e.d.Session.Score(),
		})
	}

	// The drop rolls are independent: a single break can yield both.
	pos := c.Pos
	e.rollPowerUp(pos)
	e.rollCoin(pos)

	e.d.World.Remove(brick.Body)
	e.d.Bricks.Destroy(brick.ID)
	e.d.Gambles.Remove(brick.ID)

	if e.d.Bricks.Remaining() == 0 {
		e.completeRound()
	}
}

// paddleDistance measures how far above the paddle the impact landed.
func (e *Engine) paddleDistance(pos core.Vec2) float64 {
	body, ok := e.d.World.Get(e.paddle)
	if !ok {
		return 0
	}
	return math.Abs(body.Pos.Y - pos.Y)
}

func (e *Engine) rollPowerUp(pos core.Vec2) {
	round := e.d.Session.Round()
	chance := e.cfg.Gameplay.PowerUpChance * (1 + e.cfg.Gameplay.PowerUpLevelMul*float64(round-1))
	if e.d.DropRNG.Float64() >= core.ClampF(chance, 0, 1) {
		return
	}
	kind := rewards.Kinds[e.d.DropRNG.Intn(len(rewards.Kinds))]
	e.spawnPickup(pos, pickup{reward: kind})
}

func (e *Engine) rollCoin(pos core.Vec2) {
	p := e.d.Session.CoinDropChance(e.d.Rewards.Active() != rewards.KindNone)
	if e.d.DropRNG.Float64() >= p {
		return
	}
	e.spawnPickup(pos, pickup{value: 1})
}

func (e *Engine) spawnPickup(pos core.Vec2, p pickup) {
	tag := physics.TagCoin
	if p.reward != rewards.KindNone {
		tag = physics.TagPowerUp
	}
	body := e.d.World.Add(physics.Body{
		Tag:    tag,
		Pos:    pos,
		Vel:    core.Vec2{Y: pickupFallSpeed},
		Radius: 0.5,
		Sensor: true,
	})
	e.pickups[body] = p
}

func (e *Engine) removePickup(body physics.BodyID) {
	if _, ok := e.pickups[body]; !ok {
		return
	}
	delete(e.pickups, body)
	e.d.World.Remove(body)
}

// ballPaddle reflects or snap-attaches the ball depending on the sticky
// reward. The reflection angle comes from the impact offset along the
// paddle face, not from the incoming angle.
func (e *Engine) ballPaddle(c physics.Contact) {
	ball, ok := e.d.World.Get(c.A)
	if !ok {
		return
	}
	paddle, ok := e.d.World.Get(c.B)
	if !ok {
		return
	}

	offset := 0.0
	if paddle.Half.X > 0 {
		offset = core.ClampF((ball.Pos.X-paddle.Pos.X)/paddle.Half.X, -1, 1)
	}

	if e.d.Rewards.StickyPaddle() {
		e.attachToPaddle(c.A, offset)
		e.d.Session.RecordPaddleHit(0)
		e.d.Bus.Publish(events.PaddleHit{
			Meta: e.meta(), ImpactOffset: offset, Stuck: true,
		})
		return
	}

	speed := core.ClampF(ball.Speed()*1.02, e.cfg.Physics.BallSpeed, e.cfg.Physics.BallMaxSpeed)
	angle := offset * maxBounceAngle
	vel := core.Vec2{X: math.Sin(angle), Y: -math.Cos(angle)}.Scale(speed)
	e.d.World.SetVelocity(c.A, vel)

	e.d.Session.RecordPaddleHit(speed)
	e.d.Bus.Publish(events.PaddleHit{
		Meta: e.meta(), Angle: angle, Speed: speed, ImpactOffset: offset,
	})
}

func (e *Engine) attachToPaddle(ballID physics.BodyID, offset float64) {
	paddle, ok := e.d.World.Get(e.paddle)
	if !ok {
		return
	}
	ball, ok := e.d.World.Get(ballID)
	if !ok {
		return
	}
	e.d.World.SetVelocity(ballID, core.Vec2{})
	e.d.World.SetPosition(ballID, core.Vec2{
		X: paddle.Pos.X + offset*paddle.Half.X,
		Y: paddle.Pos.Y - paddle.Half.Y - ball.Radius,
	})
	if b, ok := e.d.Pool.ByBody(ballID); ok {
		b.Attached = true
	}
	e.d.Predictor.CancelBall(ballID)
}

// ballWall publishes the side hit and runs the bottom-wall removal,
// promotion or life-loss sequence.
func (e *Engine) ballWall(c physics.Contact) {
	side := physics.WallSide(c.BTag)
	e.d.Session.RecordWallHit(c.Speed)
	e.d.Bus.Publish(events.WallHit{Meta: e.meta(), Side: side, Speed: c.Speed})
	if side != "bottom" {
		return
	}

	e.d.Predictor.CancelBall(c.A)
	e.d.World.Remove(c.A)

	if !e.d.Pool.IsPrimary(c.A) {
		e.d.Pool.RemoveByBody(c.A)
		return
	}

	e.d.Pool.DropPrimary()
	if _, ok := e.d.Pool.PromotePrimary(); ok {
		// An extra takes over; the round continues uninterrupted.
		return
	}

	remaining, failed := e.d.Session.LoseLife()
	e.d.Bus.Publish(events.LifeLost{
		Meta: e.meta(), LivesRemaining: remaining, Cause: "bottom-wall",
	})
	e.d.Rewards.Clear()
	e.applyGhost()
	e.applyWide()

	if failed {
		e.failRound()
		return
	}
	e.AttachNewBall()
}

// pickupPaddle applies the caught pickup and removes its body.
func (e *Engine) pickupPaddle(c physics.Contact) {
	p, ok := e.pickups[c.A]
	if !ok {
		return
	}
	e.removePickup(c.A)

	if p.reward == rewards.KindNone {
		coins := e.d.Session.RecordCoin(p.value)
		e.d.Bus.Publish(events.CoinCollected{Meta: e.meta(), Value: p.value, Coins: coins})
		return
	}
	e.ActivateReward(p.reward)
}

// ActivateReward routes a reward through the resolver and publishes the
// activation. Also reachable from the automation harness.
func (e *Engine) ActivateReward(kind rewards.Kind) {
	prev := e.d.Rewards.Active()
	extended := kind == rewards.KindSlowTime && prev == rewards.KindSlowTime
	e.d.Rewards.Activate(kind, e.d.World, e.d.Pool, e.cfg.Physics.LaunchSpeed)
	e.applyGhost()
	e.applyWide()

	replaced := ""
	if prev != rewards.KindNone && prev != kind {
		replaced = string(prev)
	}
	e.d.Bus.Publish(events.RewardActivated{
		Meta: e.meta(), Reward: string(kind),
		Duration: e.rewardDuration(kind), Replaced: replaced, Extended: extended,
	})
}

func (e *Engine) rewardDuration(kind rewards.Kind) float64 {
	r := e.cfg.Rewards
	switch kind {
	case rewards.KindStickyPaddle:
		return r.StickyDuration
	case rewards.KindDoublePoints:
		return r.DoublePointsDuration
	case rewards.KindGhostBrick:
		return r.GhostBrickDuration
	case rewards.KindWidePaddle:
		return r.WidePaddleDuration
	case rewards.KindMultiBall:
		return r.MultiBallDuration
	case rewards.KindSlowTime:
		return r.SlowTimeDuration
	}
	return 0
}

// AttachNewBall creates a fresh primary ball resting on the paddle.
func (e *Engine) AttachNewBall() {
	paddle, ok := e.d.World.Get(e.paddle)
	if !ok {
		return
	}
	radius := e.cfg.Physics.BallRadius
	body := e.d.World.Add(physics.Body{
		Tag:    physics.TagBall,
		Pos:    core.Vec2{X: paddle.Pos.X, Y: paddle.Pos.Y - paddle.Half.Y - radius},
		Radius: radius,
	})
	e.d.Pool.SetPrimary(body, true)
}

// Launch serves the attached primary ball in the given direction. A zero
// direction serves straight up. No-op when the ball is already in flight.
func (e *Engine) Launch(dir core.Vec2) {
	primary := e.d.Pool.Primary()
	if primary == nil || !primary.Attached {
		return
	}
	if dir.Len() == 0 {
		dir = core.Vec2{X: 0, Y: -1}
	}
	dir = dir.Normalized()
	speed := e.cfg.Physics.LaunchSpeed
	e.d.World.SetVelocity(primary.Body, dir.Scale(speed))
	primary.Attached = false

	body, _ := e.d.World.Get(primary.Body)
	e.d.Bus.Publish(events.BallLaunched{
		Meta: e.meta(), PosX: body.Pos.X, PosY: body.Pos.Y,
		DirX: dir.X, DirY: dir.Y, Speed: speed,
	})
}

// ForceCompleteRound ends the round as a win regardless of remaining
// bricks. Used by the level-skip control hook.
func (e *Engine) ForceCompleteRound() { e.completeRound() }

func (e *Engine) completeRound() {
	banked, dur := e.d.Session.CompleteRound()
	e.roundOver = true
	e.d.Predictor.CancelAll()
	e.d.Bus.Publish(events.RoundCompleted{
		Meta: e.meta(), Round: e.d.Session.Round(),
		ScoreAwarded: e.d.Session.Score(), DurationMs: dur,
		EntropyBanked: banked,
	})
}

func (e *Engine) failRound() {
	dur := e.d.Session.Fail()
	e.roundOver = true
	e.failed = true
	e.d.Predictor.CancelAll()
	e.d.Bus.Publish(events.RoundCompleted{
		Meta: e.meta(), Round: e.d.Session.Round(),
		ScoreAwarded: e.d.Session.Score(), DurationMs: dur,
		Failed: true,
	})
}
