// Package game composes the simulation core: world, arena, session, reward
// and gamble state, the collision engine and the impact predictor, all
// driven by one fixed-step loop.
package game

import (
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vmarchenko/brickwave/internal/arena"
	"github.com/vmarchenko/brickwave/internal/balls"
	"github.com/vmarchenko/brickwave/internal/config"
	"github.com/vmarchenko/brickwave/internal/core"
	"github.com/vmarchenko/brickwave/internal/engine"
	"github.com/vmarchenko/brickwave/internal/events"
	"github.com/vmarchenko/brickwave/internal/foreshadow"
	"github.com/vmarchenko/brickwave/internal/gamble"
	"github.com/vmarchenko/brickwave/internal/loop"
	"github.com/vmarchenko/brickwave/internal/physics"
	"github.com/vmarchenko/brickwave/internal/rewards"
	"github.com/vmarchenko/brickwave/internal/session"
)

// Scene names the coarse state the host renders.
const (
	SceneMenu     = "menu"
	ScenePlaying  = "playing"
	SceneGameOver = "gameover"
)

// RuntimeState is the coarse view exposed to the automation harness.
type RuntimeState struct {
	Scene       string `json:"scene"`
	Paused      bool   `json:"paused"`
	LoopRunning bool   `json:"loopRunning"`
	Lives       int    `json:"livesRemaining"`
	Round       int    `json:"round"`
	Score       int    `json:"score"`
}

// Options configure a game instance.
type Options struct {
	Config config.Config
	Seed   uint64
	Sink   foreshadow.Sink
	Input  Source
	Logger *log.Logger
}

// Game is the simulation director. All methods must be called from the
// host's frame goroutine; the core itself never spawns one.
type Game struct {
	cfg config.Config
	log *log.Logger

	world    *physics.ArcadeWorld
	bricks   *arena.Arena
	bus      *events.Bus
	sess     *session.Session
	pool     *balls.Pool
	resolver *rewards.Resolver
	pred     *foreshadow.Predictor
	eng      *engine.Engine
	loop     *loop.Loop
	input    Source

	paddle     physics.BodyID
	wallBottom physics.BodyID

	scene      string
	paused     bool
	round      int
	serveTimer float64
	tick       uint64
	renderFn   loop.RenderFunc
}

// New builds a fully wired game in the menu scene. Call StartGameplay to
// load the first round.
func New(opts Options) *Game {
	cfg := opts.Config
	cfg.Sanitize()

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	input := opts.Input
	if input == nil {
		input = NewLiveInput()
	}
	sink := opts.Sink
	if sink == nil {
		sink = silentSink{}
	}

	rng := core.NewRNG(opts.Seed)
	sessionID, err := uuid.NewRandomFromReader(&rngReader{rng: rng.Derive(3)})
	if err != nil {
		sessionID = uuid.New()
	}

	g := &Game{
		cfg:      cfg,
		log:      logger,
		world:    physics.NewArcadeWorld(),
		bricks:   arena.New(),
		bus:      events.NewBus(),
		sess:     session.NewWithID(cfg, sessionID),
		pool:     balls.NewPool(cfg.Rewards.MultiBallCapacity),
		resolver: rewards.NewResolver(cfg.Rewards),
		input:    input,
		scene:    SceneMenu,
	}
	g.pred = foreshadow.NewPredictor(cfg.Foreshadow, sink, rng.Derive(1), cfg.Physics.BallMaxSpeed)
	g.eng = engine.New(cfg, engine.Deps{
		World:     g.world,
		Bricks:    g.bricks,
		Session:   g.sess,
		Bus:       g.bus,
		Pool:      g.pool,
		Rewards:   g.resolver,
		Gambles:   gamble.NewTracker(gamble.DefaultPrimeWindow),
		Predictor: g.pred,
		DropRNG:   rng.Derive(2),
	})
	g.loop = loop.New(loop.Options{
		StepHz:           cfg.Loop.StepHz,
		MaxFrameDelta:    cfg.Loop.MaxFrameDelta,
		MaxStepsPerFrame: cfg.Loop.MaxStepsPerFrame,
	}, g.step, g.render)

	g.buildStage()
	return g
}

// buildStage creates the walls and the paddle. Bricks come per round.
func (g *Game) buildStage() {
	w, h := g.cfg.Physics.WorldWidth, g.cfg.Physics.WorldHeight

	wall := func(tag physics.Tag, x, y, hx, hy float64, sensor bool) physics.BodyID {
		return g.world.Add(physics.Body{
			Tag: tag, Static: true, Sensor: sensor,
			Pos: core.Vec2{X: x, Y: y}, Half: core.Vec2{X: hx, Y: hy},
		})
	}
	wall(physics.TagWallLeft, -1, h/2, 1, h, false)
	wall(physics.TagWallRight, w+1, h/2, 1, h, false)
	wall(physics.TagWallTop, w/2, -1, w, 1, false)
	// The bottom is a sensor: balls and pickups cross it instead of bouncing.
	g.wallBottom = wall(physics.TagWallBottom, w/2, h+1, w, 1, true)

	g.paddle = g.world.Add(physics.Body{
		Tag: physics.TagPaddle, Static: true,
		Pos:  core.Vec2{X: w / 2, Y: h - g.cfg.Physics.PaddleY},
		Half: core.Vec2{X: g.cfg.Physics.PaddleWidth / 2, Y: 0.5},
	})
	g.eng.SetPaddle(g.paddle)
}

// Bus exposes the event bus for subscribers (audio, HUD, harness).
func (g *Game) Bus() *events.Bus { return g.bus }

// Session returns a read-only snapshot of the session.
func (g *Game) Session() session.Snapshot { return g.sess.Snapshot() }

// Runtime returns the coarse harness-facing state.
func (g *Game) Runtime() RuntimeState {
	return RuntimeState{
		Scene:       g.scene,
		Paused:      g.paused,
		LoopRunning: g.loop.Running(),
		Lives:       g.sess.Lives(),
		Round:       g.round,
		Score:       g.sess.Score(),
	}
}

// SetRender installs the host's render callback, invoked with the
// interpolation alpha after each Advance.
func (g *Game) SetRender(fn loop.RenderFunc) { g.renderFn = fn }

func (g *Game) render(alpha float64) {
	if g.renderFn != nil {
		g.renderFn(alpha)
	}
}

// Advance feeds one frame's wall-clock delta to the fixed-step loop.
func (g *Game) Advance(delta float64) { g.loop.Advance(delta) }

// StartTimerLoop starts the loop's timer fallback for hosts with no frame
// scheduler of their own.
func (g *Game) StartTimerLoop() { g.loop.Start() }

// StopTimerLoop stops the timer fallback. Stopping twice is a no-op.
func (g *Game) StopTimerLoop() { g.loop.Stop() }

// StartGameplay leaves the menu and loads the first round.
func (g *Game) StartGameplay() {
	if g.scene == ScenePlaying {
		return
	}
	g.scene = ScenePlaying
	g.paused = false
	g.round = 1
	g.loadRound(g.round)
}

func (g *Game) loadRound(n int) {
	g.bricks.ForEach(func(b *arena.Brick) { g.world.Remove(b.Body) })
	g.bricks.Clear()
	g.pool.Clear(g.world)

	layout := arena.LayoutByIndex(n - 1)
	arena.Build(g.bricks, g.world, layout, arena.DefaultGeometry(g.cfg.Physics.WorldWidth))

	g.sess.StartRound(n, g.bricks.Remaining())
	g.eng.ResetRound()
	g.eng.AttachNewBall()
	g.serveTimer = g.cfg.Gameplay.ServeDelaySecs

	g.log.Info("round loaded", "round", n, "layout", layout.ID, "bricks", g.bricks.Remaining())
}

// step is the fixed update. dt is always the loop's constant step size.
func (g *Game) step(dt float64) {
	if g.scene != ScenePlaying || g.paused {
		return
	}

	in := g.input.Poll(g.tick)
	g.tick++

	g.movePaddle(in.PaddleDir, dt)
	g.glueAttached()

	if g.serveTimer > 0 {
		g.serveTimer -= dt
	}
	if in.Launch && g.serveTimer <= 0 {
		g.eng.Launch(core.Vec2{})
	}

	scaled := dt * g.resolver.TimeScale()
	g.world.Step(scaled)
	g.eng.Resolve(g.world.Contacts())
	g.eng.Tick(scaled)
	g.sess.Tick(scaled)

	// Predictions are recomputed from post-step positions so they never
	// lag the simulation by more than one frame.
	g.refreshPredictions()
	g.pred.Drain(g.sess.Now())

	if g.eng.RoundOver() {
		if g.eng.Failed() {
			g.scene = SceneGameOver
			g.log.Info("session failed", "round", g.round, "score", g.sess.Score())
			return
		}
		g.round++
		g.loadRound(g.round)
	}
}

func (g *Game) movePaddle(dir, dt float64) {
	if dir == 0 {
		return
	}
	dir = core.ClampF(dir, -1, 1)
	body, ok := g.world.Get(g.paddle)
	if !ok {
		return
	}
	x := body.Pos.X + dir*g.cfg.Physics.PaddleSpeed*dt
	x = core.ClampF(x, body.Half.X, g.cfg.Physics.WorldWidth-body.Half.X)
	g.world.SetPosition(g.paddle, core.Vec2{X: x, Y: body.Pos.Y})
}

// glueAttached keeps a stuck or waiting ball riding the paddle.
func (g *Game) glueAttached() {
	primary := g.pool.Primary()
	if primary == nil || !primary.Attached {
		return
	}
	paddle, ok := g.world.Get(g.paddle)
	if !ok {
		return
	}
	ball, ok := g.world.Get(primary.Body)
	if !ok {
		return
	}
	g.world.SetPosition(primary.Body, core.Vec2{
		X: paddle.Pos.X,
		Y: paddle.Pos.Y - paddle.Half.Y - ball.Radius,
	})
}

func (g *Game) refreshPredictions() {
	now := g.sess.Now()
	if primary := g.pool.Primary(); primary != nil && !primary.Attached {
		if body, ok := g.world.Get(primary.Body); ok {
			g.pred.Refresh(now, body, g.bricks, g.world)
		}
	}
	for _, extra := range g.pool.Extras() {
		if body, ok := g.world.Get(extra.Body); ok {
			g.pred.Refresh(now, body, g.bricks, g.world)
		}
	}
}

// Pause suspends the simulation; timers and decay freeze with it.
func (g *Game) Pause() {
	if g.scene != ScenePlaying || g.paused {
		return
	}
	g.paused = true
	g.sess.Pause()
}

// Resume reverses Pause.
func (g *Game) Resume() {
	if !g.paused {
		return
	}
	g.paused = false
	g.sess.Resume()
}

// ForceLaunch serves the attached ball immediately, bypassing the serve
// delay. Exposed as an automation hook.
func (g *Game) ForceLaunch() {
	g.serveTimer = 0
	g.eng.Launch(core.Vec2{})
}

// SkipLevel ends the current round as a win and loads the next one.
func (g *Game) SkipLevel() {
	if g.scene != ScenePlaying {
		return
	}
	g.eng.ForceCompleteRound()
	g.round++
	g.loadRound(g.round)
}

// ForceLifeLoss routes the primary ball into the bottom wall.
func (g *Game) ForceLifeLoss() {
	if g.scene != ScenePlaying {
		return
	}
	primary := g.pool.Primary()
	if primary == nil {
		return
	}
	g.eng.Resolve([]physics.Contact{{
		A: primary.Body, B: g.wallBottom,
		ATag: physics.TagBall, BTag: physics.TagWallBottom,
	}})
	if g.eng.Failed() {
		g.scene = SceneGameOver
	}
}

// DrainLives forces life losses until the session fails.
func (g *Game) DrainLives() {
	for g.scene == ScenePlaying && g.sess.Lives() > 0 {
		g.ForceLifeLoss()
	}
}

// Quit abandons the session and returns to the menu.
func (g *Game) Quit() {
	g.scene = SceneMenu
	g.paused = false
	g.loop.Stop()
}

// Sprite is one drawable body in world coordinates. Bricks carry their
// visual form and type name so the renderer can pick a glyph without
// reaching into the arena.
type Sprite struct {
	Tag     physics.Tag
	Pos     core.Vec2
	Half    core.Vec2
	Radius  float64
	Form    string
	Variant string
}

// Frame collects the drawable bodies in a stable order: bricks first,
// then the paddle, balls and falling pickups.
func (g *Game) Frame() []Sprite {
	var out []Sprite
	g.bricks.ForEach(func(b *arena.Brick) {
		body, ok := g.world.Get(b.Body)
		if !ok {
			return
		}
		out = append(out, Sprite{
			Tag: physics.TagBrick, Pos: body.Pos, Half: body.Half,
			Form: b.Visual.Form, Variant: b.Type(),
		})
	})
	for _, tag := range []physics.Tag{physics.TagPaddle, physics.TagBall, physics.TagPowerUp, physics.TagCoin} {
		g.world.ForEach(tag, func(b physics.Body) {
			out = append(out, Sprite{Tag: tag, Pos: b.Pos, Half: b.Half, Radius: b.Radius})
		})
	}
	return out
}

// Config returns the sanitized configuration the game runs with.
func (g *Game) Config() config.Config { return g.cfg }

// ServePending reports whether the serve delay is still counting down.
func (g *Game) ServePending() bool { return g.scene == ScenePlaying && g.serveTimer > 0 }

// GhostActive reports whether bricks are currently pass-through.
func (g *Game) GhostActive() bool { return g.resolver.GhostBricks() }

// ActiveReward names the running reward, or rewards.KindNone.
func (g *Game) ActiveReward() rewards.Kind { return g.resolver.Active() }

// silentSink is the default cue sink when no audio backend is attached.
type silentSink struct{}

func (silentSink) Play(foreshadow.Cue) {}
func (silentSink) Cancel(int)          {}

// rngReader adapts a deterministic generator to io.Reader so the session id
// can be derived from the seed.
type rngReader struct {
	rng *core.RNG
}

func (r *rngReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Next() >> 32)
	}
	return len(p), nil
}
