package game

import (
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vmarchenko/brickwave/internal/config"
	"github.com/vmarchenko/brickwave/internal/events"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newGame(t *testing.T, seed uint64, input Source) *Game {
	t.Helper()
	return New(Options{
		Config: config.Default(),
		Seed:   seed,
		Input:  input,
		Logger: quietLogger(),
	})
}

func record(g *Game) *[]string {
	lines := &[]string{}
	g.Bus().Tap(func(ev events.Event) {
		raw, err := json.Marshal(ev)
		if err != nil {
			raw = []byte(err.Error())
		}
		*lines = append(*lines, string(ev.Kind())+" "+string(raw))
	})
	return lines
}

func runSteps(g *Game, n int) {
	step := 1.0 / float64(config.Default().Loop.StepHz)
	for i := 0; i < n; i++ {
		g.Advance(step)
	}
}

func replayScript() *Script {
	return NewScript().HoldDir(0.4).LaunchAt(200)
}

func TestReplayIsDeterministic(t *testing.T) {
	run := func() ([]string, int) {
		g := newGame(t, 12345, replayScript())
		lines := record(g)
		g.StartGameplay()
		runSteps(g, 1800) // 15 simulated seconds
		return *lines, g.Session().Score
	}

	eventsA, scoreA := run()
	eventsB, scoreB := run()

	if scoreA != scoreB {
		t.Fatalf("scores diverged: %d vs %d", scoreA, scoreB)
	}
	if len(eventsA) != len(eventsB) {
		t.Fatalf("event counts diverged: %d vs %d", len(eventsA), len(eventsB))
	}
	for i := range eventsA {
		if eventsA[i] != eventsB[i] {
			t.Fatalf("event %d diverged:\n%s\n%s", i, eventsA[i], eventsB[i])
		}
	}
	if len(eventsA) == 0 {
		t.Fatal("replay produced no events at all")
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	run := func(seed uint64) []string {
		g := newGame(t, seed, replayScript())
		lines := record(g)
		g.StartGameplay()
		runSteps(g, 1800)
		return *lines
	}
	a := run(1)
	b := run(2)
	if len(a) == len(b) {
		same := true
		for i := range a {
			if a[i] != b[i] {
				same = false
				break
			}
		}
		if same {
			t.Fatal("different seeds produced identical event sequences")
		}
	}
}

func TestServeDelayGatesLaunch(t *testing.T) {
	g := newGame(t, 7, NewScript().LaunchAt(1))
	lines := record(g)
	g.StartGameplay()
	runSteps(g, 10) // Well inside the one-second serve delay

	for _, l := range *lines {
		if strings.HasPrefix(l, string(events.KindBallLaunched)) {
			t.Fatal("launch went through during the serve delay")
		}
	}

	g.ForceLaunch()
	launched := false
	for _, l := range *lines {
		if strings.HasPrefix(l, string(events.KindBallLaunched)) {
			launched = true
		}
	}
	if !launched {
		t.Fatal("force launch did not serve the ball")
	}
}

func TestPauseFreezesSimulation(t *testing.T) {
	g := newGame(t, 7, NewScript())
	g.StartGameplay()
	g.ForceLaunch()
	runSteps(g, 60)

	before := g.Session()
	g.Pause()
	runSteps(g, 240)
	after := g.Session()

	if after.ElapsedSecs != before.ElapsedSecs {
		t.Fatal("clock advanced while paused")
	}
	if after.Score != before.Score {
		t.Fatal("score changed while paused")
	}
	if rt := g.Runtime(); !rt.Paused {
		t.Fatal("runtime state not flagged paused")
	}

	g.Resume()
	runSteps(g, 60)
	if g.Session().ElapsedSecs == before.ElapsedSecs {
		t.Fatal("clock frozen after resume")
	}
}

func TestControlHooks(t *testing.T) {
	g := newGame(t, 7, NewScript())

	if rt := g.Runtime(); rt.Scene != SceneMenu {
		t.Fatalf("initial scene = %s", rt.Scene)
	}
	g.StartGameplay()
	if rt := g.Runtime(); rt.Scene != ScenePlaying || rt.Round != 1 {
		t.Fatalf("runtime after start = %+v", g.Runtime())
	}

	g.SkipLevel()
	if rt := g.Runtime(); rt.Round != 2 {
		t.Fatalf("round after skip = %d", rt.Round)
	}

	lives := g.Runtime().Lives
	g.ForceLifeLoss()
	if got := g.Runtime().Lives; got != lives-1 {
		t.Fatalf("lives after forced loss = %d, want %d", got, lives-1)
	}

	g.DrainLives()
	if rt := g.Runtime(); rt.Scene != SceneGameOver || rt.Lives != 0 {
		t.Fatalf("runtime after drain = %+v", rt)
	}

	g.Quit()
	if rt := g.Runtime(); rt.Scene != SceneMenu || rt.LoopRunning {
		t.Fatalf("runtime after quit = %+v", rt)
	}
}

func TestLifeLostEventsCarrySessionID(t *testing.T) {
	g := newGame(t, 7, NewScript())
	var lost []events.LifeLost
	g.Bus().Subscribe(events.KindLifeLost, func(ev events.Event) {
		lost = append(lost, ev.(events.LifeLost))
	})
	g.StartGameplay()
	g.DrainLives()

	want := config.Default().Gameplay.Lives
	if len(lost) != want {
		t.Fatalf("life lost events = %d, want %d", len(lost), want)
	}
	for _, ev := range lost {
		if ev.Session != g.Session().ID {
			t.Fatal("life lost event missing session id")
		}
		if ev.Cause != "bottom-wall" {
			t.Fatalf("cause = %s", ev.Cause)
		}
	}
	if lost[len(lost)-1].LivesRemaining != 0 {
		t.Fatalf("final lives remaining = %d", lost[len(lost)-1].LivesRemaining)
	}
}

func TestScriptedInputReplays(t *testing.T) {
	s := NewScript().HoldDir(-0.5).At(3, Input{PaddleDir: 1}).LaunchAt(5)
	if in := s.Poll(0); in.PaddleDir != -0.5 || in.Launch {
		t.Fatalf("tick 0 = %+v", in)
	}
	if in := s.Poll(3); in.PaddleDir != 1 {
		t.Fatalf("tick 3 = %+v", in)
	}
	if in := s.Poll(5); !in.Launch {
		t.Fatalf("tick 5 = %+v", in)
	}
}

func TestLiveInputLatchesLaunch(t *testing.T) {
	l := NewLiveInput()
	l.SetDir(0.7)
	l.PressLaunch()

	in := l.Poll(0)
	if in.PaddleDir != 0.7 || !in.Launch {
		t.Fatalf("first poll = %+v", in)
	}
	if in := l.Poll(1); in.Launch {
		t.Fatal("launch latch not cleared")
	}
}
