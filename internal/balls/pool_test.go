package balls

import (
	"math"
	"testing"

	"github.com/vmarchenko/brickwave/internal/core"
	"github.com/vmarchenko/brickwave/internal/physics"
)

func launchWorld() (physics.World, physics.BodyID) {
	w := physics.NewArcadeWorld()
	id := w.Add(physics.Body{
		Tag:    physics.TagBall,
		Pos:    core.Vec2{X: 40, Y: 30},
		Vel:    core.Vec2{X: 0, Y: -20},
		Radius: 0.5,
	})
	return w, id
}

func TestSpawnRespectsCapacity(t *testing.T) {
	w, primary := launchWorld()
	p := NewPool(3)
	p.SetPrimary(primary, false)

	// Ask for far more than capacity, repeatedly, within one frame.
	total := 0
	for i := 0; i < 5; i++ {
		total += len(p.SpawnExtras(w, 10, 20))
	}
	if total != 3 {
		t.Fatalf("spawned %d extras, capacity 3", total)
	}
	if p.ExtrasAlive() != 3 {
		t.Fatalf("alive = %d", p.ExtrasAlive())
	}
}

func TestSpawnInheritsAtLeastLaunchSpeed(t *testing.T) {
	w, primary := launchWorld()
	w.SetVelocity(primary, core.Vec2{X: 0, Y: -5}) // Slower than launch speed
	p := NewPool(4)
	p.SetPrimary(primary, false)

	ids := p.SpawnExtras(w, 2, 26)
	if len(ids) != 2 {
		t.Fatalf("spawned %d, want 2", len(ids))
	}
	for _, id := range ids {
		b, _ := w.Get(id)
		if b.Speed() < 26-1e-9 {
			t.Fatalf("extra speed %f below launch speed", b.Speed())
		}
	}

	// Copies must fan out, not stack on the source direction.
	a, _ := w.Get(ids[0])
	b, _ := w.Get(ids[1])
	if a.Vel == b.Vel {
		t.Fatal("angular offsets identical")
	}
}

func TestSpawnPreservesFractionalSourceSpeed(t *testing.T) {
	w, primary := launchWorld()
	w.SetVelocity(primary, core.Vec2{X: 0, Y: -30.5})
	p := NewPool(4)
	p.SetPrimary(primary, false)

	ids := p.SpawnExtras(w, 1, 26)
	if len(ids) != 1 {
		t.Fatalf("spawned %d, want 1", len(ids))
	}
	b, _ := w.Get(ids[0])
	if math.Abs(b.Speed()-30.5) > 1e-9 {
		t.Fatalf("clone speed %f, want 30.5", b.Speed())
	}
}

func TestPromoteOldestExtra(t *testing.T) {
	w, primary := launchWorld()
	p := NewPool(4)
	p.SetPrimary(primary, false)
	ids := p.SpawnExtras(w, 2, 20)

	p.DropPrimary()
	promoted, ok := p.PromotePrimary()
	if !ok {
		t.Fatal("promotion failed with extras alive")
	}
	if promoted != ids[0] {
		t.Fatalf("promoted %d, want oldest %d", promoted, ids[0])
	}
	if !p.IsPrimary(promoted) {
		t.Fatal("promoted ball not primary")
	}
	// The promoted id must no longer live in the extras set.
	for _, b := range p.Extras() {
		if b.Body == promoted {
			t.Fatal("promoted ball still listed as extra")
		}
	}
	if p.ExtrasAlive() != 1 {
		t.Fatalf("extras alive = %d, want 1", p.ExtrasAlive())
	}
}

func TestPromoteWithoutExtras(t *testing.T) {
	p := NewPool(4)
	if _, ok := p.PromotePrimary(); ok {
		t.Fatal("promotion succeeded with empty pool")
	}
}

func TestRemoveByBody(t *testing.T) {
	w, primary := launchWorld()
	p := NewPool(4)
	p.SetPrimary(primary, false)
	ids := p.SpawnExtras(w, 2, 20)

	if !p.RemoveByBody(ids[1]) {
		t.Fatal("known extra not removed")
	}
	if p.RemoveByBody(ids[1]) {
		t.Fatal("double removal succeeded")
	}
	if p.RemoveByBody(primary) {
		t.Fatal("primary removed through extras path")
	}
	if p.ExtrasAlive() != 1 {
		t.Fatalf("alive = %d, want 1", p.ExtrasAlive())
	}
}

func TestClearRemovesBodies(t *testing.T) {
	w, primary := launchWorld()
	p := NewPool(4)
	p.SetPrimary(primary, false)
	ids := p.SpawnExtras(w, 3, 20)

	p.Clear(w)
	if p.ExtrasAlive() != 0 || p.Primary() != nil {
		t.Fatal("clear left balls behind")
	}
	for _, id := range ids {
		if _, ok := w.Get(id); ok {
			t.Fatalf("body %d still in world after clear", id)
		}
	}
}

func TestAttachedPrimaryIsNotCloned(t *testing.T) {
	w, primary := launchWorld()
	p := NewPool(4)
	p.SetPrimary(primary, true)

	if ids := p.SpawnExtras(w, 3, 20); len(ids) != 0 {
		t.Fatalf("cloned an attached ball into %d extras", len(ids))
	}
}
