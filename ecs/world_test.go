package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/piratesim/ecs/component"
)

func mustCreate(t *testing.T, w *World) Entity {
	t.Helper()
	e, err := w.CreateEntity()
	if err != nil {
		t.Fatalf("CreateEntity: %v", err)
	}
	return e
}

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, mustCreate(t, w))
			}
			if len(w.Entities()) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(w.Entities()))
			}
			if c.destroyIndex >= 0 {
				if err := w.DestroyEntity(ents[c.destroyIndex]); err != nil {
					t.Fatalf("DestroyEntity of an alive entity: %v", err)
				}
				if w.IsAlive(ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if err := w.DestroyEntity(ents[c.destroyIndex]); !errors.Is(err, ErrInvalidEntity) {
					t.Fatalf("DestroyEntity of a dead entity = %v, want ErrInvalidEntity", err)
				}
				if got := w.Len(); got != c.create-1 {
					t.Fatalf("expected %d live entities, got %d", c.create-1, got)
				}
			}
		})
	}
}

func TestWorldComponents(t *testing.T) {
	w := NewWorld()
	ints := component.NewComponent[int]()
	strs := component.NewComponent[string]()

	e1 := mustCreate(t, w)
	e2 := mustCreate(t, w)

	tests := []struct {
		name  string
		run   func() error
		check func(t *testing.T, err error)
	}{
		{
			name: "add_int_to_e1",
			run:  func() error { return Add(w, e1, ints, intPtr(42)) },
			check: func(t *testing.T, err error) {
				if err != nil {
					t.Fatalf("Add: %v", err)
				}
				v, ok := Get(w, e1, ints)
				if !ok || *v != 42 {
					t.Fatalf("expected 42, got %v (ok=%v)", v, ok)
				}
			},
		},
		{
			name: "duplicate_is_rejected",
			run:  func() error { return Add(w, e1, ints, intPtr(7)) },
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrDuplicateComponent) {
					t.Fatalf("expected ErrDuplicateComponent, got %v", err)
				}
				if v, _ := Get(w, e1, ints); *v != 42 {
					t.Fatalf("duplicate add must not replace the value, got %d", *v)
				}
			},
		},
		{
			name: "nil_is_rejected",
			run:  func() error { return Add[string](w, e2, strs, nil) },
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrNilComponent) {
					t.Fatalf("expected ErrNilComponent, got %v", err)
				}
			},
		},
		{
			name: "missing_is_absent",
			run:  func() error { return nil },
			check: func(t *testing.T, _ error) {
				if v, ok := Get(w, e2, ints); ok || v != nil {
					t.Fatalf("expected absent component, got %v", v)
				}
				if Has(w, e2, strs) {
					t.Fatalf("e2 should have no string component")
				}
			},
		},
		{
			name: "get_or_add",
			run: func() error {
				v, err := GetOrAdd(w, e2, strs)
				if err != nil {
					return err
				}
				*v = "hello"
				return nil
			},
			check: func(t *testing.T, err error) {
				if err != nil {
					t.Fatalf("GetOrAdd: %v", err)
				}
				v, err := GetOrAdd(w, e2, strs)
				if err != nil || *v != "hello" {
					t.Fatalf("GetOrAdd should return the existing value, got %v %v", v, err)
				}
				stored, _ := Get(w, e2, strs)
				if v != stored {
					t.Fatalf("GetOrAdd returned a copy, not the stored pointer")
				}
				// ints already holds a value for e1: no duplicate error, same pointer
				existing, _ := Get(w, e1, ints)
				got, err := GetOrAdd(w, e1, ints)
				if err != nil || got != existing {
					t.Fatalf("GetOrAdd on existing component = %v, %v; want %v", got, err, existing)
				}
				if err := Add(w, e1, ints, intPtr(9)); !errors.Is(err, ErrDuplicateComponent) {
					t.Fatalf("Add of a present component = %v, want ErrDuplicateComponent", err)
				}
			},
		},
		{
			name: "remove",
			run:  func() error { return nil },
			check: func(t *testing.T, _ error) {
				if !Remove(w, e1, ints) {
					t.Fatalf("Remove should report removal")
				}
				if Remove(w, e1, ints) {
					t.Fatalf("second Remove should report nothing removed")
				}
				if Count(w, ints) != 0 {
					t.Fatalf("expected no int components, got %d", Count(w, ints))
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, tc.run())
		})
	}
}

func TestWorldAddToDeadEntity(t *testing.T) {
	w := NewWorld()
	ints := component.NewComponent[int]()
	e := mustCreate(t, w)
	if err := w.DestroyEntity(e); err != nil {
		t.Fatalf("DestroyEntity: %v", err)
	}
	if err := Add(w, e, ints, intPtr(1)); !errors.Is(err, ErrInvalidEntity) {
		t.Fatalf("expected ErrInvalidEntity, got %v", err)
	}
	if err := w.DestroyEntity(e); !errors.Is(err, ErrInvalidEntity) {
		t.Fatalf("expected ErrInvalidEntity on double destroy, got %v", err)
	}
}

func TestWorldDestroyCascades(t *testing.T) {
	w := NewWorld()
	if err := w.Resize(1); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	ints := component.NewComponent[int]()
	strs := component.NewComponent[string]()

	e := mustCreate(t, w)
	if err := Add(w, e, ints, intPtr(1)); err != nil {
		t.Fatal(err)
	}
	if err := Add(w, e, strs, stringPtr("a")); err != nil {
		t.Fatal(err)
	}
	if err := w.DestroyEntity(e); err != nil {
		t.Fatal(err)
	}
	if Has(w, e, ints) || Has(w, e, strs) {
		t.Fatalf("components must not outlive their entity")
	}
	if Count(w, ints) != 0 || Count(w, strs) != 0 {
		t.Fatalf("stores should be empty after destroy")
	}

	// the slot is reused with a new generation and no leftovers
	reused := mustCreate(t, w)
	if reused.Index() != e.Index() || reused == e {
		t.Fatalf("expected slot %d reused with a new generation, got %s", e.Index(), reused)
	}
	if Has(w, reused, ints) || Has(w, reused, strs) {
		t.Fatalf("reused slot must start without components")
	}
	if w.IsAlive(e) {
		t.Fatalf("stale handle must not be alive")
	}
}

func TestWorldQueryCreationOrder(t *testing.T) {
	w := NewWorld()
	ints := component.NewComponent[int]()
	strs := component.NewComponent[string]()

	a := mustCreate(t, w)
	b := mustCreate(t, w)
	c := mustCreate(t, w)
	// add in reverse so store order differs from creation order
	for i, e := range []Entity{c, b, a} {
		if err := Add(w, e, ints, intPtr(i)); err != nil {
			t.Fatal(err)
		}
	}
	if err := Add(w, b, strs, stringPtr("b")); err != nil {
		t.Fatal(err)
	}

	got := w.Query(ints)
	want := []Entity{a, b, c}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	both := w.Query(ints, strs)
	if len(both) != 1 || both[0] != b {
		t.Fatalf("expected only %s, got %v", b, both)
	}
	if first, ok := w.First(ints); !ok || first != a {
		t.Fatalf("expected First to return %s, got %s", a, first)
	}
	if got := w.Query(component.NewComponent[float64]()); got != nil {
		t.Fatalf("unused component should match nothing, got %v", got)
	}
}

func TestForEachAllowsMutation(t *testing.T) {
	w := NewWorld()
	ints := component.NewComponent[int]()

	ents := make([]Entity, 4)
	for i := range ents {
		ents[i] = mustCreate(t, w)
		if err := Add(w, ents[i], ints, intPtr(i)); err != nil {
			t.Fatal(err)
		}
	}

	var visited []int
	ForEach(w, ints, func(e Entity, v *int) {
		visited = append(visited, *v)
		if *v == 0 {
			// destroy a later entity and spawn a new one mid-iteration
			if err := w.DestroyEntity(ents[2]); err != nil {
				t.Fatal(err)
			}
			n := mustCreate(t, w)
			if err := Add(w, n, ints, intPtr(99)); err != nil {
				t.Fatal(err)
			}
		}
	})

	want := []int{0, 1, 3}
	if len(visited) != len(want) {
		t.Fatalf("expected %v, got %v", want, visited)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, visited)
		}
	}
}

func TestForEach2(t *testing.T) {
	w := NewWorld()
	ints := component.NewComponent[int]()
	strs := component.NewComponent[string]()

	a := mustCreate(t, w)
	b := mustCreate(t, w)
	_ = Add(w, a, ints, intPtr(1))
	_ = Add(w, b, ints, intPtr(2))
	_ = Add(w, b, strs, stringPtr("two"))

	calls := 0
	ForEach2(w, ints, strs, func(e Entity, i *int, s *string) {
		calls++
		if e != b || *i != 2 || *s != "two" {
			t.Fatalf("unexpected match %s %d %q", e, *i, *s)
		}
	})
	if calls != 1 {
		t.Fatalf("expected one match, got %d", calls)
	}
}

func TestEventQueue(t *testing.T) {
	var q EventQueue
	q.Push(Event{Type: EventProjectileSpawned})
	q.Push(Event{Type: EventProjectileExpired})
	if q.Len() != 2 {
		t.Fatalf("expected 2 events, got %d", q.Len())
	}
	events := q.Drain()
	if len(events) != 2 || events[0].Type != EventProjectileSpawned || events[1].Type != EventProjectileExpired {
		t.Fatalf("events out of order: %v", events)
	}
	if q.Len() != 0 || q.Drain() != nil {
		t.Fatalf("queue should be empty after drain")
	}
}

func TestSchedulerRunsInOrder(t *testing.T) {
	s := NewScheduler()
	var order []string
	s.Add(PhaseFixedUpdate, SystemFunc(func(*World, float64) { order = append(order, "steer") }))
	s.Add(PhaseUpdate, SystemFunc(func(*World, float64) { order = append(order, "visual") }))
	s.Add(PhaseFixedUpdate, SystemFunc(func(*World, float64) { order = append(order, "projectile") }))
	s.Add(PhaseFixedUpdate, nil)

	s.Run(PhaseFixedUpdate, NewWorld(), 0.02)
	if len(order) != 2 || order[0] != "steer" || order[1] != "projectile" {
		t.Fatalf("unexpected fixed order %v", order)
	}
	if len(s.Systems(PhaseUpdate)) != 1 {
		t.Fatalf("expected one update system")
	}
	if PhaseFixedUpdate.String() != "fixed_update" || Phase(9).String() != "unknown" {
		t.Fatalf("unexpected phase names")
	}
}

func TestPhysicsWorldBodies(t *testing.T) {
	w := NewWorld()
	pw := NewPhysicsWorld()
	w.SetPhysicsWorld(pw)

	e := mustCreate(t, w)
	body := pw.EnsureBody(e, cpVec(1, 2), cpVec(3, 0), 0, nil)
	if body == nil {
		t.Fatalf("expected a body")
	}
	if again := pw.EnsureBody(e, cpVec(9, 9), cpVec(0, 0), 1, nil); again != body {
		t.Fatalf("EnsureBody should return the existing body")
	}
	if body.Mass() != 1 {
		t.Fatalf("non-positive mass should default to 1, got %v", body.Mass())
	}
	if pw.EnsureBody(0, cpVec(0, 0), cpVec(0, 0), 1, nil) != nil {
		t.Fatalf("invalid entity must not get a body")
	}

	pw.Step(0.5)
	if p := body.Position(); p.X != 2.5 || p.Y != 2 {
		t.Fatalf("expected free flight to (2.5, 2), got %v", p)
	}

	if err := w.DestroyEntity(e); err != nil {
		t.Fatal(err)
	}
	if pw.Len() != 0 {
		t.Fatalf("body should be removed with its entity")
	}
}
