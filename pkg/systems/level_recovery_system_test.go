package systems

import (
	"errors"
	"testing"

	"github.com/decker502/timelock/pkg/components"
	"github.com/decker502/timelock/pkg/ecs"
	"github.com/decker502/timelock/pkg/event"
)

// newRecoverableObject 创建一个已初始化的可恢复物体
func newRecoverableObject(em *ecs.EntityManager, name string, x, y float64) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.LevelObjectComponent{Name: name, Kind: "crate", Recoverable: true, Initialized: true})
	ecs.AddComponent(em, id, components.NewTransform(x, y))
	ecs.AddComponent(em, id, &components.VisibilityComponent{Visible: true, Active: true})
	return id
}

func newRecoveryScene() (*ecs.EntityManager, *event.Bus, ecs.EntityID) {
	em := ecs.NewEntityManager()
	bus := event.NewBus()

	container := em.CreateEntity()
	ecs.AddComponent(em, container, &components.ContainerComponent{Name: "props"})

	player := em.CreateEntity()
	ecs.AddComponent(em, player, &components.PlayerComponent{})
	ecs.AddComponent(em, player, components.NewTransform(10, 20))
	ecs.AddComponent(em, player, &components.VelocityComponent{VX: 5, VY: 5})
	return em, bus, player
}

// TestLevelRecovery_RestoresInPlace 测试原实体有效时原地复位并设为可见
func TestLevelRecovery_RestoresInPlace(t *testing.T) {
	em, bus, player := newRecoveryScene()
	crate := newRecoverableObject(em, "crate", 100, 50)

	s := NewLevelRecoverySystem(em, bus, "props", nil)
	s.CaptureAnchor(player)
	if n := s.Capture(); n != 1 {
		t.Fatalf("Expected 1 record, got %d", n)
	}

	tr, _ := ecs.GetComponent[*components.TransformComponent](em, crate)
	tr.Position = components.Vec2{X: 300, Y: 400}
	tr.Scale = components.Vec2{X: 2, Y: 2}
	vis, _ := ecs.GetComponent[*components.VisibilityComponent](em, crate)
	vis.Visible = false
	ptr, _ := ecs.GetComponent[*components.TransformComponent](em, player)
	ptr.Position = components.Vec2{X: 999, Y: 999}

	report := s.Recover()

	if !report.AnchorRestored || ptr.Position != (components.Vec2{X: 10, Y: 20}) {
		t.Errorf("Player should be back at anchor, got %+v", ptr.Position)
	}
	vel, _ := ecs.GetComponent[*components.VelocityComponent](em, player)
	if vel.VX != 0 || vel.VY != 0 {
		t.Error("Player velocity should be cleared")
	}
	if tr.Position != (components.Vec2{X: 100, Y: 50}) || tr.Scale != (components.Vec2{X: 1, Y: 1}) {
		t.Errorf("Crate not restored: pos=%+v scale=%+v", tr.Position, tr.Scale)
	}
	if !vis.Visible || !vis.Active {
		t.Error("Crate should be visible and active")
	}
	if len(report.Restored) != 1 || len(report.Recreated) != 0 {
		t.Errorf("Unexpected report %+v", report)
	}
	if report.Err() != nil {
		t.Errorf("Unexpected error %v", report.Err())
	}
}

// TestLevelRecovery_RecreatesFromTemplate 测试原实体被销毁后由模板重建并插入容器
func TestLevelRecovery_RecreatesFromTemplate(t *testing.T) {
	em, bus, player := newRecoveryScene()
	key := newRecoverableObject(em, "key", 40, 60)

	s := NewLevelRecoverySystem(em, bus, "props", nil)
	s.CaptureAnchor(player)
	s.Capture()

	em.DestroyEntity(key)
	em.RemoveMarkedEntities()

	report := s.Recover()

	if len(report.Recreated) != 1 || report.Recreated[0] != "key" {
		t.Fatalf("Expected key to be recreated, got %+v", report)
	}
	live := s.Records()[0].Live
	if live == key || !em.IsAlive(live) {
		t.Fatalf("Record should point at a fresh live entity, got %d", live)
	}
	parent, ok := ecs.GetComponent[*components.ParentComponent](em, live)
	if !ok {
		t.Fatal("Recreated entity should have a parent")
	}
	containers := ecs.GetEntitiesWith1[*components.ContainerComponent](em)
	if parent.Parent != uint64(containers[0]) {
		t.Errorf("Expected parent %d, got %d", containers[0], parent.Parent)
	}
	tr, _ := ecs.GetComponent[*components.TransformComponent](em, live)
	if tr.Position != (components.Vec2{X: 40, Y: 60}) {
		t.Errorf("Unexpected position %+v", tr.Position)
	}

	// 第二次恢复走原地复位路径
	report = s.Recover()
	if len(report.Restored) != 1 || len(report.Recreated) != 0 {
		t.Errorf("Second recovery should restore in place, got %+v", report)
	}
}

// TestLevelRecovery_MissingContainerFallsBackToRoot 测试容器不存在时插入关卡根节点
func TestLevelRecovery_MissingContainerFallsBackToRoot(t *testing.T) {
	em, bus, player := newRecoveryScene()
	key := newRecoverableObject(em, "key", 1, 2)

	s := NewLevelRecoverySystem(em, bus, "missing", nil)
	s.CaptureAnchor(player)
	s.Capture()
	em.DestroyEntity(key)

	s.Recover()

	parent, ok := ecs.GetComponent[*components.ParentComponent](em, s.Records()[0].Live)
	if !ok || parent.Parent != uint64(ecs.InvalidEntity) {
		t.Errorf("Expected level root parent, got %+v", parent)
	}
}

// TestLevelRecovery_PartialFailure 测试单个实体无法恢复时其余实体仍然恢复
func TestLevelRecovery_PartialFailure(t *testing.T) {
	em, bus, player := newRecoveryScene()
	events := event.NewRecorder(bus, event.RecoveryFailed)
	a := newRecoverableObject(em, "a", 1, 1)
	b := newRecoverableObject(em, "b", 2, 2)
	c := newRecoverableObject(em, "c", 3, 3)

	s := NewLevelRecoverySystem(em, bus, "props", nil)
	s.CaptureAnchor(player)
	s.Capture()

	em.DestroyEntity(b)
	s.Records()[1].Template.Discard()
	trA, _ := ecs.GetComponent[*components.TransformComponent](em, a)
	trA.Position.X = 50

	report := s.Recover()

	if len(report.Failed) != 1 || report.Failed[0].Name != "b" {
		t.Fatalf("Expected exactly b to fail, got %+v", report.Failed)
	}
	if !errors.Is(report.Err(), ErrEntityUnrecoverable) {
		t.Errorf("Expected ErrEntityUnrecoverable, got %v", report.Err())
	}
	if len(report.Restored) != 2 {
		t.Errorf("Expected a and c restored, got %v", report.Restored)
	}
	if trA.Position.X != 1 {
		t.Errorf("a should be restored, got %+v", trA.Position)
	}
	if !em.IsAlive(c) {
		t.Error("c should still be alive")
	}
	if events.Count(event.RecoveryFailed) != 1 {
		t.Errorf("Expected 1 RecoveryFailed, got %d", events.Count(event.RecoveryFailed))
	}
	if e, _ := events.Last(event.RecoveryFailed); e.Entity != 1 || e.Message != "b" {
		t.Errorf("Unexpected failure event %+v", e)
	}
}

// TestLevelRecovery_PurgesEphemeral 测试删除全部临时实体
func TestLevelRecovery_PurgesEphemeral(t *testing.T) {
	em, bus, player := newRecoveryScene()
	for i := 0; i < 3; i++ {
		id := em.CreateEntity()
		ecs.AddComponent(em, id, &components.EphemeralComponent{Classification: components.ClassificationInventoryDrop})
		ecs.AddComponent(em, id, components.NewTransform(float64(i), 0))
	}
	other := em.CreateEntity()
	ecs.AddComponent(em, other, &components.EphemeralComponent{Classification: "particle"})

	s := NewLevelRecoverySystem(em, bus, "props", func(e *components.EphemeralComponent) bool {
		return e.Classification == components.ClassificationInventoryDrop
	})
	s.CaptureAnchor(player)
	s.Capture()

	report := s.Recover()
	em.RemoveMarkedEntities()

	if report.EphemeralPurged != 3 {
		t.Errorf("Expected 3 purged, got %d", report.EphemeralPurged)
	}
	if !em.IsAlive(other) {
		t.Error("Unclassified ephemeral entity should survive")
	}
	if n := len(ecs.GetEntitiesWith1[*components.EphemeralComponent](em)); n != 1 {
		t.Errorf("Expected 1 ephemeral left, got %d", n)
	}
}

// TestLevelRecovery_ClearsLatches 测试清除"已判负"锁存
func TestLevelRecovery_ClearsLatches(t *testing.T) {
	em, bus, _ := newRecoveryScene()
	id := em.CreateEntity()
	latch := &components.DefeatLatchComponent{Name: "void-fall", Latched: true}
	ecs.AddComponent(em, id, latch)

	s := NewLevelRecoverySystem(em, bus, "props", nil)
	report := s.Recover()

	if latch.Latched {
		t.Error("Latch should be cleared")
	}
	if report.LatchesCleared != 1 {
		t.Errorf("Expected 1 latch cleared, got %d", report.LatchesCleared)
	}
	if report.AnchorRestored {
		t.Error("No anchor was captured")
	}
}

// TestLevelRecovery_CaptureOnce 测试恢复记录只捕获一次
func TestLevelRecovery_CaptureOnce(t *testing.T) {
	em, bus, _ := newRecoveryScene()
	newRecoverableObject(em, "a", 1, 1)

	s := NewLevelRecoverySystem(em, bus, "props", nil)
	s.Capture()
	newRecoverableObject(em, "late", 2, 2)

	if n := s.Capture(); n != 1 {
		t.Errorf("Second capture should not rebuild records, got %d", n)
	}
	if !s.IsCaptured() {
		t.Error("Expected captured")
	}
}

// TestLevelRecovery_SkipsNonRecoverable 测试不可恢复物体不被捕获
func TestLevelRecovery_SkipsNonRecoverable(t *testing.T) {
	em, bus, _ := newRecoveryScene()
	id := newRecoverableObject(em, "scenery", 1, 1)
	obj, _ := ecs.GetComponent[*components.LevelObjectComponent](em, id)
	obj.Recoverable = false

	s := NewLevelRecoverySystem(em, bus, "props", nil)
	if n := s.Capture(); n != 0 {
		t.Errorf("Expected 0 records, got %d", n)
	}
}
