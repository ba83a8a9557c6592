package systems

import (
	"fmt"
	"log"

	"github.com/decker502/timelock/pkg/components"
	"github.com/decker502/timelock/pkg/ecs"
	"github.com/decker502/timelock/pkg/event"
)

// EphemeralPredicate 判定临时实体是否需要在重生时清除
type EphemeralPredicate func(*components.EphemeralComponent) bool

// LevelRecoverySystem 重生恢复协议
//
// 关卡开始时捕获玩家起点和可恢复物体，每次成功重生执行：
//  1. 玩家回到关卡起点（没有检查点，只有关卡起点）
//  2. 删除所有属于"临时"分类的实体，不论其位置和状态
//  3. 按捕获顺序恢复每个可恢复物体：
//     a. 原实体仍有效：原地复位位置和缩放并设为可见
//     b. 否则模板有效：由模板重建，插入指定容器（容器不存在时插入关卡根节点）
//     c. 否则：记录失败并继续恢复其余物体
//  4. 清除关卡内的"谜题已判负"锁存
//
// 恢复记录只构建一次，之后只有两个引用的有效性会变化。
type LevelRecoverySystem struct {
	entityManager *ecs.EntityManager
	bus           *event.Bus

	player   ecs.EntityID
	anchor   components.Vec2
	anchored bool

	records  []*RecoverableEntity
	captured bool

	isEphemeral   EphemeralPredicate
	containerName string
}

// NewLevelRecoverySystem 创建恢复系统
//
// 参数：
//   - em: 关卡场景图
//   - bus: 事件总线（发布 RecoveryFailed），可为 nil
//   - containerName: 由模板重建的物体插入的容器名称
//   - isEphemeral: 临时实体判定，nil 时清除所有临时实体
func NewLevelRecoverySystem(em *ecs.EntityManager, bus *event.Bus, containerName string, isEphemeral EphemeralPredicate) *LevelRecoverySystem {
	if isEphemeral == nil {
		isEphemeral = func(*components.EphemeralComponent) bool { return true }
	}
	return &LevelRecoverySystem{
		entityManager: em,
		bus:           bus,
		isEphemeral:   isEphemeral,
		containerName: containerName,
	}
}

// CaptureAnchor 记录玩家实体及其进入关卡时的位置
func (s *LevelRecoverySystem) CaptureAnchor(player ecs.EntityID) bool {
	transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, player)
	if !ok {
		log.Printf("[LevelRecovery] Warning: player %d has no transform, anchor not captured", player)
		return false
	}
	s.player = player
	s.anchor = transform.Position
	s.anchored = true
	log.Printf("[LevelRecovery] Anchor captured at (%.1f, %.1f)", s.anchor.X, s.anchor.Y)
	return true
}

// Capture 捕获所有已完成初始化的可恢复物体
//
// 必须在物体自身初始化之后、玩家任何交互之前调用，且只生效一次；
// 再次调用会被忽略并记录日志。返回捕获的记录数。
func (s *LevelRecoverySystem) Capture() int {
	if s.captured {
		log.Printf("[LevelRecovery] Warning: Capture called twice, records are never rebuilt")
		return len(s.records)
	}
	s.captured = true

	for _, id := range ecs.GetEntitiesWith2[*components.LevelObjectComponent, *components.TransformComponent](s.entityManager) {
		obj, _ := ecs.GetComponent[*components.LevelObjectComponent](s.entityManager, id)
		if !obj.Recoverable {
			continue
		}
		if !obj.Initialized {
			log.Printf("[LevelRecovery] Warning: %q captured before its initialization finished", obj.Name)
		}

		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		template, ok := s.entityManager.Snapshot(id)
		if !ok {
			log.Printf("[LevelRecovery] Warning: cannot snapshot %q, no template fallback", obj.Name)
		}

		s.records = append(s.records, &RecoverableEntity{
			Index:           len(s.records),
			Name:            obj.Name,
			InitialPosition: transform.Position,
			InitialScale:    transform.Scale,
			Live:            id,
			Template:        template,
		})
	}

	log.Printf("[LevelRecovery] Captured %d recoverable entities", len(s.records))
	return len(s.records)
}

// IsCaptured 是否已经捕获
func (s *LevelRecoverySystem) IsCaptured() bool {
	return s.captured
}

// Records 返回恢复记录（按捕获顺序）
func (s *LevelRecoverySystem) Records() []*RecoverableEntity {
	return s.records
}

// Recover 执行一次恢复
// 单个实体失败不会中断其余实体的恢复
func (s *LevelRecoverySystem) Recover() RecoveryReport {
	var report RecoveryReport

	report.AnchorRestored = s.restoreAnchor()
	report.EphemeralPurged = s.purgeEphemeral()

	for _, rec := range s.records {
		switch err := s.restoreEntity(rec, &report); {
		case err != nil:
			failure := RecoveryFailure{Index: rec.Index, Name: rec.Name, Err: err}
			report.Failed = append(report.Failed, failure)
			log.Printf("[LevelRecovery] %v", failure)
			s.bus.Publish(event.Event{
				Type:    event.RecoveryFailed,
				Entity:  uint64(rec.Index),
				Message: rec.Name,
			})
		}
	}

	report.LatchesCleared = s.clearLatches()

	log.Printf("[LevelRecovery] Recovery done: restored=%d recreated=%d failed=%d purged=%d",
		len(report.Restored), len(report.Recreated), len(report.Failed), report.EphemeralPurged)
	return report
}

// restoreAnchor 步骤1：玩家回到关卡起点
func (s *LevelRecoverySystem) restoreAnchor() bool {
	if !s.anchored {
		log.Printf("[LevelRecovery] Warning: no anchor captured, player not moved")
		return false
	}
	if !s.entityManager.IsAlive(s.player) {
		log.Printf("[LevelRecovery] Warning: player entity %d no longer exists", s.player)
		return false
	}
	transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, s.player)
	if !ok {
		return false
	}
	transform.Position = s.anchor
	if vel, ok := ecs.GetComponent[*components.VelocityComponent](s.entityManager, s.player); ok {
		vel.VX, vel.VY = 0, 0
	}
	return true
}

// purgeEphemeral 步骤2：删除临时实体
func (s *LevelRecoverySystem) purgeEphemeral() int {
	purged := 0
	for _, id := range ecs.GetEntitiesWith1[*components.EphemeralComponent](s.entityManager) {
		eph, _ := ecs.GetComponent[*components.EphemeralComponent](s.entityManager, id)
		if !s.isEphemeral(eph) {
			continue
		}
		s.entityManager.DestroyEntity(id)
		purged++
	}
	return purged
}

// restoreEntity 步骤3：恢复单个物体
func (s *LevelRecoverySystem) restoreEntity(rec *RecoverableEntity, report *RecoveryReport) error {
	// 3a. 原实体仍然存在：原地复位
	if s.entityManager.IsAlive(rec.Live) {
		s.applyInitialState(rec.Live, rec)
		report.Restored = append(report.Restored, rec.Name)
		return nil
	}

	// 3b. 由模板重建
	if rec.Template.Valid() {
		id, ok := s.entityManager.Instantiate(rec.Template)
		if !ok {
			return fmt.Errorf("instantiate template: %w", ErrEntityUnrecoverable)
		}
		ecs.AddComponent(s.entityManager, id, &components.ParentComponent{Parent: uint64(s.findContainer())})
		s.applyInitialState(id, rec)
		rec.Live = id
		report.Recreated = append(report.Recreated, rec.Name)
		log.Printf("[LevelRecovery] Recreated %q from template as entity %d", rec.Name, id)
		return nil
	}

	// 3c. 无法恢复
	return ErrEntityUnrecoverable
}

// applyInitialState 写回初始位置、缩放并确保可见、激活
func (s *LevelRecoverySystem) applyInitialState(id ecs.EntityID, rec *RecoverableEntity) {
	transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
	if !ok {
		transform = &components.TransformComponent{}
		ecs.AddComponent(s.entityManager, id, transform)
	}
	transform.Position = rec.InitialPosition
	transform.Scale = rec.InitialScale

	vis, ok := ecs.GetComponent[*components.VisibilityComponent](s.entityManager, id)
	if !ok {
		vis = &components.VisibilityComponent{}
		ecs.AddComponent(s.entityManager, id, vis)
	}
	vis.Visible = true
	vis.Active = true
}

// findContainer 查找关卡指定的容器，找不到时返回关卡根节点（InvalidEntity）
func (s *LevelRecoverySystem) findContainer() ecs.EntityID {
	for _, id := range ecs.GetEntitiesWith1[*components.ContainerComponent](s.entityManager) {
		c, _ := ecs.GetComponent[*components.ContainerComponent](s.entityManager, id)
		if c.Name == s.containerName {
			return id
		}
	}
	log.Printf("[LevelRecovery] Container %q not found, falling back to level root", s.containerName)
	return ecs.InvalidEntity
}

// clearLatches 步骤4：清除"谜题已判负"锁存
func (s *LevelRecoverySystem) clearLatches() int {
	cleared := 0
	for _, id := range ecs.GetEntitiesWith1[*components.DefeatLatchComponent](s.entityManager) {
		latch, _ := ecs.GetComponent[*components.DefeatLatchComponent](s.entityManager, id)
		if latch.Latched {
			latch.Latched = false
			cleared++
		}
	}
	return cleared
}
