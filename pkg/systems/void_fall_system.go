package systems

import (
	"fmt"
	"log"

	"github.com/decker502/timelock/pkg/components"
	"github.com/decker502/timelock/pkg/ecs"
)

// VoidFallReason 坠落虚空时传给失败提示的原因前缀
const VoidFallReason = "fell into the void"

// VoidFallSystem 虚空坠落检测
//
// 玩家 Y 坐标超过关卡的 voidY 时触发即死；
// 检测器自身带"已判负"锁存，触发后不会重复上报，直到重生恢复清除锁存。
type VoidFallSystem struct {
	entityManager *ecs.EntityManager
	prompt        *FailurePromptSystem

	voidY float64
	latch ecs.EntityID
}

// NewVoidFallSystem 创建坠落检测，并在场景中创建锁存实体
// voidY <= 0 表示关卡没有虚空，系统不做任何检测
func NewVoidFallSystem(em *ecs.EntityManager, prompt *FailurePromptSystem, voidY float64) *VoidFallSystem {
	latch := em.CreateEntity()
	ecs.AddComponent(em, latch, &components.DefeatLatchComponent{Name: "void-fall"})

	return &VoidFallSystem{
		entityManager: em,
		prompt:        prompt,
		voidY:         voidY,
		latch:         latch,
	}
}

// IsLatched 检测器是否已经触发
func (s *VoidFallSystem) IsLatched() bool {
	latch, ok := ecs.GetComponent[*components.DefeatLatchComponent](s.entityManager, s.latch)
	return ok && latch.Latched
}

// Update 检测玩家是否坠落
func (s *VoidFallSystem) Update(deltaTime float64) {
	if s.voidY <= 0 {
		return
	}
	latch, ok := ecs.GetComponent[*components.DefeatLatchComponent](s.entityManager, s.latch)
	if !ok || latch.Latched {
		return
	}

	for _, id := range ecs.GetEntitiesWith2[*components.PlayerComponent, *components.TransformComponent](s.entityManager) {
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		if transform.Position.Y <= s.voidY {
			continue
		}

		latch.Latched = true
		log.Printf("[VoidFall] Player %d fell below %.1f", id, s.voidY)
		if s.prompt != nil {
			s.prompt.TriggerInstantDeath(fmt.Sprintf("%s at y=%.0f", VoidFallReason, transform.Position.Y))
		}
		return
	}
}
