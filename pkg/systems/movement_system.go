package systems

import (
	"github.com/decker502/timelock/pkg/components"
	"github.com/decker502/timelock/pkg/ecs"
)

// MovementSystem 按速度积分位置
// 注册为可暂停 ticker，暂停期间玩家和物体保持静止
type MovementSystem struct {
	entityManager *ecs.EntityManager
}

// NewMovementSystem 创建移动系统
func NewMovementSystem(em *ecs.EntityManager) *MovementSystem {
	return &MovementSystem{entityManager: em}
}

// Update 更新所有带速度的实体
func (s *MovementSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith2[*components.TransformComponent, *components.VelocityComponent](s.entityManager) {
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		vel, _ := ecs.GetComponent[*components.VelocityComponent](s.entityManager, id)

		if vis, ok := ecs.GetComponent[*components.VisibilityComponent](s.entityManager, id); ok && !vis.Active {
			continue
		}

		transform.Position.X += vel.VX * deltaTime
		transform.Position.Y += vel.VY * deltaTime
	}
}
