package game

import (
	"log"

	"github.com/decker502/timelock/pkg/event"
)

// DefaultMaxLives 默认生命上限
const DefaultMaxLives = 3

// LifePool 生命池
//
// 不变量：0 <= current <= max。
// 只在"新游戏"和"返回菜单"时重置为上限，关卡之间不重置，
// 所以第 N 关的失败会带入第 N+1 关。
type LifePool struct {
	current int
	max     int

	bus *event.Bus
}

// NewLifePool 创建满生命的生命池
// max <= 0 时使用 DefaultMaxLives
func NewLifePool(max int, bus *event.Bus) *LifePool {
	if max <= 0 {
		max = DefaultMaxLives
	}
	return &LifePool{
		current: max,
		max:     max,
		bus:     bus,
	}
}

// ResetToMax 恢复到生命上限并发布 LivesChanged
func (p *LifePool) ResetToMax() {
	p.current = p.max
	log.Printf("[LifePool] Reset to %d", p.max)
	p.bus.Publish(event.Event{Type: event.LivesChanged, Lives: p.current})
}

// LoseOne 扣除一条生命
//
// 生命为 0 时是空操作（不发布事件）。
// 扣除后发布 LivesChanged；结果恰好为 0 时再发布 LivesDepleted。
func (p *LifePool) LoseOne() {
	if p.current == 0 {
		return
	}
	p.current--
	log.Printf("[LifePool] Lost one life, %d/%d remaining", p.current, p.max)

	p.bus.Publish(event.Event{Type: event.LivesChanged, Lives: p.current})
	if p.current == 0 {
		p.bus.Publish(event.Event{Type: event.LivesDepleted, Lives: 0})
	}
}

// GainOne 增加一条生命，已满时是空操作
func (p *LifePool) GainOne() {
	if p.current >= p.max {
		return
	}
	p.current++
	p.bus.Publish(event.Event{Type: event.LivesChanged, Lives: p.current})
}

// HasRemaining 是否还有剩余生命
func (p *LifePool) HasRemaining() bool {
	return p.current > 0
}

// Current 返回当前生命数
func (p *LifePool) Current() int {
	return p.current
}

// Max 返回生命上限
func (p *LifePool) Max() int {
	return p.max
}
