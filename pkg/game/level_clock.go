package game

import (
	"log"
	"math"
	"time"

	"github.com/decker502/timelock/pkg/event"
)

// LevelClock 关卡倒计时
//
// 进程内唯一（由 Session 持有），每次进入关卡和每次重生都会重新布防。
// 不变量：0 <= remaining <= limit。
//
// 事件：
//   - 每个运行中的 tick 发布 ClockChanged
//   - 由正数降到 0 的那个 tick 先发布 ClockChanged(0)，再发布 ClockExpired
//   - 每次布防最多发布一次 ClockExpired
type LevelClock struct {
	remaining time.Duration
	limit     time.Duration
	running   bool
	label     string

	// carry 是秒换算成纳秒时舍入留下的零头，累计到下一帧
	carry float64

	bus *event.Bus
}

// NewLevelClock 创建未布防的关卡倒计时
func NewLevelClock(bus *event.Bus) *LevelClock {
	return &LevelClock{bus: bus}
}

// Arm 以给定时限和关卡标签布防并开始计时
// 运行中再次调用等同于重新开始
func (c *LevelClock) Arm(limit time.Duration, label string) {
	if limit < 0 {
		log.Printf("[LevelClock] Warning: negative limit %v for %q, clamped to 0", limit, label)
		limit = 0
	}
	c.limit = limit
	c.remaining = limit
	c.label = label
	c.running = true
	c.carry = 0
	log.Printf("[LevelClock] Armed %q with %v", label, limit)
}

// Rearm 用上一次的时限和标签重新布防
func (c *LevelClock) Rearm() {
	c.Arm(c.limit, c.label)
}

// Tick 推进一个模拟步长
// 未运行时不做任何事；超出剩余时间的部分被截断到 0
func (c *LevelClock) Tick(delta time.Duration) {
	if !c.running {
		return
	}
	if delta < 0 {
		delta = 0
	}

	c.remaining -= delta
	if c.remaining < 0 {
		c.remaining = 0
	}

	expired := c.remaining == 0
	if expired {
		// 先停表再发布事件，处理器中读到的状态与事件一致
		c.running = false
	}

	c.bus.Publish(event.Event{Type: event.ClockChanged, Remaining: c.remaining})
	if expired {
		log.Printf("[LevelClock] %q expired", c.label)
		c.bus.Publish(event.Event{Type: event.ClockExpired, Label: c.label})
	}
}

// Update 实现 Ticker 接口，deltaTime 单位为秒
// 1/60 秒这类步长不能整除纳秒，舍入零头跨帧累计，N 帧之和与 N*deltaTime 相差不超过半纳秒
func (c *LevelClock) Update(deltaTime float64) {
	if !c.running {
		return
	}
	exact := deltaTime*float64(time.Second) + c.carry
	step := time.Duration(math.Round(exact))
	c.carry = exact - float64(step)
	c.Tick(step)
}

// Stop 停止计时（会话结束），剩余时间保持不变
func (c *LevelClock) Stop() {
	c.running = false
}

// Pause 暂停计时（之后可以 Resume），剩余时间保持不变
func (c *LevelClock) Pause() {
	c.running = false
}

// Resume 继续计时
// 已归零的倒计时不能继续，调用是静默的空操作，此时应该重新布防
func (c *LevelClock) Resume() {
	if c.remaining <= 0 {
		return
	}
	c.running = true
}

// Remaining 返回剩余时间
func (c *LevelClock) Remaining() time.Duration {
	return c.remaining
}

// Limit 返回本次布防的时限
func (c *LevelClock) Limit() time.Duration {
	return c.limit
}

// Label 返回关卡标签
func (c *LevelClock) Label() string {
	return c.label
}

// IsRunning 返回是否正在计时
func (c *LevelClock) IsRunning() bool {
	return c.running
}
