package game

import "log"

// TickCategory tick 分类
type TickCategory int

const (
	// TickPausable 普通玩法节点，暂停时停止更新
	TickPausable TickCategory = iota
	// TickAlways 暂停期间仍然更新（倒计时、生命池、失败界面淡入等）
	TickAlways
)

// Ticker 每帧更新的对象
type Ticker interface {
	Update(deltaTime float64)
}

// TickerFunc 函数适配器
type TickerFunc func(deltaTime float64)

// Update 实现 Ticker
func (f TickerFunc) Update(deltaTime float64) {
	f(deltaTime)
}

// SimulationClock 模拟时钟
//
// 取代全局暂停标志：同一个帧驱动喂给两类 ticker，
// TickAlways 每帧都更新，TickPausable 仅在未暂停时更新。
// 同一帧内先更新 TickAlways，再更新 TickPausable，各自按注册顺序。
type SimulationClock struct {
	always   []tickerEntry
	pausable []tickerEntry
	paused   bool
	frame    uint64
	nextID   TickerHandle
}

// TickerHandle 注册句柄，用于 Unregister
type TickerHandle uint64

type tickerEntry struct {
	handle TickerHandle
	ticker Ticker
}

// NewSimulationClock 创建模拟时钟
func NewSimulationClock() *SimulationClock {
	return &SimulationClock{}
}

// Register 按分类注册 ticker，返回用于移除的句柄
func (c *SimulationClock) Register(category TickCategory, t Ticker) TickerHandle {
	if t == nil {
		return 0
	}
	c.nextID++
	entry := tickerEntry{handle: c.nextID, ticker: t}
	switch category {
	case TickAlways:
		c.always = append(c.always, entry)
	default:
		c.pausable = append(c.pausable, entry)
	}
	return entry.handle
}

// Unregister 按句柄移除 ticker（两类中都查找）
func (c *SimulationClock) Unregister(h TickerHandle) {
	c.always = removeTicker(c.always, h)
	c.pausable = removeTicker(c.pausable, h)
}

// ClearPausable 移除全部可暂停 ticker（切换关卡时使用）
func (c *SimulationClock) ClearPausable() {
	c.pausable = nil
}

func removeTicker(list []tickerEntry, h TickerHandle) []tickerEntry {
	out := make([]tickerEntry, 0, len(list))
	for _, e := range list {
		if e.handle != h {
			out = append(out, e)
		}
	}
	return out
}

// Advance 推进一帧
func (c *SimulationClock) Advance(deltaTime float64) {
	c.frame++

	// 复制切片：ticker 在更新中可能注册或移除其他 ticker
	always := append([]tickerEntry(nil), c.always...)
	for _, e := range always {
		e.ticker.Update(deltaTime)
	}

	if c.paused {
		return
	}
	pausable := append([]tickerEntry(nil), c.pausable...)
	for _, e := range pausable {
		// 上一个 ticker 可能刚刚暂停了模拟
		if c.paused {
			return
		}
		e.ticker.Update(deltaTime)
	}
}

// Pause 暂停可暂停的 ticker
func (c *SimulationClock) Pause() {
	if !c.paused {
		log.Printf("[SimulationClock] Paused at frame %d", c.frame)
	}
	c.paused = true
}

// Resume 恢复可暂停的 ticker
func (c *SimulationClock) Resume() {
	if c.paused {
		log.Printf("[SimulationClock] Resumed at frame %d", c.frame)
	}
	c.paused = false
}

// IsPaused 是否处于暂停状态
func (c *SimulationClock) IsPaused() bool {
	return c.paused
}

// Frame 返回已推进的帧数
func (c *SimulationClock) Frame() uint64 {
	return c.frame
}
