package game

import (
	"log"

	"github.com/decker502/timelock/pkg/event"
	"github.com/google/uuid"
)

// Session 会话上下文
//
// 持有进程内唯一的会话服务：倒计时、生命池、模态栈、模拟时钟和事件总线。
// 所有消费者通过构造函数拿到 Session 的引用，不存在包级全局变量，
// 每个测试都可以构造全新的实例。
type Session struct {
	ID string

	Bus     *event.Bus
	Clock   *LevelClock
	Lives   *LifePool
	Modals  *ModalStack
	Sim     *SimulationClock
	Router  *SettingsRouter
	Pointer Pointer // 可为 nil（无头模式）
}

// SessionOptions 会话构造参数
type SessionOptions struct {
	MaxLives int     // <= 0 时使用 DefaultMaxLives
	Pointer  Pointer // 可为 nil
}

// NewSession 创建会话并把倒计时注册为 TickAlways
//
// 倒计时在暂停期间仍然接收 tick，暂停菜单等界面需要显式 Pause/Resume 倒计时。
func NewSession(opts SessionOptions) *Session {
	bus := event.NewBus()
	s := &Session{
		ID:      uuid.NewString(),
		Bus:     bus,
		Clock:   NewLevelClock(bus),
		Lives:   NewLifePool(opts.MaxLives, bus),
		Modals:  NewModalStack(),
		Sim:     NewSimulationClock(),
		Router:  NewSettingsRouter(),
		Pointer: opts.Pointer,
	}
	s.Sim.Register(TickAlways, s.Clock)

	log.Printf("[Session] Created session %s (max lives=%d)", s.ID, s.Lives.Max())
	return s
}

// StartNewGame 新游戏：生命恢复到上限，清除 UI 路由
func (s *Session) StartNewGame() {
	log.Printf("[Session] %s: new game", s.ID)
	s.Lives.ResetToMax()
	s.Router.Clear()
}

// ForcePause 暂停玩法并显示指针
func (s *Session) ForcePause() {
	s.Sim.Pause()
	showPointer(s.Pointer)
}

// Unpause 恢复玩法并隐藏指针
func (s *Session) Unpause() {
	s.Sim.Resume()
	hidePointer(s.Pointer)
}
