package systems

import (
	"log"

	"github.com/decker502/timelock/pkg/event"
	"github.com/decker502/timelock/pkg/game"
	"github.com/decker502/timelock/pkg/utils"
)

// PromptState 失败提示状态
type PromptState int

const (
	// PromptIdle 等待倒计时归零或即死事件
	PromptIdle PromptState = iota
	// PromptDeciding 根据剩余生命决定走哪条路径（瞬时状态）
	PromptDeciding
	// PromptRetryOffered 已显示"重试"提示，等待玩家确认
	PromptRetryOffered
	// PromptSkippedToTerminal 最后一条命，跳过重试提示直接进入最终失败
	PromptSkippedToTerminal
	// PromptRespawning 执行重生（瞬时状态，完成后回到 Idle）
	PromptRespawning
	// PromptEscalating 确认重试后生命耗尽，转交最终失败
	PromptEscalating
)

var promptStateNames = map[PromptState]string{
	PromptIdle:              "idle",
	PromptDeciding:          "deciding",
	PromptRetryOffered:      "retry-offered",
	PromptSkippedToTerminal: "skipped-to-terminal",
	PromptRespawning:        "respawning",
	PromptEscalating:        "escalating",
}

// String 返回状态名称
func (s PromptState) String() string {
	if name, ok := promptStateNames[s]; ok {
		return name
	}
	return "unknown"
}

const (
	// RetryPromptFadeDuration 重试提示淡入时长（秒）
	RetryPromptFadeDuration = 0.3

	// OutOfLivesMessage 生命耗尽时最终失败界面显示的文字
	OutOfLivesMessage = "You ran out of lives"
)

// FailurePromptSystem 失败提示状态机
//
// 状态流转：
//
//	Idle → Deciding → RetryOffered → Respawning → Idle
//	                               ↘ Escalating → TerminalFailure
//	               ↘ SkippedToTerminal → TerminalFailure
//
// 模态栈注册总是先于暂停，注销总是先于恢复，
// 其他模态不会观察到暂停状态和模态栈不一致的中间状态。
type FailurePromptSystem struct {
	session   *game.Session
	terminal  *TerminalFailureSystem
	recoverer Recoverer

	state  PromptState
	reason string

	// 淡入动画（TickAlways，玩法暂停时仍然播放）
	fadeHandle  game.TickerHandle
	fadeElapsed float64

	unsubscribe []func()
}

// NewFailurePromptSystem 创建失败提示系统并订阅倒计时归零事件
func NewFailurePromptSystem(session *game.Session, terminal *TerminalFailureSystem) *FailurePromptSystem {
	s := &FailurePromptSystem{
		session:  session,
		terminal: terminal,
		state:    PromptIdle,
	}

	s.unsubscribe = append(s.unsubscribe,
		session.Bus.Subscribe(event.ClockExpired, func(e event.Event) {
			s.onExpired("time limit reached: " + e.Label)
		}),
		session.Bus.Subscribe(event.ReturnToMenu, func(event.Event) {
			s.reset()
		}),
	)
	return s
}

// SetRecoverer 绑定当前关卡的恢复钩子
// 关卡切换时由关卡场景重新绑定；传入 nil 表示解除绑定
func (s *FailurePromptSystem) SetRecoverer(r Recoverer) {
	s.recoverer = r
}

// ReleaseRecoverer 仅当当前绑定的是 r 时解除绑定
// 关卡切换时新关卡先于旧关卡退出完成绑定，旧关卡不能覆盖新绑定
func (s *FailurePromptSystem) ReleaseRecoverer(r Recoverer) {
	if s.recoverer == r {
		s.recoverer = nil
	}
}

// State 返回当前状态
func (s *FailurePromptSystem) State() PromptState {
	return s.state
}

// Reason 返回最近一次失败的原因
func (s *FailurePromptSystem) Reason() string {
	return s.reason
}

// FadeAlpha 返回重试提示的透明度（0..1）
func (s *FailurePromptSystem) FadeAlpha() float64 {
	if s.state != PromptRetryOffered {
		return 0
	}
	return utils.EaseOutQuad(utils.Progress(s.fadeElapsed, RetryPromptFadeDuration))
}

// TriggerInstantDeath 即死事件（坠落虚空等）
// 停止倒计时并进入与倒计时归零相同的判定流程
func (s *FailurePromptSystem) TriggerInstantDeath(reason string) {
	if s.state != PromptIdle {
		log.Printf("[FailurePrompt] Ignoring instant death %q in state %s", reason, s.state)
		return
	}
	if s.session.Clock != nil {
		s.session.Clock.Stop()
	}
	s.onExpired(reason)
}

// onExpired Idle → Deciding
func (s *FailurePromptSystem) onExpired(reason string) {
	if s.state != PromptIdle {
		log.Printf("[FailurePrompt] Ignoring failure %q in state %s", reason, s.state)
		return
	}
	s.reason = reason
	s.state = PromptDeciding
	log.Printf("[FailurePrompt] Failure: %s", reason)
	s.decide()
}

// decide Deciding → RetryOffered | SkippedToTerminal
func (s *FailurePromptSystem) decide() {
	lives := s.session.Lives
	if lives == nil {
		log.Printf("[FailurePrompt] Warning: life pool missing, offering retry anyway")
		s.offerRetry()
		return
	}

	if lives.Current() <= 1 {
		// 最后一条命：重试提示没有意义，直接扣命并进入最终失败
		lives.LoseOne()
		s.state = PromptSkippedToTerminal
		log.Printf("[FailurePrompt] Last life lost, skipping retry prompt")
		s.handToTerminal()
		return
	}

	s.offerRetry()
}

// offerRetry 进入 RetryOffered：先注册模态，再暂停
func (s *FailurePromptSystem) offerRetry() {
	s.state = PromptRetryOffered

	if s.session.Modals != nil {
		if err := s.session.Modals.Register(game.ModalRetryPrompt); err != nil {
			log.Printf("[FailurePrompt] Warning: modal registration failed: %v", err)
		}
	} else {
		log.Printf("[FailurePrompt] Warning: modal stack missing, showing prompt anyway")
	}
	s.session.ForcePause()

	s.fadeElapsed = 0
	s.fadeHandle = s.session.Sim.Register(game.TickAlways, game.TickerFunc(func(dt float64) {
		s.fadeElapsed += dt
	}))

	lives := 0
	if s.session.Lives != nil {
		lives = s.session.Lives.Current()
	}
	s.session.Bus.Publish(event.Event{Type: event.RetryOffered, Lives: lives, Message: s.reason})
}

// ConfirmRetry 玩家确认重试
// 只在 RetryOffered 状态下有效
func (s *FailurePromptSystem) ConfirmRetry() {
	if s.state != PromptRetryOffered {
		log.Printf("[FailurePrompt] ConfirmRetry ignored in state %s", s.state)
		return
	}

	lives := s.session.Lives
	if lives == nil {
		log.Printf("[FailurePrompt] Warning: life pool missing on confirm, escalating")
		s.escalate()
		return
	}

	lives.LoseOne()
	if !lives.HasRemaining() {
		s.escalate()
		return
	}
	s.respawn()
}

// respawn RetryOffered → Respawning → Idle
func (s *FailurePromptSystem) respawn() {
	s.state = PromptRespawning
	s.closePrompt()
	s.session.Unpause()

	label := ""
	if clock := s.session.Clock; clock != nil {
		clock.Rearm()
		label = clock.Label()
	} else {
		log.Printf("[FailurePrompt] Warning: level clock missing, not re-armed")
	}

	if s.recoverer != nil {
		report := s.recoverer.Recover()
		if err := report.Err(); err != nil {
			log.Printf("[FailurePrompt] Recovery finished with failures: %v", err)
		}
	} else {
		log.Printf("[FailurePrompt] Warning: no level recovery bound")
	}

	s.state = PromptIdle
	log.Printf("[FailurePrompt] Respawned (%d lives left)", s.session.Lives.Current())
	s.session.Bus.Publish(event.Event{Type: event.RespawnPerformed, Label: label})
}

// escalate RetryOffered → Escalating：注销模态但不恢复玩法
func (s *FailurePromptSystem) escalate() {
	s.state = PromptEscalating
	s.closePrompt()
	log.Printf("[FailurePrompt] Lives depleted, escalating to terminal failure")
	s.handToTerminal()
}

// closePrompt 注销模态并停止淡入动画
func (s *FailurePromptSystem) closePrompt() {
	if s.session.Modals != nil {
		if err := s.session.Modals.Unregister(game.ModalRetryPrompt); err != nil {
			log.Printf("[FailurePrompt] Warning: %v", err)
		}
	}
	s.session.Sim.Unregister(s.fadeHandle)
	s.fadeHandle = 0
}

func (s *FailurePromptSystem) handToTerminal() {
	if s.terminal == nil {
		log.Printf("[FailurePrompt] Error: no terminal failure screen bound")
		return
	}
	s.terminal.Show(OutOfLivesMessage)
}

// reset 控制权交还菜单后回到 Idle
func (s *FailurePromptSystem) reset() {
	if s.fadeHandle != 0 {
		s.session.Sim.Unregister(s.fadeHandle)
		s.fadeHandle = 0
	}
	s.state = PromptIdle
	s.reason = ""
}

// Close 取消事件订阅
func (s *FailurePromptSystem) Close() {
	for _, unsub := range s.unsubscribe {
		unsub()
	}
	s.unsubscribe = nil
}
