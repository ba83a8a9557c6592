package systems

import (
	"log"

	"github.com/decker502/timelock/pkg/event"
	"github.com/decker502/timelock/pkg/game"
)

// TerminalFailureSystem 最终失败界面
//
// 生命耗尽时显示，只有一个"返回主菜单"操作。
// Confirm 是整个会话中唯一把生命池重置为上限的路径（新游戏除外）。
type TerminalFailureSystem struct {
	session *game.Session

	shown   bool
	message string

	onMainMenuCallback func()
}

// NewTerminalFailureSystem 创建最终失败界面
// onMainMenu 在确认后调用，负责把控制权交还菜单层，可为 nil
func NewTerminalFailureSystem(session *game.Session, onMainMenu func()) *TerminalFailureSystem {
	return &TerminalFailureSystem{
		session:            session,
		onMainMenuCallback: onMainMenu,
	}
}

// SetMainMenuCallback 设置返回主菜单回调
func (s *TerminalFailureSystem) SetMainMenuCallback(fn func()) {
	s.onMainMenuCallback = fn
}

// IsShown 界面是否正在显示
func (s *TerminalFailureSystem) IsShown() bool {
	return s.shown
}

// Message 返回当前显示的文字
func (s *TerminalFailureSystem) Message() string {
	return s.message
}

// Show 显示最终失败界面：注册模态、暂停玩法、显示指针
func (s *TerminalFailureSystem) Show(message string) {
	if s.shown {
		log.Printf("[TerminalFailure] Already shown, ignoring %q", message)
		return
	}
	s.shown = true
	s.message = message

	if s.session.Modals != nil {
		if err := s.session.Modals.Register(game.ModalTerminalFailure); err != nil {
			log.Printf("[TerminalFailure] Warning: modal registration failed: %v", err)
		}
	}
	s.session.ForcePause()

	log.Printf("[TerminalFailure] Shown: %s", message)
	s.session.Bus.Publish(event.Event{Type: event.TerminalFailureShown, Message: message})
}

// Confirm 唯一可用的操作
//
// 依次执行：注销模态、恢复玩法、生命重置为上限、停止倒计时、
// 清除设置界面留下的路由状态，最后交还菜单层。
func (s *TerminalFailureSystem) Confirm() {
	if !s.shown {
		log.Printf("[TerminalFailure] Confirm ignored, screen not shown")
		return
	}
	s.shown = false
	s.message = ""

	if s.session.Modals != nil {
		if err := s.session.Modals.Unregister(game.ModalTerminalFailure); err != nil {
			log.Printf("[TerminalFailure] Warning: %v", err)
		}
	}
	s.session.Unpause()

	if s.session.Lives != nil {
		s.session.Lives.ResetToMax()
	} else {
		log.Printf("[TerminalFailure] Warning: life pool missing, not reset")
	}
	if s.session.Clock != nil {
		s.session.Clock.Stop()
	}
	if s.session.Router != nil {
		s.session.Router.Clear()
	}

	log.Printf("[TerminalFailure] Confirmed, returning to menu")
	s.session.Bus.Publish(event.Event{Type: event.ReturnToMenu})

	if s.onMainMenuCallback != nil {
		s.onMainMenuCallback()
	}
}
