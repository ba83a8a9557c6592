package modules

import (
	"fmt"
	"log"

	"github.com/decker502/timelock/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// PauseMenuItem 暂停菜单选项
type PauseMenuItem int

const (
	PauseItemContinue PauseMenuItem = iota
	PauseItemRestart
	PauseItemSettings
	PauseItemMainMenu
)

var pauseMenuLabels = []string{"Continue", "Restart level", "Settings", "Main menu"}

// PauseMenuModule 暂停菜单模块
//
// 暂停菜单和失败界面共用同一个模态栈：
//   - 打开前检查 ModalStack.HasAny()，失败提示或最终失败界面显示时不能打开
//   - 关闭前检查 ModalStack.IsTop()，设置面板还开着时不能关闭
//   - 打开时先注册再暂停，关闭时先注销再恢复
//
// 倒计时是 TickAlways，暂停菜单需要显式暂停/恢复倒计时。
type PauseMenuModule struct {
	session  *game.Session
	settings *SettingsPanelModule

	active   bool
	selected PauseMenuItem

	// 回调函数（由外部场景提供）
	onContinue func()
	onRestart  func()
	onMainMenu func()
}

// PauseMenuCallbacks 暂停菜单回调函数集合
type PauseMenuCallbacks struct {
	OnContinue func() // "继续"回调（可选）
	OnRestart  func() // "重新开始"回调
	OnMainMenu func() // "返回主菜单"回调
}

// NewPauseMenuModule 创建暂停菜单模块
//
// 参数:
//   - session: 会话上下文（模态栈、模拟时钟、倒计时）
//   - settings: 设置面板，可为 nil（此时"设置"选项不可用）
//   - callbacks: 回调函数集合
func NewPauseMenuModule(session *game.Session, settings *SettingsPanelModule, callbacks PauseMenuCallbacks) *PauseMenuModule {
	return &PauseMenuModule{
		session:    session,
		settings:   settings,
		onContinue: callbacks.OnContinue,
		onRestart:  callbacks.OnRestart,
		onMainMenu: callbacks.OnMainMenu,
	}
}

// Show 打开暂停菜单
// 其他模态界面已经打开时拒绝打开，返回 false
func (m *PauseMenuModule) Show() bool {
	if m.active {
		return true
	}
	if m.session.Modals.HasAny() {
		top, _ := m.session.Modals.Top()
		log.Printf("[PauseMenuModule] Cannot open while %s is shown", top)
		return false
	}
	if err := m.session.Modals.Register(game.ModalPauseMenu); err != nil {
		log.Printf("[PauseMenuModule] Register failed: %v", err)
		return false
	}

	m.session.ForcePause()
	m.session.Clock.Pause()
	m.active = true
	m.selected = PauseItemContinue
	log.Printf("[PauseMenuModule] Shown")
	return true
}

// Hide 关闭暂停菜单
// 暂停菜单不是栈顶（例如设置面板还开着）时拒绝关闭，返回 false
func (m *PauseMenuModule) Hide() bool {
	if !m.active {
		return true
	}
	if !m.session.Modals.IsTop(game.ModalPauseMenu) {
		log.Printf("[PauseMenuModule] Cannot close, pause menu is not the top modal")
		return false
	}
	if err := m.session.Modals.Unregister(game.ModalPauseMenu); err != nil {
		return false
	}

	m.active = false
	m.session.Clock.Resume()
	m.session.Unpause()
	log.Printf("[PauseMenuModule] Hidden")
	return true
}

// Toggle 切换暂停菜单
// 设置面板打开时先关闭设置面板
func (m *PauseMenuModule) Toggle() {
	if !m.active {
		m.Show()
		return
	}
	if m.settings != nil && m.settings.IsActive() {
		m.settings.Hide()
		return
	}
	m.Continue()
}

// IsActive 暂停菜单是否打开
func (m *PauseMenuModule) IsActive() bool {
	return m.active
}

// Selected 返回当前选中的选项
func (m *PauseMenuModule) Selected() PauseMenuItem {
	return m.selected
}

// MoveSelection 上下移动选项（循环）
func (m *PauseMenuModule) MoveSelection(delta int) {
	n := len(pauseMenuLabels)
	m.selected = PauseMenuItem(((int(m.selected)+delta)%n + n) % n)
}

// Activate 执行当前选中的选项
func (m *PauseMenuModule) Activate() {
	if !m.active {
		return
	}
	switch m.selected {
	case PauseItemContinue:
		m.Continue()
	case PauseItemRestart:
		m.Restart()
	case PauseItemSettings:
		m.OpenSettings()
	case PauseItemMainMenu:
		m.MainMenu()
	}
}

// Continue 关闭菜单继续游戏
func (m *PauseMenuModule) Continue() {
	if m.Hide() && m.onContinue != nil {
		m.onContinue()
	}
}

// Restart 关闭菜单并重新开始当前关卡
func (m *PauseMenuModule) Restart() {
	if m.Hide() && m.onRestart != nil {
		m.onRestart()
	}
}

// MainMenu 关闭菜单并返回主菜单
// 返回主菜单不是失败，生命数保持不变，只停止倒计时
func (m *PauseMenuModule) MainMenu() {
	if !m.Hide() {
		return
	}
	m.session.Clock.Stop()
	m.session.Router.Clear()
	if m.onMainMenu != nil {
		m.onMainMenu()
	}
}

// OpenSettings 从暂停菜单打开设置面板
func (m *PauseMenuModule) OpenSettings() bool {
	if m.settings == nil {
		log.Printf("[PauseMenuModule] No settings panel available")
		return false
	}
	return m.settings.ShowFrom(game.ModalPauseMenu)
}

// Draw 绘制暂停菜单
func (m *PauseMenuModule) Draw(screen *ebiten.Image) {
	if !m.active || screen == nil {
		return
	}
	if m.settings != nil && m.settings.IsActive() {
		return
	}

	text := "== PAUSED ==\n"
	for i, label := range pauseMenuLabels {
		cursor := "  "
		if PauseMenuItem(i) == m.selected {
			cursor = "> "
		}
		text += fmt.Sprintf("%s%s\n", cursor, label)
	}
	ebitenutil.DebugPrintAt(screen, text, 24, 48)
}
