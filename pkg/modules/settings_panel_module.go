package modules

import (
	"fmt"
	"log"

	"github.com/decker502/timelock/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// TextSpeedStep 每次调整文字速度的步长
const TextSpeedStep = 0.25

// SettingsPanelModule 设置面板
//
// 可以从暂停菜单或主菜单打开，打开来源记录在会话的 SettingsRouter 中，
// 关闭时据此决定返回哪个界面。修改立即写入 SettingsManager 并持久化。
type SettingsPanelModule struct {
	session  *game.Session
	manager  *game.SettingsManager
	active   bool
	onChange func(*game.GameSettings)
}

// NewSettingsPanelModule 创建设置面板
// manager 可为 nil（无头模式），此时只维护模态状态
func NewSettingsPanelModule(session *game.Session, manager *game.SettingsManager) *SettingsPanelModule {
	return &SettingsPanelModule{
		session: session,
		manager: manager,
	}
}

// OnChange 注册设置变化回调（例如切换全屏）
func (m *SettingsPanelModule) OnChange(fn func(*game.GameSettings)) {
	m.onChange = fn
}

// ShowFrom 从指定界面打开设置面板
// 设置面板只能叠在来源界面之上，来源不是栈顶时拒绝打开
func (m *SettingsPanelModule) ShowFrom(from game.ModalID) bool {
	if m.active {
		return true
	}
	if from != "" && !m.session.Modals.IsTop(from) {
		log.Printf("[SettingsPanelModule] Cannot open from %s, it is not the top modal", from)
		return false
	}
	if err := m.session.Modals.Register(game.ModalSettings); err != nil {
		log.Printf("[SettingsPanelModule] Register failed: %v", err)
		return false
	}
	m.session.Router.OpenFrom(from)
	m.active = true
	return true
}

// Hide 关闭设置面板，返回应当回到的界面
func (m *SettingsPanelModule) Hide() (game.ModalID, bool) {
	if !m.active {
		return "", false
	}
	if err := m.session.Modals.Unregister(game.ModalSettings); err != nil {
		return "", false
	}
	m.active = false

	target, ok := m.session.Router.ReturnTarget()
	m.session.Router.Clear()
	m.save()
	return target, ok
}

// IsActive 设置面板是否打开
func (m *SettingsPanelModule) IsActive() bool {
	return m.active
}

// Settings 返回当前设置；没有 SettingsManager 时返回默认值
func (m *SettingsPanelModule) Settings() *game.GameSettings {
	if m.manager == nil {
		return game.DefaultSettings()
	}
	return m.manager.GetSettings()
}

// ToggleFullscreen 切换全屏
func (m *SettingsPanelModule) ToggleFullscreen() {
	if m.manager == nil {
		return
	}
	m.manager.SetFullscreen(!m.manager.GetSettings().Fullscreen)
	m.changed()
}

// ToggleTimer 切换倒计时显示
func (m *SettingsPanelModule) ToggleTimer() {
	if m.manager == nil {
		return
	}
	m.manager.SetShowTimer(!m.manager.GetSettings().ShowTimer)
	m.changed()
}

// ToggleHints 切换提示显示
func (m *SettingsPanelModule) ToggleHints() {
	if m.manager == nil {
		return
	}
	m.manager.SetShowHints(!m.manager.GetSettings().ShowHints)
	m.changed()
}

// AdjustTextSpeed 调整文字速度（步数可正可负，结果会被截断到合法范围）
func (m *SettingsPanelModule) AdjustTextSpeed(steps int) {
	if m.manager == nil {
		return
	}
	m.manager.SetTextSpeed(m.manager.GetSettings().TextSpeed + float64(steps)*TextSpeedStep)
	m.changed()
}

func (m *SettingsPanelModule) changed() {
	if m.onChange != nil {
		m.onChange(m.manager.GetSettings())
	}
}

func (m *SettingsPanelModule) save() {
	if m.manager == nil {
		return
	}
	if err := m.manager.Save(); err != nil {
		log.Printf("[SettingsPanelModule] Warning: failed to save settings: %v", err)
	}
}

// Draw 绘制设置面板
func (m *SettingsPanelModule) Draw(screen *ebiten.Image) {
	if !m.active || screen == nil {
		return
	}
	s := m.Settings()
	text := fmt.Sprintf("== SETTINGS ==\n[F] Fullscreen: %v\n[T] Show timer: %v\n[H] Show hints: %v\n[-/+] Text speed: %.2f\n[Esc] Back",
		s.Fullscreen, s.ShowTimer, s.ShowHints, s.TextSpeed)
	ebitenutil.DebugPrintAt(screen, text, 24, 48)
}
