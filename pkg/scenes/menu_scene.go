package scenes

import (
	"fmt"
	"log"

	"github.com/decker502/timelock/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// MenuScene 主菜单：选择关卡开始新游戏，或打开设置
type MenuScene struct {
	svc      *Services
	levelIDs []string
	selected int
}

// NewMenuScene 创建主菜单
// 进入菜单时倒计时停止，指针可见
func NewMenuScene(svc *Services) *MenuScene {
	svc.Session.Clock.Stop()
	if svc.Session.Pointer != nil {
		svc.Session.Pointer.Show()
	}
	m := &MenuScene{
		svc:      svc,
		levelIDs: svc.Catalog.IDs(),
	}
	log.Printf("[MenuScene] %d levels available", len(m.levelIDs))
	return m
}

// Selected 返回当前选中的关卡ID
func (m *MenuScene) Selected() (string, bool) {
	if len(m.levelIDs) == 0 {
		return "", false
	}
	return m.levelIDs[m.selected], true
}

// Update 菜单没有模拟逻辑
func (m *MenuScene) Update(deltaTime float64) {}

// HandleInput 处理菜单输入
func (m *MenuScene) HandleInput(c Controls) {
	if m.svc.Settings.IsActive() {
		handleSettingsInput(m.svc.Settings, c)
		return
	}

	n := len(m.levelIDs)
	switch {
	case n == 0:
		return
	case c.MenuUp:
		m.selected = (m.selected - 1 + n) % n
	case c.MenuDown:
		m.selected = (m.selected + 1) % n
	case c.Back:
		m.svc.Settings.ShowFrom("")
	case c.Confirm:
		id, _ := m.Selected()
		if m.svc.StartGame(id) && m.svc.Session.Pointer != nil {
			m.svc.Session.Pointer.Hide()
		}
	}
}

// Draw 绘制菜单
func (m *MenuScene) Draw(screen *ebiten.Image) {
	if screen == nil {
		return
	}
	if m.svc.Settings.IsActive() {
		m.svc.Settings.Draw(screen)
		return
	}

	text := "TIMELOCK\n\n"
	for i, id := range m.levelIDs {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		name := id
		if level, err := m.svc.Catalog.Get(id); err == nil {
			name = level.Name
		}
		text += fmt.Sprintf("%s%s\n", cursor, name)
	}
	text += "\n[Enter] Start   [Esc] Settings"
	ebitenutil.DebugPrintAt(screen, text, 24, 24)
}

var _ game.Scene = (*MenuScene)(nil)
