package scenes

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/decker502/timelock/pkg/components"
	"github.com/decker502/timelock/pkg/config"
	"github.com/decker502/timelock/pkg/ecs"
	"github.com/decker502/timelock/pkg/game"
	"github.com/decker502/timelock/pkg/modules"
	"github.com/decker502/timelock/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	// PlayerSpeed 玩家移动速度（像素/秒）
	PlayerSpeed = 160.0
	// PickUpRadius 拾取距离（像素）
	PickUpRadius = 48.0
	// DropOffsetX 丢下的物品相对玩家的水平偏移
	DropOffsetX = 24.0
)

// LevelScene 关卡场景
//
// 关卡的拥有者：根据 LevelConfig 创建实体、布防倒计时、
// 注册移动和坠落检测（可暂停），并作为失败提示的恢复钩子。
// 可恢复物体的捕获推迟到第一帧，等物体自身初始化完成之后进行。
type LevelScene struct {
	svc   *Services
	level *config.LevelConfig

	entityManager *ecs.EntityManager
	recovery      *systems.LevelRecoverySystem
	movement      *systems.MovementSystem
	voidFall      *systems.VoidFallSystem
	handles       []game.TickerHandle

	player    ecs.EntityID
	container ecs.EntityID

	entryInventory []string
	pendingScale   map[ecs.EntityID]float64
	initialized    bool
	exited         bool
}

// NewLevelScene 创建关卡场景并布防倒计时
func NewLevelScene(svc *Services, level *config.LevelConfig) *LevelScene {
	em := ecs.NewEntityManager()
	s := &LevelScene{
		svc:            svc,
		level:          level,
		entityManager:  em,
		entryInventory: append([]string(nil), level.Inventory...),
		pendingScale:   make(map[ecs.EntityID]float64),
	}

	s.container = em.CreateEntity()
	ecs.AddComponent(em, s.container, &components.ContainerComponent{Name: level.Container})

	s.player = em.CreateEntity()
	ecs.AddComponent(em, s.player, &components.PlayerComponent{Inventory: append([]string(nil), level.Inventory...)})
	ecs.AddComponent(em, s.player, components.NewTransform(level.Anchor.X, level.Anchor.Y))
	ecs.AddComponent(em, s.player, &components.VelocityComponent{})

	for _, obj := range level.Objects {
		s.createObject(obj)
	}

	s.recovery = systems.NewLevelRecoverySystem(em, svc.Session.Bus, level.Container,
		func(e *components.EphemeralComponent) bool {
			return level.IsEphemeralClass(e.Classification)
		})
	s.recovery.CaptureAnchor(s.player)

	s.movement = systems.NewMovementSystem(em)
	s.voidFall = systems.NewVoidFallSystem(em, svc.Prompt, level.VoidY)
	s.handles = append(s.handles,
		svc.Session.Sim.Register(game.TickPausable, s.movement),
		svc.Session.Sim.Register(game.TickPausable, s.voidFall),
	)

	svc.Prompt.SetRecoverer(s)
	svc.Session.Clock.Arm(level.Duration(), level.Name)

	log.Printf("[LevelScene] Entered %q (%d objects, %d lives)", level.ID, len(level.Objects), svc.Session.Lives.Current())
	return s
}

// createObject 创建关卡物体
// 缩放在物体初始化时才应用，创建时保持 1
func (s *LevelScene) createObject(obj config.ObjectConfig) ecs.EntityID {
	em := s.entityManager
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.LevelObjectComponent{
		Name:        obj.Name,
		Kind:        obj.Kind,
		Recoverable: obj.Recoverable,
	})
	ecs.AddComponent(em, id, components.NewTransform(obj.X, obj.Y))
	ecs.AddComponent(em, id, &components.VisibilityComponent{Visible: true, Active: true})
	ecs.AddComponent(em, id, &components.ParentComponent{Parent: uint64(s.container)})
	s.pendingScale[id] = obj.Scale
	return id
}

// initializeObjects 物体自身初始化：应用缩放并标记完成
func (s *LevelScene) initializeObjects() {
	for _, id := range ecs.GetEntitiesWith2[*components.LevelObjectComponent, *components.TransformComponent](s.entityManager) {
		obj, _ := ecs.GetComponent[*components.LevelObjectComponent](s.entityManager, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		if scale, ok := s.pendingScale[id]; ok {
			transform.Scale = components.Vec2{X: scale, Y: scale}
		}
		obj.Initialized = true
	}
	s.pendingScale = nil
}

// ensureInitialized 完成物体初始化并捕获恢复记录，只执行一次
// 改变场景的玩家操作在执行前都要先调用，保证捕获发生在任何交互之前
func (s *LevelScene) ensureInitialized() {
	if s.initialized {
		return
	}
	s.initializeObjects()
	s.recovery.Capture()
	s.initialized = true
}

// Update 更新关卡
// 第一帧先完成物体初始化和恢复记录捕获，再推进模拟时钟
func (s *LevelScene) Update(deltaTime float64) {
	if s.exited {
		return
	}
	s.ensureInitialized()

	s.svc.Session.Sim.Advance(deltaTime)
	s.entityManager.RemoveMarkedEntities()
}

// Recover 重生恢复：恢复场景并把背包还原为进入关卡时的状态
func (s *LevelScene) Recover() systems.RecoveryReport {
	report := s.recovery.Recover()
	if player, ok := ecs.GetComponent[*components.PlayerComponent](s.entityManager, s.player); ok {
		player.Inventory = append([]string(nil), s.entryInventory...)
	}
	s.entityManager.RemoveMarkedEntities()
	return report
}

// MovePlayer 设置玩家移动方向（-1/0/1）
func (s *LevelScene) MovePlayer(dirX, dirY float64) {
	vel, ok := ecs.GetComponent[*components.VelocityComponent](s.entityManager, s.player)
	if !ok {
		return
	}
	vel.VX = dirX * PlayerSpeed
	vel.VY = dirY * PlayerSpeed
}

// PlayerPosition 返回玩家位置
func (s *LevelScene) PlayerPosition() components.Vec2 {
	transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, s.player)
	if !ok {
		return components.Vec2{}
	}
	return transform.Position
}

// SetPlayerPosition 直接放置玩家（传送、调试、无头模拟）
func (s *LevelScene) SetPlayerPosition(x, y float64) {
	if transform, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, s.player); ok {
		transform.Position = components.Vec2{X: x, Y: y}
	}
}

// Inventory 返回玩家背包
func (s *LevelScene) Inventory() []string {
	player, ok := ecs.GetComponent[*components.PlayerComponent](s.entityManager, s.player)
	if !ok {
		return nil
	}
	return player.Inventory
}

// PickUp 拾取指定名称的关卡物体：物体从场景中删除并放入背包
func (s *LevelScene) PickUp(name string) bool {
	s.ensureInitialized()
	id, ok := s.findObject(name)
	if !ok {
		return false
	}
	player, ok := ecs.GetComponent[*components.PlayerComponent](s.entityManager, s.player)
	if !ok {
		return false
	}
	player.Inventory = append(player.Inventory, name)
	s.entityManager.DestroyEntity(id)
	log.Printf("[LevelScene] Picked up %q", name)
	return true
}

// PickUpNearest 拾取玩家附近最近的物体
func (s *LevelScene) PickUpNearest() (string, bool) {
	pos := s.PlayerPosition()
	best, bestDist := "", math.MaxFloat64
	for _, id := range ecs.GetEntitiesWith2[*components.LevelObjectComponent, *components.TransformComponent](s.entityManager) {
		obj, _ := ecs.GetComponent[*components.LevelObjectComponent](s.entityManager, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		d := math.Hypot(transform.Position.X-pos.X, transform.Position.Y-pos.Y)
		if d <= PickUpRadius && d < bestDist {
			best, bestDist = obj.Name, d
		}
	}
	if best == "" {
		return "", false
	}
	return best, s.PickUp(best)
}

// DropItem 把背包中的物品丢在玩家脚下，生成一个临时副本
// 临时副本不是关卡物体，重生时会被清除
func (s *LevelScene) DropItem(name string) bool {
	s.ensureInitialized()
	player, ok := ecs.GetComponent[*components.PlayerComponent](s.entityManager, s.player)
	if !ok {
		return false
	}
	idx := -1
	for i, item := range player.Inventory {
		if item == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	player.Inventory = append(player.Inventory[:idx], player.Inventory[idx+1:]...)

	pos := s.PlayerPosition()
	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.EphemeralComponent{
		Classification: components.ClassificationInventoryDrop,
		SourceName:     name,
	})
	ecs.AddComponent(s.entityManager, id, components.NewTransform(pos.X+DropOffsetX, pos.Y))
	ecs.AddComponent(s.entityManager, id, &components.VisibilityComponent{Visible: true, Active: true})
	ecs.AddComponent(s.entityManager, id, &components.ParentComponent{Parent: uint64(s.container)})
	log.Printf("[LevelScene] Dropped %q", name)
	return true
}

// DropLast 丢下背包中最后一件物品
func (s *LevelScene) DropLast() bool {
	inv := s.Inventory()
	if len(inv) == 0 {
		return false
	}
	return s.DropItem(inv[len(inv)-1])
}

func (s *LevelScene) findObject(name string) (ecs.EntityID, bool) {
	for _, id := range ecs.GetEntitiesWith1[*components.LevelObjectComponent](s.entityManager) {
		obj, _ := ecs.GetComponent[*components.LevelObjectComponent](s.entityManager, id)
		if obj.Name == name {
			return id, true
		}
	}
	return ecs.InvalidEntity, false
}

// Complete 关卡完成，进入下一关（生命数保持不变）
// 最后一关完成后返回菜单
func (s *LevelScene) Complete() {
	next, ok := s.svc.Catalog.Next(s.level.ID)
	if !ok {
		log.Printf("[LevelScene] %q was the last level, returning to menu", s.level.ID)
		s.svc.Session.Clock.Stop()
		s.svc.Scenes.ReturnToMenu()
		return
	}
	log.Printf("[LevelScene] %q complete, next level %q", s.level.ID, next.ID)
	s.svc.Scenes.LoadLevel(next.ID)
}

// OnExit 注销本关卡注册的可暂停 ticker 并解除恢复钩子绑定
func (s *LevelScene) OnExit() {
	if s.exited {
		return
	}
	s.exited = true
	for _, h := range s.handles {
		s.svc.Session.Sim.Unregister(h)
	}
	s.handles = nil
	s.svc.Prompt.ReleaseRecoverer(s)
	log.Printf("[LevelScene] Exited %q", s.level.ID)
}

// Config 返回关卡配置
func (s *LevelScene) Config() *config.LevelConfig {
	return s.level
}

// EntityManager 返回关卡场景图
func (s *LevelScene) EntityManager() *ecs.EntityManager {
	return s.entityManager
}

// RecoverySystem 返回恢复系统
func (s *LevelScene) RecoverySystem() *systems.LevelRecoverySystem {
	return s.recovery
}

// HandleInput 处理一帧输入
// 优先级：最终失败界面 > 重试提示 > 设置面板 > 暂停菜单 > 玩法
func (s *LevelScene) HandleInput(c Controls) {
	svc := s.svc

	if svc.Terminal.IsShown() {
		if c.Confirm {
			svc.Terminal.Confirm()
		}
		return
	}

	if svc.Prompt.State() == systems.PromptRetryOffered {
		if c.Confirm {
			svc.Prompt.ConfirmRetry()
		}
		return
	}

	if svc.Settings.IsActive() {
		handleSettingsInput(svc.Settings, c)
		return
	}

	if svc.PauseMenu.IsActive() {
		switch {
		case c.Pause:
			svc.PauseMenu.Toggle()
		case c.MenuUp:
			svc.PauseMenu.MoveSelection(-1)
		case c.MenuDown:
			svc.PauseMenu.MoveSelection(1)
		case c.Confirm:
			svc.PauseMenu.Activate()
		}
		return
	}

	if c.Pause {
		svc.PauseMenu.Show()
		s.MovePlayer(0, 0)
		return
	}

	dx, dy := 0.0, 0.0
	if c.Left {
		dx--
	}
	if c.Right {
		dx++
	}
	if c.Up {
		dy--
	}
	if c.Down {
		dy++
	}
	s.MovePlayer(dx, dy)

	if c.PickUp {
		s.PickUpNearest()
	}
	if c.Drop {
		s.DropLast()
	}
}

// Draw 绘制关卡（调试文字渲染）
func (s *LevelScene) Draw(screen *ebiten.Image) {
	if screen == nil {
		return
	}
	svc := s.svc
	settings := svc.Settings.Settings()

	for _, id := range ecs.GetEntitiesWith2[*components.LevelObjectComponent, *components.TransformComponent](s.entityManager) {
		obj, _ := ecs.GetComponent[*components.LevelObjectComponent](s.entityManager, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		if vis, ok := ecs.GetComponent[*components.VisibilityComponent](s.entityManager, id); ok && !vis.Visible {
			continue
		}
		ebitenutil.DebugPrintAt(screen, "["+obj.Name+"]", int(transform.Position.X), int(transform.Position.Y))
	}
	for _, id := range ecs.GetEntitiesWith2[*components.EphemeralComponent, *components.TransformComponent](s.entityManager) {
		eph, _ := ecs.GetComponent[*components.EphemeralComponent](s.entityManager, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		ebitenutil.DebugPrintAt(screen, "("+eph.SourceName+")", int(transform.Position.X), int(transform.Position.Y))
	}
	pos := s.PlayerPosition()
	ebitenutil.DebugPrintAt(screen, "@", int(pos.X), int(pos.Y))

	hud := fmt.Sprintf("%s   Lives: %d/%d", s.level.Name, svc.Session.Lives.Current(), svc.Session.Lives.Max())
	if settings.ShowTimer {
		hud += fmt.Sprintf("   Time: %s", formatRemaining(svc.Session.Clock.Remaining().Seconds()))
	}
	if inv := s.Inventory(); len(inv) > 0 {
		hud += "\nInventory: " + strings.Join(inv, ", ")
	}
	if settings.ShowHints && s.level.Description != "" {
		hud += "\n" + s.level.Description
	}
	ebitenutil.DebugPrint(screen, hud)

	switch {
	case svc.Terminal.IsShown():
		ebitenutil.DebugPrintAt(screen, svc.Terminal.Message()+"\n[Enter] Return to main menu", 240, 240)
	case svc.Prompt.State() == systems.PromptRetryOffered:
		if svc.Prompt.FadeAlpha() > 0.5 {
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s\n[Enter] Retry (%d lives left)",
				svc.Prompt.Reason(), svc.Session.Lives.Current()), 240, 240)
		}
	}

	svc.PauseMenu.Draw(screen)
	svc.Settings.Draw(screen)
}

// formatRemaining 格式化剩余秒数为 m:ss
func formatRemaining(seconds float64) string {
	total := int(math.Ceil(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// handleSettingsInput 设置面板输入（关卡和菜单共用）
func handleSettingsInput(panel *modules.SettingsPanelModule, c Controls) {
	switch {
	case c.Back || c.Pause:
		panel.Hide()
	case c.ToggleFullscreen:
		panel.ToggleFullscreen()
	case c.ToggleTimer:
		panel.ToggleTimer()
	case c.ToggleHints:
		panel.ToggleHints()
	case c.TextSpeed != 0:
		panel.AdjustTextSpeed(c.TextSpeed)
	}
}
