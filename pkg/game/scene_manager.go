package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 用于创建指定ID的关卡场景，避免循环依赖
type SceneFactory func(levelID string) Scene

// MenuFactory 菜单场景工厂函数类型
type MenuFactory func() Scene

// SceneManager manages the game's high-level state by controlling which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory // 场景工厂函数，用于创建关卡场景
	menuFactory  MenuFactory  // 菜单工厂函数，最终失败界面确认后使用
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置关卡场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SetMenuFactory 设置菜单场景工厂函数
func (sm *SceneManager) SetMenuFactory(factory MenuFactory) {
	sm.menuFactory = factory
}

// SwitchTo changes the active scene to the provided scene.
// The previous scene receives OnExit if it implements Exiter.
func (sm *SceneManager) SwitchTo(scene Scene) {
	if exiter, ok := sm.currentScene.(Exiter); ok && sm.currentScene != scene {
		exiter.OnExit()
	}
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景
//
// 返回：
//   - Scene: 当前场景，如果没有活动场景则返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// LoadLevel 加载指定ID的关卡场景
// levelID: 关卡ID，如 "bridge"
func (sm *SceneManager) LoadLevel(levelID string) bool {
	log.Printf("[SceneManager] Loading level: %s", levelID)

	if sm.sceneFactory == nil {
		log.Printf("[SceneManager] Error: SceneFactory not set")
		return false
	}

	newScene := sm.sceneFactory(levelID)
	if newScene == nil {
		log.Printf("[SceneManager] Error: cannot create level scene: %s", levelID)
		return false
	}
	sm.SwitchTo(newScene)
	log.Printf("[SceneManager] Switched to level: %s", levelID)
	return true
}

// ReturnToMenu 切换到菜单场景
func (sm *SceneManager) ReturnToMenu() {
	if sm.menuFactory == nil {
		log.Printf("[SceneManager] Error: MenuFactory not set")
		return
	}
	sm.SwitchTo(sm.menuFactory())
	log.Printf("[SceneManager] Returned to menu")
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
// deltaTime is the time elapsed since the last update in seconds.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
