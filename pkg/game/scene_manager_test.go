package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// MockScene is a mock implementation of the Scene interface for testing.
type MockScene struct {
	updateCalled bool
	drawCalled   bool
	exitCalls    int
	deltaTime    float64
}

// Update records that Update was called and stores the deltaTime.
func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

// Draw records that Draw was called.
func (m *MockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

// OnExit records scene exits.
func (m *MockScene) OnExit() {
	m.exitCalls++
}

// TestNewSceneManager verifies that NewSceneManager creates a valid instance.
func TestNewSceneManager(t *testing.T) {
	sm := NewSceneManager()
	if sm == nil {
		t.Fatal("NewSceneManager() returned nil")
	}
	if sm.GetCurrentScene() != nil {
		t.Error("Expected currentScene to be nil initially")
	}
}

// TestSceneManagerUpdate verifies that Update calls the current scene's Update method.
func TestSceneManagerUpdate(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	deltaTime := 0.016 // ~60 FPS
	sm.Update(deltaTime)

	if !mockScene.updateCalled {
		t.Error("Scene's Update method was not called")
	}
	if mockScene.deltaTime != deltaTime {
		t.Errorf("Expected deltaTime %.3f, got %.3f", deltaTime, mockScene.deltaTime)
	}
}

// TestSceneManagerNoScene verifies that Update and Draw handle a nil scene gracefully.
func TestSceneManagerNoScene(t *testing.T) {
	sm := NewSceneManager()
	sm.Update(0.016)
	sm.Draw(nil)
}

// TestSceneManagerDraw verifies that Draw calls the current scene's Draw method.
func TestSceneManagerDraw(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	sm.Draw(nil)
	if !mockScene.drawCalled {
		t.Error("Scene's Draw method was not called")
	}
}

// TestSceneManagerSwitchCallsOnExit 测试切换场景时旧场景收到 OnExit
func TestSceneManagerSwitchCallsOnExit(t *testing.T) {
	sm := NewSceneManager()
	scene1 := &MockScene{}
	scene2 := &MockScene{}

	sm.SwitchTo(scene1)
	sm.SwitchTo(scene1) // 切换到同一场景不触发 OnExit
	if scene1.exitCalls != 0 {
		t.Errorf("Switching to the same scene should not exit it, got %d", scene1.exitCalls)
	}

	sm.SwitchTo(scene2)
	if scene1.exitCalls != 1 {
		t.Errorf("Expected scene1 OnExit once, got %d", scene1.exitCalls)
	}
	if sm.GetCurrentScene() != scene2 {
		t.Error("Current scene should be scene2")
	}
}

// TestSceneManagerLoadLevel 测试通过工厂加载关卡
func TestSceneManagerLoadLevel(t *testing.T) {
	sm := NewSceneManager()
	if sm.LoadLevel("bridge") {
		t.Error("LoadLevel without factory should fail")
	}

	var requested string
	sm.SetSceneFactory(func(levelID string) Scene {
		requested = levelID
		if levelID == "missing" {
			return nil
		}
		return &MockScene{}
	})

	if !sm.LoadLevel("bridge") || requested != "bridge" {
		t.Errorf("Expected bridge to load, requested=%q", requested)
	}
	current := sm.GetCurrentScene()

	if sm.LoadLevel("missing") {
		t.Error("LoadLevel should fail when the factory returns nil")
	}
	if sm.GetCurrentScene() != current {
		t.Error("Failed load should keep the current scene")
	}
}

// TestSceneManagerReturnToMenu 测试返回菜单
func TestSceneManagerReturnToMenu(t *testing.T) {
	sm := NewSceneManager()
	level := &MockScene{}
	menu := &MockScene{}
	sm.SwitchTo(level)

	sm.ReturnToMenu() // 未设置工厂时保持当前场景
	if sm.GetCurrentScene() != level {
		t.Error("ReturnToMenu without factory should keep the current scene")
	}

	sm.SetMenuFactory(func() Scene { return menu })
	sm.ReturnToMenu()
	if sm.GetCurrentScene() != menu {
		t.Error("Expected menu scene")
	}
	if level.exitCalls != 1 {
		t.Errorf("Level scene should receive OnExit, got %d", level.exitCalls)
	}
}
