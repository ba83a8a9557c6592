package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a game scene (e.g., main menu, level).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	// screen is the target image where the scene should be drawn.
	Draw(screen *ebiten.Image)
}

// Exiter 是一个可选接口，场景被切换掉时调用 OnExit
//
// 关卡场景在这里注销自己注册到 SimulationClock 的可暂停 ticker，
// 使下一个场景从干净的模拟时钟开始。
type Exiter interface {
	OnExit()
}
