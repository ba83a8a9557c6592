// Package app 提供游戏应用的核心包装器
//
// 该包把会话、关卡目录、场景和指标装配在一起，
// 桌面端（cmd/timelock play）通过 ebiten.RunGame 驱动，
// 无头模拟（cmd/timelock simulate）直接调用 Step。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/timelock/pkg/config"
	"github.com/decker502/timelock/pkg/game"
	"github.com/decker502/timelock/pkg/metrics"
	"github.com/decker502/timelock/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	// WindowWidth 逻辑屏幕宽度
	WindowWidth = 800
	// WindowHeight 逻辑屏幕高度
	WindowHeight = 600
	// AppName gdata 存储使用的应用名
	AppName = "timelock"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Level 指定起始关卡，为空时显示主菜单
	Level string
	// Headless 无头模式：不使用光标、不持久化设置
	Headless bool

	Session config.SessionConfig
	Catalog *config.LevelCatalog
	// Metrics 可为 nil
	Metrics *metrics.Metrics
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	services *scenes.Services
	settings *game.SettingsManager

	deltaTime float64
	verbose   bool
}

// NewApp 创建并初始化游戏应用
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	if cfg.Catalog == nil {
		return nil, fmt.Errorf("level catalog is required")
	}
	if err := cfg.Session.Validate(); err != nil {
		return nil, err
	}

	var pointer game.Pointer
	var storage *game.SettingsManager
	if !cfg.Headless {
		pointer = cursorPointer{}
		sm, err := game.NewSettingsManager(game.OpenSettingsStorage(AppName))
		if err != nil {
			return nil, fmt.Errorf("settings: %w", err)
		}
		storage = sm
	}

	session := game.NewSession(game.SessionOptions{
		MaxLives: cfg.Session.MaxLives,
		Pointer:  pointer,
	})
	if cfg.Metrics != nil {
		cfg.Metrics.Attach(session.Bus, session.Lives.Current())
	}

	services := scenes.NewServices(session, cfg.Catalog, storage)
	if storage != nil {
		services.Settings.OnChange(applySettings)
		applySettings(storage.GetSettings())
	}

	a := &App{
		services:  services,
		settings:  storage,
		deltaTime: cfg.Session.DeltaTime(),
		verbose:   cfg.Verbose,
	}

	levelToLoad := cfg.Level
	if levelToLoad == "" {
		levelToLoad = cfg.Session.FirstLevel
	}
	if levelToLoad != "" {
		log.Printf("[App] Starting level: %s", levelToLoad)
		if !services.StartGame(levelToLoad) {
			return nil, fmt.Errorf("cannot start level %q", levelToLoad)
		}
	} else {
		services.Scenes.ReturnToMenu()
	}
	return a, nil
}

// Services 返回会话级对象
func (a *App) Services() *scenes.Services {
	return a.services
}

// Session 返回会话上下文
func (a *App) Session() *game.Session {
	return a.services.Session
}

// DeltaTime 返回固定步长（秒）
func (a *App) DeltaTime() float64 {
	return a.deltaTime
}

// Step 处理一帧输入并推进一帧
func (a *App) Step(c scenes.Controls) {
	if h, ok := a.services.Scenes.GetCurrentScene().(scenes.InputHandler); ok {
		h.HandleInput(c)
	}
	a.services.Scenes.Update(a.deltaTime)
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.services.Settings.ToggleFullscreen()
		if a.settings == nil {
			ebiten.SetFullscreen(!ebiten.IsFullscreen())
		}
	}

	a.Step(readControls())
	return nil
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 24, G: 26, B: 33, A: 255})
	a.services.Scenes.Draw(screen)
}

// Layout 返回游戏的逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}

// readControls 从键盘读取一帧输入
func readControls() scenes.Controls {
	c := scenes.Controls{
		Left:     ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA),
		Right:    ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD),
		Up:       ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW),
		Down:     ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS),
		MenuUp:   inpututil.IsKeyJustPressed(ebiten.KeyArrowUp),
		MenuDown: inpututil.IsKeyJustPressed(ebiten.KeyArrowDown),
		Confirm:  inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace),
		Pause:    inpututil.IsKeyJustPressed(ebiten.KeyEscape),
		Back:     inpututil.IsKeyJustPressed(ebiten.KeyBackspace),
		PickUp:   inpututil.IsKeyJustPressed(ebiten.KeyE),
		Drop:     inpututil.IsKeyJustPressed(ebiten.KeyQ),

		ToggleFullscreen: inpututil.IsKeyJustPressed(ebiten.KeyF),
		ToggleTimer:      inpututil.IsKeyJustPressed(ebiten.KeyT),
		ToggleHints:      inpututil.IsKeyJustPressed(ebiten.KeyH),
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		c.TextSpeed = -1
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		c.TextSpeed = 1
	}
	return c
}

// applySettings 把设置应用到窗口
func applySettings(s *game.GameSettings) {
	if ebiten.IsFullscreen() != s.Fullscreen {
		ebiten.SetFullscreen(s.Fullscreen)
	}
}

// cursorPointer 用系统光标实现 game.Pointer
type cursorPointer struct{}

func (cursorPointer) Show() { ebiten.SetCursorMode(ebiten.CursorModeVisible) }
func (cursorPointer) Hide() { ebiten.SetCursorMode(ebiten.CursorModeHidden) }
