package scenes

import (
	"log"

	"github.com/decker502/timelock/pkg/config"
	"github.com/decker502/timelock/pkg/game"
	"github.com/decker502/timelock/pkg/modules"
	"github.com/decker502/timelock/pkg/systems"
)

// Services 会话级对象，所有场景共享
//
// 失败提示、最终失败界面、暂停菜单跨关卡存在，
// 关卡场景只在进入时把自己绑定为恢复钩子。
type Services struct {
	Session   *game.Session
	Catalog   *config.LevelCatalog
	Scenes    *game.SceneManager
	Prompt    *systems.FailurePromptSystem
	Terminal  *systems.TerminalFailureSystem
	Settings  *modules.SettingsPanelModule
	PauseMenu *modules.PauseMenuModule
}

// NewServices 创建会话级对象并注册场景工厂
//
// 参数:
//   - session: 会话上下文
//   - catalog: 关卡目录
//   - settings: 设置管理器，可为 nil（无头模式）
func NewServices(session *game.Session, catalog *config.LevelCatalog, settings *game.SettingsManager) *Services {
	svc := &Services{
		Session: session,
		Catalog: catalog,
		Scenes:  game.NewSceneManager(),
	}

	svc.Terminal = systems.NewTerminalFailureSystem(session, svc.Scenes.ReturnToMenu)
	svc.Prompt = systems.NewFailurePromptSystem(session, svc.Terminal)
	svc.Settings = modules.NewSettingsPanelModule(session, settings)
	svc.PauseMenu = modules.NewPauseMenuModule(session, svc.Settings, modules.PauseMenuCallbacks{
		OnRestart:  svc.restartCurrentLevel,
		OnMainMenu: svc.Scenes.ReturnToMenu,
	})

	svc.Scenes.SetSceneFactory(func(levelID string) game.Scene {
		level, err := catalog.Get(levelID)
		if err != nil {
			log.Printf("[Scenes] %v", err)
			return nil
		}
		return NewLevelScene(svc, level)
	})
	svc.Scenes.SetMenuFactory(func() game.Scene {
		return NewMenuScene(svc)
	})
	return svc
}

// CurrentLevel 返回当前关卡场景；当前不在关卡中时返回 nil
func (svc *Services) CurrentLevel() *LevelScene {
	level, _ := svc.Scenes.GetCurrentScene().(*LevelScene)
	return level
}

// restartCurrentLevel 重新进入当前关卡（生命不变）
func (svc *Services) restartCurrentLevel() {
	level := svc.CurrentLevel()
	if level == nil {
		return
	}
	svc.Scenes.LoadLevel(level.Config().ID)
}

// StartGame 新游戏：重置生命并进入指定关卡（为空时进入第一关）
func (svc *Services) StartGame(levelID string) bool {
	if levelID == "" {
		first, ok := svc.Catalog.First()
		if !ok {
			log.Printf("[Scenes] No levels available")
			return false
		}
		levelID = first.ID
	}
	svc.Session.StartNewGame()
	return svc.Scenes.LoadLevel(levelID)
}
