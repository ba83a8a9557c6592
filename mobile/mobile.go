//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
//
// 此文件仅在使用 -tags mobile 构建时编译：
//
//	# Android
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.timelock -o build/android/timelock.aar -v ./mobile
//
//	# iOS (仅 macOS)
//	ebitenmobile bind -target ios -tags mobile -o build/ios/Timelock.xcframework -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/decker502/timelock"
	"github.com/decker502/timelock/pkg/app"
	"github.com/decker502/timelock/pkg/config"
	"github.com/decker502/timelock/pkg/embedded"
)

func init() {
	// 初始化嵌入资源
	embedded.Init(timelock.DataFS)

	levels, err := embedded.Sub("data/levels")
	if err != nil {
		log.Fatalf("内置关卡不可用: %v", err)
	}
	catalog, err := config.LoadLevelCatalog(levels, ".")
	if err != nil {
		log.Fatalf("关卡加载失败: %v", err)
	}

	// 创建游戏应用，使用默认配置，从主菜单开始
	gameApp, err := app.NewApp(app.Config{
		Verbose: true,
		Session: config.DefaultSessionConfig(),
		Catalog: catalog,
	})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	// 注册游戏到 ebitenmobile
	mobile.SetGame(gameApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
