package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// 文字速度范围
const (
	MinTextSpeed = 0.5
	MaxTextSpeed = 2.0
)

// GameSettings 玩家设置
// 只保存显示偏好；倒计时和生命池属于会话状态，从不持久化
type GameSettings struct {
	Fullscreen bool    `yaml:"fullscreen"` // 启动时是否全屏
	ShowTimer  bool    `yaml:"showTimer"`  // HUD 是否显示倒计时
	ShowHints  bool    `yaml:"showHints"`  // 是否显示谜题提示
	TextSpeed  float64 `yaml:"textSpeed"`  // 叙事文字速度倍率 0.5 ~ 2.0
}

// DefaultSettings 返回默认设置
func DefaultSettings() *GameSettings {
	return &GameSettings{
		Fullscreen: false,
		ShowTimer:  true,
		ShowHints:  true,
		TextSpeed:  1.0,
	}
}

// SettingsManager 设置管理器
// 负责游戏设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *GameSettings  // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 保留给未来的致命错误；加载失败只记录日志并使用默认设置
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// OpenSettingsStorage 打开 gdata 存储
// 失败时返回 nil，调用方进入降级模式
func OpenSettingsStorage(appName string) *gdata.Manager {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[SettingsManager] Warning: gdata unavailable: %v (settings will not persist)", err)
		return nil
	}
	return manager
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
//
// 返回：
//   - error: 如果反序列化失败返回错误
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	// 检查设置文件是否存在
	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 以默认值为底，旧版本存档缺失的字段保持默认
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.TextSpeed = clampTextSpeed(loaded.TextSpeed)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *GameSettings {
	return sm.settings
}

// SetFullscreen 设置全屏模式
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetShowTimer 设置 HUD 倒计时显示
func (sm *SettingsManager) SetShowTimer(enabled bool) {
	sm.settings.ShowTimer = enabled
}

// SetShowHints 设置谜题提示显示
func (sm *SettingsManager) SetShowHints(enabled bool) {
	sm.settings.ShowHints = enabled
}

// SetTextSpeed 设置文字速度，限制在 MinTextSpeed ~ MaxTextSpeed
func (sm *SettingsManager) SetTextSpeed(speed float64) {
	sm.settings.TextSpeed = clampTextSpeed(speed)
}

// clampTextSpeed 将文字速度限制在合法范围内
func clampTextSpeed(speed float64) float64 {
	if speed < MinTextSpeed {
		return MinTextSpeed
	}
	if speed > MaxTextSpeed {
		return MaxTextSpeed
	}
	return speed
}
