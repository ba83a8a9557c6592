package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// 默认值
const (
	DefaultTimeLimitSeconds = 300.0
	DefaultContainer        = "props"
	DefaultObjectScale      = 1.0
)

// DefaultEphemeralClass 默认的临时实体分类（背包物品的分离副本）
const DefaultEphemeralClass = "inventory-drop"

// ErrLevelNotFound 关卡不存在
var ErrLevelNotFound = errors.New("level not found")

var validate = validator.New()

// LevelConfig 关卡配置数据结构
// 定义关卡的时限、玩家起点和关卡中的物体
type LevelConfig struct {
	ID          string         `yaml:"id" validate:"required"`     // 关卡ID，如 "bridge"
	Name        string         `yaml:"name" validate:"required"`   // 显示名称，如 "The Rope Bridge"
	Description string         `yaml:"description"`                // 关卡描述（可选）
	Order       int            `yaml:"order" validate:"gte=0"`     // 关卡顺序，决定"下一关"
	TimeLimit   float64        `yaml:"timeLimit" validate:"gte=0"` // 时限（秒），0 表示使用默认值
	Anchor      Point          `yaml:"anchor"`                     // 玩家起点
	VoidY       float64        `yaml:"voidY" validate:"gte=0"`     // 坠落判定线（世界Y坐标），0 表示无坠落检测
	Container   string         `yaml:"container"`                  // 物体容器节点名称，默认 "props"
	Objects     []ObjectConfig `yaml:"objects" validate:"dive"`    // 关卡物体
	Inventory   []string       `yaml:"inventory"`                  // 玩家进入关卡时背包中的物品

	// 重生时需要清除的临时实体分类，默认 ["inventory-drop"]
	EphemeralClasses []string `yaml:"ephemeralClasses"`
}

// Point 二维坐标
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ObjectConfig 单个关卡物体配置
type ObjectConfig struct {
	Name        string  `yaml:"name" validate:"required"`
	Kind        string  `yaml:"kind" validate:"required"`
	X           float64 `yaml:"x"`
	Y           float64 `yaml:"y"`
	Scale       float64 `yaml:"scale" validate:"gte=0"` // 0 表示默认 1.0
	Recoverable bool    `yaml:"recoverable"`            // 失败重生时是否恢复到初始位置
}

// Duration 返回关卡时限
func (c *LevelConfig) Duration() time.Duration {
	return time.Duration(c.TimeLimit * float64(time.Second))
}

// IsEphemeralClass 判断分类是否属于本关需要清除的临时实体
func (c *LevelConfig) IsEphemeralClass(class string) bool {
	for _, cls := range c.EphemeralClasses {
		if cls == class {
			return true
		}
	}
	return false
}

// LoadLevelConfig 从YAML文件加载关卡配置
// 参数：
//
//	filepath - 关卡配置文件的路径（相对或绝对路径）
//
// 返回：
//
//	*LevelConfig - 解析后的关卡配置对象
//	error - 如果文件读取或解析失败，返回错误信息
func LoadLevelConfig(filepath string) (*LevelConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read level config file %s: %w", filepath, err)
	}
	return ParseLevelConfig(data, filepath)
}

// ParseLevelConfig 解析YAML数据，source 只用于错误信息
func ParseLevelConfig(data []byte, source string) (*LevelConfig, error) {
	var levelConfig LevelConfig
	if err := yaml.Unmarshal(data, &levelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse level config YAML from %s: %w", source, err)
	}

	// 应用默认值（向后兼容性）
	applyDefaults(&levelConfig)

	// 验证必填字段
	if err := validateLevelConfig(&levelConfig); err != nil {
		return nil, fmt.Errorf("invalid level config in %s: %w", source, err)
	}

	return &levelConfig, nil
}

// applyDefaults 为 LevelConfig 中缺失的可选字段设置默认值
func applyDefaults(config *LevelConfig) {
	if config.TimeLimit == 0 {
		config.TimeLimit = DefaultTimeLimitSeconds
	}

	if config.Container == "" {
		config.Container = DefaultContainer
	}

	if len(config.EphemeralClasses) == 0 {
		config.EphemeralClasses = []string{DefaultEphemeralClass}
	}

	for i := range config.Objects {
		if config.Objects[i].Scale == 0 {
			config.Objects[i].Scale = DefaultObjectScale
		}
	}
}

// validateLevelConfig 验证关卡配置的完整性和合法性
// 字段级约束由 validator 标签检查，跨字段约束在这里手写
func validateLevelConfig(config *LevelConfig) error {
	if err := validate.Struct(config); err != nil {
		return err
	}

	// 物体名称在关卡内唯一（恢复记录按名称报告失败）
	seen := make(map[string]bool, len(config.Objects))
	for i, obj := range config.Objects {
		if seen[obj.Name] {
			return fmt.Errorf("objects[%d]: duplicate object name %q", i, obj.Name)
		}
		seen[obj.Name] = true
	}

	if config.VoidY != 0 && config.VoidY <= config.Anchor.Y {
		return fmt.Errorf("voidY %.1f must be below the anchor (y=%.1f)", config.VoidY, config.Anchor.Y)
	}

	return nil
}
