package config

import "fmt"

// SessionConfig 会话配置
type SessionConfig struct {
	MaxLives       int    `validate:"gte=1,lte=99"`   // 生命上限
	TicksPerSecond int    `validate:"gte=10,lte=240"` // 模拟步频
	FirstLevel     string // 起始关卡，空表示目录中的第一关
}

// DefaultSessionConfig 返回默认会话配置
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MaxLives:       3,
		TicksPerSecond: 60,
	}
}

// Validate 校验会话配置
func (c SessionConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid session config: %w", err)
	}
	return nil
}

// DeltaTime 返回每个 tick 的时长（秒）
func (c SessionConfig) DeltaTime() float64 {
	return 1.0 / float64(c.TicksPerSecond)
}
