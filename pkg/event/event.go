// Package event 提供会话核心的同步发布/订阅总线
//
// 所有事件在发布者所在的 tick 内同步投递，同一类型的处理器按订阅顺序调用。
package event

import "time"

// Type 事件类型
type Type int

const (
	// ClockChanged 关卡倒计时数值变化（每个 tick 一次）
	ClockChanged Type = iota
	// ClockExpired 关卡倒计时归零（每次布防最多一次）
	ClockExpired
	// LivesChanged 生命数变化
	LivesChanged
	// LivesDepleted 生命耗尽（生命数恰好变为 0）
	LivesDepleted
	// RetryOffered 显示"重试"提示
	RetryOffered
	// RespawnPerformed 重生流程执行完毕
	RespawnPerformed
	// TerminalFailureShown 显示最终失败界面
	TerminalFailureShown
	// RecoveryFailed 单个可恢复实体恢复失败
	RecoveryFailed
	// ReturnToMenu 最终失败界面确认，控制权交还菜单层
	ReturnToMenu
)

var typeNames = map[Type]string{
	ClockChanged:         "clock-changed",
	ClockExpired:         "clock-expired",
	LivesChanged:         "lives-changed",
	LivesDepleted:        "lives-depleted",
	RetryOffered:         "retry-offered",
	RespawnPerformed:     "respawn-performed",
	TerminalFailureShown: "terminal-failure-shown",
	RecoveryFailed:       "recovery-failed",
	ReturnToMenu:         "return-to-menu",
}

// String 返回事件类型的外部名称
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Event 事件载荷
// 字段按事件类型选择性填充，未使用的字段保持零值
type Event struct {
	Type      Type
	Remaining time.Duration // ClockChanged
	Lives     int           // LivesChanged / LivesDepleted
	Label     string        // ClockExpired / RespawnPerformed：关卡标签
	Message   string        // TerminalFailureShown / RecoveryFailed
	Entity    uint64        // RecoveryFailed：失败实体的捕获序号
}
