package systems

import (
	"errors"
	"fmt"

	"github.com/decker502/timelock/pkg/components"
	"github.com/decker502/timelock/pkg/ecs"
)

// ErrEntityUnrecoverable 原实体和模板都已失效，无法恢复
var ErrEntityUnrecoverable = errors.New("entity is unrecoverable: live reference and template are both invalid")

// RecoverableEntity 关卡开始时捕获的一条恢复记录
//
// Live 是对场景图的非拥有引用，随时可能因玩法逻辑失效（例如被玩家拾取）；
// Template 是捕获时从原实体复制的惰性模板，从不插入场景图，由记录独占，
// 只在 Live 失效时用来重建新的实例。
type RecoverableEntity struct {
	Index           int    // 捕获顺序
	Name            string // 关卡物体名称
	InitialPosition components.Vec2
	InitialScale    components.Vec2

	Live     ecs.EntityID
	Template *ecs.Prefab
}

// RecoveryFailure 单个实体恢复失败
type RecoveryFailure struct {
	Index int
	Name  string
	Err   error
}

// Error 实现 error
func (f RecoveryFailure) Error() string {
	return fmt.Sprintf("recover %q (#%d): %v", f.Name, f.Index, f.Err)
}

// Unwrap 返回底层错误
func (f RecoveryFailure) Unwrap() error {
	return f.Err
}

// RecoveryReport 一次重生恢复的结果
type RecoveryReport struct {
	AnchorRestored  bool
	EphemeralPurged int
	Restored        []string // 原地复位的物体
	Recreated       []string // 由模板重建的物体
	Failed          []RecoveryFailure
	LatchesCleared  int
}

// Err 汇总所有失败；没有失败时返回 nil
func (r RecoveryReport) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Recoverer 重生时由失败提示调用的关卡钩子
// 必须可重入：同一关卡中每次成功重生都会调用一次
type Recoverer interface {
	Recover() RecoveryReport
}
