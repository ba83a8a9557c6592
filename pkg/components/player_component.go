package components

// PlayerComponent 玩家实体标记
type PlayerComponent struct {
	Inventory []string // 背包中的物品名称
}

// Clone 复制背包切片，避免模板与实例共享底层数组
func (c *PlayerComponent) Clone() interface{} {
	inv := make([]string, len(c.Inventory))
	copy(inv, c.Inventory)
	return &PlayerComponent{Inventory: inv}
}

// DefeatLatchComponent 关卡内"谜题已判负"锁存器
//
// 例如坠落检测：玩家跌出关卡后置位，防止在同一次失败中重复触发；
// 重生流程负责清除锁存，使检测可以再次触发。
type DefeatLatchComponent struct {
	Name    string
	Latched bool
}
