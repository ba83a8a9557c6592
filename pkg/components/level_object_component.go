package components

// LevelObjectComponent 关卡配置中定义的物体
//
// Name 来自关卡 YAML，在一个关卡内唯一；
// Recoverable 为 true 的物体会在关卡开始时被捕获，失败重生后恢复到初始位置。
type LevelObjectComponent struct {
	Name        string
	Kind        string // 物体类别，如 "crate", "key", "lever"
	Recoverable bool
	Initialized bool // 物体自身初始化完成后置位，捕获必须在此之后进行
}

// EphemeralComponent 玩家行为产生的临时实体
//
// Classification 标识产生方式，关卡用分类判定哪些临时实体需要在重生时清除。
// 目前唯一的分类是 ClassificationInventoryDrop（从背包中放下的分离副本）。
type EphemeralComponent struct {
	Classification string
	SourceName     string // 产生此副本的背包物品名称
}

// ClassificationInventoryDrop 背包物品的分离副本
const ClassificationInventoryDrop = "inventory-drop"

// ContainerComponent 标记关卡指定的物体容器节点
// 由模板重建的物体插入到此容器下
type ContainerComponent struct {
	Name string
}
