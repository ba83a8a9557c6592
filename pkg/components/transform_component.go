package components

// Vec2 二维向量（世界坐标）
type Vec2 struct {
	X, Y float64
}

// TransformComponent 实体的位置和缩放
type TransformComponent struct {
	Position Vec2
	Scale    Vec2
}

// NewTransform 创建单位缩放的 TransformComponent
func NewTransform(x, y float64) *TransformComponent {
	return &TransformComponent{
		Position: Vec2{X: x, Y: y},
		Scale:    Vec2{X: 1, Y: 1},
	}
}

// VisibilityComponent 可见/激活状态
// Visible 控制渲染，Active 控制是否参与玩法逻辑
type VisibilityComponent struct {
	Visible bool
	Active  bool
}

// ParentComponent 场景层级中的父节点
type ParentComponent struct {
	Parent uint64 // 父实体ID，0 表示关卡根节点
}

// VelocityComponent 速度（像素/秒）
type VelocityComponent struct {
	VX, VY float64
}
