package game

// Pointer 鼠标指针控制
// 失败界面需要显示指针供玩家点击，恢复游戏时再隐藏
type Pointer interface {
	Show()
	Hide()
}

// showPointer 对 nil 安全地显示指针
func showPointer(p Pointer) {
	if p != nil {
		p.Show()
	}
}

// hidePointer 对 nil 安全地隐藏指针
func hidePointer(p Pointer) {
	if p != nil {
		p.Hide()
	}
}
