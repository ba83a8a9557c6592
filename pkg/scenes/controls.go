package scenes

// Controls 一帧的输入状态
// 由 app 从键盘读取，无头模拟直接构造
type Controls struct {
	Left, Right, Up, Down bool // 持续按下
	MenuUp, MenuDown      bool // 本帧按下（菜单选择）
	Confirm               bool // 本帧按下
	Pause                 bool // 本帧按下
	Back                  bool // 本帧按下
	PickUp                bool // 本帧按下
	Drop                  bool // 本帧按下

	ToggleFullscreen bool
	ToggleTimer      bool
	ToggleHints      bool
	TextSpeed        int // -1 / 0 / +1
}

// InputHandler 接收输入的场景
type InputHandler interface {
	HandleInput(c Controls)
}
