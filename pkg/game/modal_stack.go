package game

import (
	"errors"
	"log"
)

// ModalID 模态界面标识
type ModalID string

// 内置模态界面
const (
	ModalRetryPrompt     ModalID = "failure.retry"
	ModalTerminalFailure ModalID = "failure.terminal"
	ModalPauseMenu       ModalID = "pause-menu"
	ModalSettings        ModalID = "settings"
)

var (
	// ErrModalNotTop 关闭的模态界面不在栈顶（调用方关闭顺序错误）
	ErrModalNotTop = errors.New("modal is not on top of the stack")
	// ErrModalAlreadyOpen 模态界面已经在栈中
	ErrModalAlreadyOpen = errors.New("modal is already registered")
)

// ModalStack 当前打开的独占模态界面（后进先出）
//
// 栈顶的模态界面拥有输入和暂停控制权。
// UI 只需要严格嵌套（谜题界面打开前总是先关闭暂停菜单），所以简单的栈就够了。
// 失败界面可以压在暂停菜单之上抢占控制权。
type ModalStack struct {
	entries []ModalID
}

// NewModalStack 创建空的模态栈
func NewModalStack() *ModalStack {
	return &ModalStack{entries: make([]ModalID, 0, 4)}
}

// Register 压入模态界面，使其成为栈顶
// 同一个模态界面不能重复压入
func (s *ModalStack) Register(id ModalID) error {
	if s.Contains(id) {
		log.Printf("[ModalStack] Warning: %s already registered, ignored", id)
		return ErrModalAlreadyOpen
	}
	s.entries = append(s.entries, id)
	log.Printf("[ModalStack] Registered %s (depth=%d)", id, len(s.entries))
	return nil
}

// Unregister 弹出栈顶的模态界面
// id 不是栈顶时忽略调用并记录诊断，不做静默纠正
func (s *ModalStack) Unregister(id ModalID) error {
	if !s.IsTop(id) {
		top, _ := s.Top()
		log.Printf("[ModalStack] Ordering violation: unregister %s while top is %q, ignored", id, top)
		return ErrModalNotTop
	}
	s.entries = s.entries[:len(s.entries)-1]
	log.Printf("[ModalStack] Unregistered %s (depth=%d)", id, len(s.entries))
	return nil
}

// IsTop 检查 id 是否为栈顶
func (s *ModalStack) IsTop(id ModalID) bool {
	top, ok := s.Top()
	return ok && top == id
}

// Top 返回栈顶的模态界面
func (s *ModalStack) Top() (ModalID, bool) {
	if len(s.entries) == 0 {
		return "", false
	}
	return s.entries[len(s.entries)-1], true
}

// HasAny 是否有任何模态界面打开
func (s *ModalStack) HasAny() bool {
	return len(s.entries) > 0
}

// Contains 检查 id 是否在栈中（不要求在栈顶）
func (s *ModalStack) Contains(id ModalID) bool {
	for _, e := range s.entries {
		if e == id {
			return true
		}
	}
	return false
}

// Len 返回栈深度
func (s *ModalStack) Len() int {
	return len(s.entries)
}
