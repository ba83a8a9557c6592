package game

import "log"

// SettingsRouter 设置面板的返回路由
//
// 暂停菜单、主菜单、失败界面都可能打开设置面板，
// 关闭设置时需要知道返回到哪个界面。这是跨界面的 UI 路由状态，
// 最终失败界面确认时必须清除，避免回到菜单后残留旧界面的返回目标。
type SettingsRouter struct {
	returnTo ModalID
}

// NewSettingsRouter 创建空路由
func NewSettingsRouter() *SettingsRouter {
	return &SettingsRouter{}
}

// OpenFrom 记录打开设置面板的来源界面
func (r *SettingsRouter) OpenFrom(from ModalID) {
	r.returnTo = from
	log.Printf("[SettingsRouter] Settings opened from %s", from)
}

// ReturnTarget 返回设置面板关闭后应回到的界面
func (r *SettingsRouter) ReturnTarget() (ModalID, bool) {
	return r.returnTo, r.returnTo != ""
}

// Clear 清除路由状态
func (r *SettingsRouter) Clear() {
	r.returnTo = ""
}
