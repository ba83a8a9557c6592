//go:build !mobile

// stub.go - 非移动端构建时的占位文件
//
// 移动端入口在 mobile.go 中，仅在使用 -tags mobile 时编译；
// 关卡数据通过根包的 timelock.DataFS 嵌入，不在本包内重复嵌入。
package mobile

// Dummy 空导出函数，保证包在桌面构建和 CLI 构建时也能被引用
func Dummy() {}
