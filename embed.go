// Package timelock 在模块根目录声明嵌入的关卡数据
//
// //go:embed 只能嵌入当前包目录及其子目录的文件，
// 所以 data/ 必须和本文件同级；cmd/timelock 启动时把 DataFS 交给 pkg/embedded。
package timelock

import "embed"

// DataFS 内置关卡
//
//go:embed data/levels
var DataFS embed.FS
