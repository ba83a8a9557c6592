package utils

import "math"

// 缓动函数
//
// 进度值 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
// 参考：https://easings.net/

// Clamp01 把 t 截断到 [0, 1]
func Clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

// Progress 返回 elapsed/duration 的截断进度；duration <= 0 时视为已完成
func Progress(elapsed, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	return Clamp01(elapsed / duration)
}

// EaseOutQuad 二次方缓出：开始较快，结束慢
// 公式：f(t) = 1 - (1-t)²
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// EaseOutCubic 三次方缓出
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}
