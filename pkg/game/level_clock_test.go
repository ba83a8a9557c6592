package game

import (
	"testing"
	"time"

	"github.com/decker502/timelock/pkg/event"
)

func newTestClock() (*LevelClock, *event.Recorder) {
	bus := event.NewBus()
	rec := event.NewRecorder(bus, event.ClockChanged, event.ClockExpired)
	return NewLevelClock(bus), rec
}

// TestLevelClock_BridgeScenario 测试 300 秒关卡逐秒推进
// 第 300 个 tick 恰好触发一次归零事件
func TestLevelClock_BridgeScenario(t *testing.T) {
	clock, rec := newTestClock()
	clock.Arm(300*time.Second, "Bridge")

	for i := 1; i <= 300; i++ {
		clock.Tick(time.Second)
		if i < 300 && rec.Count(event.ClockExpired) != 0 {
			t.Fatalf("Clock expired early at tick %d", i)
		}
	}

	if rec.Count(event.ClockExpired) != 1 {
		t.Errorf("Expected exactly 1 expired event, got %d", rec.Count(event.ClockExpired))
	}
	if clock.Remaining() != 0 {
		t.Errorf("Expected remaining 0, got %v", clock.Remaining())
	}
	if clock.IsRunning() {
		t.Error("Clock should not be running after expiry")
	}

	expired, _ := rec.Last(event.ClockExpired)
	if expired.Label != "Bridge" {
		t.Errorf("Expected label Bridge, got %q", expired.Label)
	}

	// 归零后继续 tick 不再产生任何事件
	before := len(rec.Events)
	clock.Tick(time.Second)
	if len(rec.Events) != before {
		t.Error("Stopped clock should not publish events")
	}
}

// TestLevelClock_ChangeBeforeExpired 测试同一 tick 内 changed 先于 expired
// 即使步长远超剩余时间，也只触发一次 expired
func TestLevelClock_ChangeBeforeExpired(t *testing.T) {
	clock, rec := newTestClock()
	clock.Arm(5*time.Second, "Overshoot")

	clock.Tick(time.Hour)

	types := rec.Types()
	if len(types) != 2 {
		t.Fatalf("Expected 2 events, got %v", types)
	}
	if types[0] != event.ClockChanged || types[1] != event.ClockExpired {
		t.Errorf("Expected [changed expired], got %v", types)
	}
	if rec.Events[0].Remaining != 0 {
		t.Errorf("Changed event should carry 0, got %v", rec.Events[0].Remaining)
	}
}

// TestLevelClock_RemainingBounds 测试 remaining 始终在 [0, limit]
func TestLevelClock_RemainingBounds(t *testing.T) {
	clock, _ := newTestClock()
	clock.Arm(10*time.Second, "Bounds")

	deltas := []time.Duration{-time.Second, 3 * time.Second, 0, 4 * time.Second, 30 * time.Second}
	for _, d := range deltas {
		clock.Tick(d)
		if clock.Remaining() < 0 || clock.Remaining() > clock.Limit() {
			t.Fatalf("Remaining %v out of [0, %v] after delta %v", clock.Remaining(), clock.Limit(), d)
		}
	}
}

// TestLevelClock_PauseResume 测试暂停与恢复
func TestLevelClock_PauseResume(t *testing.T) {
	clock, rec := newTestClock()
	clock.Arm(10*time.Second, "Pause")
	clock.Tick(2 * time.Second)

	clock.Pause()
	clock.Tick(5 * time.Second)
	if clock.Remaining() != 8*time.Second {
		t.Errorf("Paused clock should keep 8s, got %v", clock.Remaining())
	}

	clock.Resume()
	if !clock.IsRunning() {
		t.Error("Clock should run after Resume")
	}
	clock.Tick(time.Second)
	if clock.Remaining() != 7*time.Second {
		t.Errorf("Expected 7s, got %v", clock.Remaining())
	}
	if rec.Count(event.ClockChanged) != 2 {
		t.Errorf("Expected 2 changed events, got %d", rec.Count(event.ClockChanged))
	}
}

// TestLevelClock_ResumeExpired 测试已归零的倒计时不能恢复
func TestLevelClock_ResumeExpired(t *testing.T) {
	clock, _ := newTestClock()
	clock.Arm(time.Second, "Short")
	clock.Tick(time.Second)

	clock.Resume()
	if clock.IsRunning() {
		t.Error("Resuming an expired clock should be a no-op")
	}
}

// TestLevelClock_StopKeepsRemaining 测试 Stop 不修改剩余时间
func TestLevelClock_StopKeepsRemaining(t *testing.T) {
	clock, _ := newTestClock()
	clock.Arm(10*time.Second, "Stop")
	clock.Tick(4 * time.Second)
	clock.Stop()

	if clock.IsRunning() {
		t.Error("Clock should not run after Stop")
	}
	if clock.Remaining() != 6*time.Second {
		t.Errorf("Expected 6s, got %v", clock.Remaining())
	}
}

// TestLevelClock_RearmWhileRunning 测试运行中重新布防等同于重新开始
func TestLevelClock_RearmWhileRunning(t *testing.T) {
	clock, rec := newTestClock()
	clock.Arm(10*time.Second, "Lab")
	clock.Tick(9 * time.Second)

	clock.Rearm()
	if clock.Remaining() != 10*time.Second || clock.Label() != "Lab" {
		t.Errorf("Rearm should restore (10s, Lab), got (%v, %q)", clock.Remaining(), clock.Label())
	}

	clock.Arm(20*time.Second, "Vault")
	if clock.Limit() != 20*time.Second || clock.Label() != "Vault" {
		t.Errorf("Arm should replace limit and label, got (%v, %q)", clock.Limit(), clock.Label())
	}

	// 重新布防后可以再次归零
	clock.Tick(20 * time.Second)
	if rec.Count(event.ClockExpired) != 1 {
		t.Errorf("Expected 1 expiry after rearm, got %d", rec.Count(event.ClockExpired))
	}
}

// TestLevelClock_ZeroLimit 测试零时限在第一个 tick 归零
func TestLevelClock_ZeroLimit(t *testing.T) {
	clock, rec := newTestClock()
	clock.Arm(-time.Second, "Zero")

	if clock.Limit() != 0 {
		t.Errorf("Negative limit should clamp to 0, got %v", clock.Limit())
	}
	clock.Tick(time.Millisecond)
	if rec.Count(event.ClockExpired) != 1 {
		t.Errorf("Expected 1 expiry, got %d", rec.Count(event.ClockExpired))
	}
}

// TestLevelClock_UpdateSeconds 测试 Ticker 接口按秒换算
func TestLevelClock_UpdateSeconds(t *testing.T) {
	clock, _ := newTestClock()
	clock.Arm(2*time.Second, "Ticker")

	clock.Update(0.5)
	if clock.Remaining() != 1500*time.Millisecond {
		t.Errorf("Expected 1.5s, got %v", clock.Remaining())
	}
}

// TestLevelClock_UpdateFrameRates 测试按帧推进时恰好在 limit*tps 帧归零
func TestLevelClock_UpdateFrameRates(t *testing.T) {
	tests := []struct {
		name  string
		tps   int
		limit time.Duration
	}{
		{"60 tps", 60, 90 * time.Second},
		{"30 tps", 30, 90 * time.Second},
		{"144 tps", 144, 90 * time.Second},
		{"60 tps short", 60, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock, rec := newTestClock()
			clock.Arm(tt.limit, "Frames")
			want := int(tt.limit/time.Second) * tt.tps

			frame := 0
			for clock.IsRunning() && frame < want+10 {
				clock.Update(1.0 / float64(tt.tps))
				frame++
			}

			if frame != want {
				t.Errorf("Expected expiry at frame %d, got %d", want, frame)
			}
			if rec.Count(event.ClockExpired) != 1 {
				t.Errorf("Expected 1 expiry, got %d", rec.Count(event.ClockExpired))
			}
		})
	}
}

// TestLevelClock_UpdateCarryResetOnArm 测试重新布防清除上一轮的舍入零头
func TestLevelClock_UpdateCarryResetOnArm(t *testing.T) {
	clock, _ := newTestClock()
	clock.Arm(time.Second, "Carry")
	clock.Update(1.0 / 60)

	clock.Arm(time.Second, "Carry")
	clock.Update(0.5)
	if clock.Remaining() != 500*time.Millisecond {
		t.Errorf("Expected 500ms after rearm, got %v", clock.Remaining())
	}
}
