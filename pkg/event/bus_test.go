package event

import (
	"testing"
	"time"
)

// TestBus_DeliveryOrder 测试同类型处理器按订阅顺序调用
func TestBus_DeliveryOrder(t *testing.T) {
	bus := NewBus()
	var order []int

	bus.Subscribe(ClockChanged, func(Event) { order = append(order, 1) })
	bus.Subscribe(ClockChanged, func(Event) { order = append(order, 2) })
	bus.Subscribe(ClockChanged, func(Event) { order = append(order, 3) })

	bus.Publish(Event{Type: ClockChanged, Remaining: time.Second})

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("Expected handlers in subscription order [1 2 3], got %v", order)
	}
}

// TestBus_TypeIsolation 测试事件只投递给对应类型
func TestBus_TypeIsolation(t *testing.T) {
	bus := NewBus()
	rec := NewRecorder(bus, LivesChanged)

	bus.Publish(Event{Type: ClockExpired})
	bus.Publish(Event{Type: LivesChanged, Lives: 2})

	if len(rec.Events) != 1 {
		t.Fatalf("Expected 1 recorded event, got %d", len(rec.Events))
	}
	if rec.Events[0].Lives != 2 {
		t.Errorf("Expected Lives=2, got %d", rec.Events[0].Lives)
	}
}

// TestBus_Unsubscribe 测试取消订阅后不再收到事件
func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	cancel := bus.Subscribe(RetryOffered, func(Event) { calls++ })

	bus.Publish(Event{Type: RetryOffered})
	cancel()
	cancel() // 重复取消不应 panic
	bus.Publish(Event{Type: RetryOffered})

	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
	if bus.HandlerCount(RetryOffered) != 0 {
		t.Errorf("Expected 0 handlers after unsubscribe, got %d", bus.HandlerCount(RetryOffered))
	}
}

// TestBus_SubscribeDuringPublish 测试投递过程中新增的订阅从下一次发布开始生效
func TestBus_SubscribeDuringPublish(t *testing.T) {
	bus := NewBus()
	lateCalls := 0

	bus.Subscribe(LivesDepleted, func(Event) {
		bus.Subscribe(LivesDepleted, func(Event) { lateCalls++ })
	})

	bus.Publish(Event{Type: LivesDepleted})
	if lateCalls != 0 {
		t.Errorf("Late subscriber should not see the in-flight event, got %d calls", lateCalls)
	}

	bus.Publish(Event{Type: LivesDepleted})
	if lateCalls != 1 {
		t.Errorf("Late subscriber should see the next event, got %d calls", lateCalls)
	}
}

// TestBus_NilPublish 测试 nil 总线上发布不会 panic
func TestBus_NilPublish(t *testing.T) {
	var bus *Bus
	bus.Publish(Event{Type: ClockExpired})
}

// TestRecorder_AllTypes 测试不指定类型时记录全部事件
func TestRecorder_AllTypes(t *testing.T) {
	bus := NewBus()
	rec := NewRecorder(bus)

	bus.Publish(Event{Type: ClockChanged})
	bus.Publish(Event{Type: ClockExpired})
	bus.Publish(Event{Type: ReturnToMenu})

	types := rec.Types()
	want := []Type{ClockChanged, ClockExpired, ReturnToMenu}
	if len(types) != len(want) {
		t.Fatalf("Expected %d events, got %d", len(want), len(types))
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("Event %d: expected %s, got %s", i, want[i], types[i])
		}
	}

	if _, ok := rec.Last(LivesChanged); ok {
		t.Error("Expected no LivesChanged event")
	}
	rec.Reset()
	if len(rec.Events) != 0 {
		t.Error("Expected empty recorder after Reset")
	}
}

func TestType_String(t *testing.T) {
	if ClockExpired.String() != "clock-expired" {
		t.Errorf("Unexpected name: %s", ClockExpired.String())
	}
	if Type(99).String() != "unknown" {
		t.Errorf("Unexpected name for unknown type: %s", Type(99).String())
	}
}
