package event

// Handler 事件处理函数
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus 同步事件总线
//
// 投递规则：
//   - Publish 在调用方的 goroutine 内同步调用所有处理器
//   - 同一事件类型的处理器按订阅顺序调用
//   - 在投递过程中新增的订阅从下一次 Publish 开始生效
//   - 处理器内部再次 Publish 会立即嵌套投递
//
// 会话核心是单线程的，Bus 不加锁。
type Bus struct {
	nextID   uint64
	handlers map[Type][]subscription
}

// NewBus 创建空事件总线
func NewBus() *Bus {
	return &Bus{
		nextID:   1,
		handlers: make(map[Type][]subscription),
	}
}

// Subscribe 订阅指定类型的事件，返回取消订阅函数
// 取消函数可以重复调用
func (b *Bus) Subscribe(t Type, h Handler) func() {
	id := b.nextID
	b.nextID++
	b.handlers[t] = append(b.handlers[t], subscription{id: id, handler: h})

	return func() {
		subs := b.handlers[t]
		for i, s := range subs {
			if s.id == id {
				// 复制而不是原地删除，正在进行的投递持有旧切片
				next := make([]subscription, 0, len(subs)-1)
				next = append(next, subs[:i]...)
				next = append(next, subs[i+1:]...)
				b.handlers[t] = next
				return
			}
		}
	}
}

// Publish 同步投递事件
// nil Bus 上的 Publish 是空操作，便于依赖缺失时降级运行
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	subs := b.handlers[e.Type]
	for _, s := range subs {
		s.handler(e)
	}
}

// HandlerCount 返回指定类型的处理器数量（调试和测试用）
func (b *Bus) HandlerCount(t Type) int {
	return len(b.handlers[t])
}
