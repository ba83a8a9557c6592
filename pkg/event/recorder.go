package event

// Recorder 按投递顺序记录事件
// 供无头模拟命令输出事件流，也被各包测试用来断言事件顺序
type Recorder struct {
	Events []Event
}

// NewRecorder 创建记录器并订阅给定类型；types 为空时订阅全部类型
func NewRecorder(b *Bus, types ...Type) *Recorder {
	r := &Recorder{}
	if len(types) == 0 {
		for t := range typeNames {
			types = append(types, t)
		}
	}
	for _, t := range types {
		b.Subscribe(t, r.record)
	}
	return r
}

func (r *Recorder) record(e Event) {
	r.Events = append(r.Events, e)
}

// Count 返回指定类型事件的记录次数
func (r *Recorder) Count(t Type) int {
	n := 0
	for _, e := range r.Events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// Types 返回记录的事件类型序列
func (r *Recorder) Types() []Type {
	out := make([]Type, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Type
	}
	return out
}

// Last 返回最后一个指定类型的事件
func (r *Recorder) Last(t Type) (Event, bool) {
	for i := len(r.Events) - 1; i >= 0; i-- {
		if r.Events[i].Type == t {
			return r.Events[i], true
		}
	}
	return Event{}, false
}

// Reset 清空记录
func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
}
