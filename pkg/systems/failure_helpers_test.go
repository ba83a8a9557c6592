package systems

import (
	"time"

	"github.com/decker502/timelock/pkg/event"
	"github.com/decker502/timelock/pkg/game"
)

// countingRecoverer 记录 Recover 调用次数
type countingRecoverer struct {
	calls  int
	report RecoveryReport
}

func (r *countingRecoverer) Recover() RecoveryReport {
	r.calls++
	return r.report
}

// modalAwarePointer 在指针显示/隐藏时记录模态栈状态，用于验证注册、暂停的先后顺序
type modalAwarePointer struct {
	modals *game.ModalStack

	topOnShow       []game.ModalID
	containedOnHide []bool
}

func (p *modalAwarePointer) Show() {
	top, _ := p.modals.Top()
	p.topOnShow = append(p.topOnShow, top)
}

func (p *modalAwarePointer) Hide() {
	p.containedOnHide = append(p.containedOnHide, p.modals.Contains(game.ModalRetryPrompt))
}

// failureFixture 一个已布防的会话及其失败流程
type failureFixture struct {
	session   *game.Session
	prompt    *FailurePromptSystem
	terminal  *TerminalFailureSystem
	recoverer *countingRecoverer
	events    *event.Recorder
	menuCalls int
}

const testLevelLimit = 60 * time.Second

func newFailureFixture(maxLives int) *failureFixture {
	f := &failureFixture{recoverer: &countingRecoverer{}}
	f.session = game.NewSession(game.SessionOptions{MaxLives: maxLives})
	f.events = event.NewRecorder(f.session.Bus)
	f.terminal = NewTerminalFailureSystem(f.session, func() { f.menuCalls++ })
	f.prompt = NewFailurePromptSystem(f.session, f.terminal)
	f.prompt.SetRecoverer(f.recoverer)
	f.session.Clock.Arm(testLevelLimit, "Bridge")
	return f
}

// expire 把倒计时推进到归零
func (f *failureFixture) expire() {
	f.session.Sim.Advance(f.session.Clock.Remaining().Seconds())
}
