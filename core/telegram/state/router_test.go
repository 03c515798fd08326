package state

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

// fakeContext implements just enough of tele.Context for dispatch.
type fakeContext struct {
	tele.Context
	chatID int64
	text   string
	store  map[string]any
}

func newFakeContext(chatID int64, text string) *fakeContext {
	return &fakeContext{chatID: chatID, text: text, store: make(map[string]any)}
}

func (f *fakeContext) Chat() *tele.Chat     { return &tele.Chat{ID: f.chatID} }
func (f *fakeContext) Sender() *tele.User   { return &tele.User{ID: f.chatID} }
func (f *fakeContext) Text() string         { return f.text }
func (f *fakeContext) Update() tele.Update  { return tele.Update{ID: 1} }
func (f *fakeContext) Get(k string) any     { return f.store[k] }
func (f *fakeContext) Set(k string, v any)  { f.store[k] = v }

func TestDispatchConsumesStepBeforeInvoke(t *testing.T) {
	m := NewMemoryManager()
	r := NewRouter(m)

	var observed Step
	r.Handle(Step("ask"), func(c tele.Context) error {
		observed = m.Step(1)
		return nil
	})

	m.SetStep(1, Step("ask"))
	if err := r.Dispatch(newFakeContext(1, "reply")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if observed != StepIdle {
		t.Fatalf("handler saw step %q, want idle (consumed before invoke)", observed)
	}
	if m.InProgress(1) {
		t.Fatal("step must stay consumed when the handler does not re-arm")
	}
}

func TestDispatchIdleIsNoop(t *testing.T) {
	m := NewMemoryManager()
	r := NewRouter(m)

	called := false
	r.Handle(Step("ask"), func(c tele.Context) error {
		called = true
		return nil
	})

	if err := r.Dispatch(newFakeContext(1, "reply")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if called {
		t.Fatal("idle chat must not invoke any handler")
	}
}

func TestDispatchUnknownStepClears(t *testing.T) {
	m := NewMemoryManager()
	r := NewRouter(m)

	m.SetStep(1, Step("orphan"))
	if err := r.Dispatch(newFakeContext(1, "reply")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if m.InProgress(1) {
		t.Fatal("unknown step must still be consumed")
	}
}

func TestDispatchHandlerReArms(t *testing.T) {
	m := NewMemoryManager()
	r := NewRouter(m)

	r.Handle(Step("ask"), func(c tele.Context) error {
		m.SetStep(ChatID(c), Step("ask"))
		return nil
	})

	m.SetStep(1, Step("ask"))
	if err := r.Dispatch(newFakeContext(1, "bad input")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if m.Step(1) != Step("ask") {
		t.Fatal("re-armed step must survive dispatch")
	}
}

func TestDispatchPerChatIsolation(t *testing.T) {
	m := NewMemoryManager()
	r := NewRouter(m)

	hits := map[int64]int{}
	r.Handle(Step("ask"), func(c tele.Context) error {
		hits[ChatID(c)]++
		return nil
	})

	m.SetStep(1, Step("ask"))
	if err := r.Dispatch(newFakeContext(2, "reply")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if hits[2] != 0 {
		t.Fatal("chat 2 has no pending step and must not dispatch")
	}
	if err := r.Dispatch(newFakeContext(1, "reply")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if hits[1] != 1 {
		t.Fatalf("chat 1 dispatched %d times, want 1", hits[1])
	}
}
