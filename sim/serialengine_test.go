package sim

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("SerialEngine", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	newEvent := func(t VTime, h Handler, secondary bool) *MockEvent {
		evt := NewMockEvent(mockCtrl)
		evt.EXPECT().Time().Return(t).AnyTimes()
		evt.EXPECT().Handler().Return(h).AnyTimes()
		evt.EXPECT().IsSecondary().Return(secondary).AnyTimes()

		return evt
	}

	It("should run events in time order", func() {
		handler1 := NewMockHandler(mockCtrl)
		handler2 := NewMockHandler(mockCtrl)
		evt1 := newEvent(4.0, handler1, false)
		evt2 := newEvent(2.0, handler2, false)
		evt3 := newEvent(3.0, handler1, false)
		evt4 := newEvent(5.0, handler1, false)

		handleEvt2 := handler2.EXPECT().Handle(evt2).
			DoAndReturn(func(_ Event) error {
				engine.Schedule(evt3)
				engine.Schedule(evt4)
				return nil
			})
		handleEvt3 := handler1.EXPECT().Handle(evt3).After(handleEvt2)
		handleEvt1 := handler1.EXPECT().Handle(evt1).After(handleEvt3)
		handler1.EXPECT().Handle(evt4).After(handleEvt1)

		engine.Schedule(evt1)
		engine.Schedule(evt2)

		Expect(engine.Run()).To(Succeed())
		Expect(engine.CurrentTime()).To(Equal(VTime(5.0)))
	})

	It("should run secondary events after same-time primary events", func() {
		handler1 := NewMockHandler(mockCtrl)
		handler2 := NewMockHandler(mockCtrl)
		handler3 := NewMockHandler(mockCtrl)
		evt1 := newEvent(2.0, handler1, true)
		evt2 := newEvent(2.0, handler2, false)
		evt3 := newEvent(2.0, handler3, false)

		handleEvt2 := handler2.EXPECT().Handle(evt2)
		handleEvt3 := handler3.EXPECT().Handle(evt3)
		handler1.EXPECT().Handle(evt1).After(handleEvt2).After(handleEvt3)

		engine.Schedule(evt1)
		engine.Schedule(evt2)
		engine.Schedule(evt3)

		Expect(engine.Run()).To(Succeed())
	})

	It("should stop at the first failing handler", func() {
		boom := errors.New("boom")
		handler := NewMockHandler(mockCtrl)
		evt1 := newEvent(1.0, handler, false)
		evt2 := newEvent(2.0, handler, false)

		handler.EXPECT().Handle(evt1).Return(boom)

		engine.Schedule(evt1)
		engine.Schedule(evt2)

		err := engine.Run()

		Expect(errors.Is(err, boom)).To(BeTrue())
		Expect(engine.CurrentTime()).To(Equal(VTime(1.0)))
	})

	It("should panic when scheduling an event in the past", func() {
		handler := NewMockHandler(mockCtrl)
		evt1 := newEvent(2.0, handler, false)
		evt2 := newEvent(1.0, handler, false)
		handler.EXPECT().Handle(evt1)

		engine.Schedule(evt1)
		Expect(engine.Run()).To(Succeed())

		Expect(func() { engine.Schedule(evt2) }).To(Panic())
	})

	It("should invoke hooks around each event", func() {
		handler := NewMockHandler(mockCtrl)
		evt := newEvent(1.0, handler, false)
		handler.EXPECT().Handle(evt)

		hook := &recordingHook{}
		engine.AcceptHook(hook)
		engine.Schedule(evt)

		Expect(engine.Run()).To(Succeed())
		Expect(hook.positions).To(Equal(
			[]*HookPos{HookPosBeforeEvent, HookPosAfterEvent}))
	})

	It("should call simulation end handlers when finished", func() {
		end := &recordingEndHandler{}
		engine.RegisterSimulationEndHandler(end)

		engine.Finished()

		Expect(end.called).To(BeTrue())
	})

	It("should report paused state", func() {
		engine.Pause()
		Expect(engine.IsPaused()).To(BeTrue())

		engine.Continue()
		Expect(engine.IsPaused()).To(BeFalse())
	})
})

type recordingHook struct {
	positions []*HookPos
}

func (h *recordingHook) Func(ctx HookCtx) {
	h.positions = append(h.positions, ctx.Pos)
}

type recordingEndHandler struct {
	called bool
}

func (h *recordingEndHandler) Handle(_ VTime) {
	h.called = true
}
