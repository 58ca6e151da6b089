package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/frahmantamala/hiring-gateway/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	It("should deliver to subscribers after the producer's context is cancelled", func() {
		var got atomic.Value
		bus.Subscribe("application.submitted", func(ctx context.Context, e events.Event) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			got.Store(e.(events.BaseEvent).String("candidate_id"))
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(bus.Publish(ctx, events.NewEvent("application.submitted", map[string]interface{}{"candidate_id": "c1"}))).To(Succeed())

		drainCtx, done := context.WithTimeout(context.Background(), time.Second)
		defer done()
		Expect(bus.Drain(drainCtx)).To(Succeed())
		Expect(got.Load()).To(Equal("c1"))
	})

	It("should survive a panicking subscriber", func() {
		bus.Subscribe("x", func(context.Context, events.Event) error { panic("boom") })
		Expect(bus.Publish(context.Background(), events.NewEvent("x", nil))).To(Succeed())

		ctx, done := context.WithTimeout(context.Background(), time.Second)
		defer done()
		Expect(bus.Drain(ctx)).To(Succeed())
	})

	It("should stop PublishSync at the first failing handler", func() {
		var calls int32
		bus.Subscribe("y", func(context.Context, events.Event) error {
			atomic.AddInt32(&calls, 1)
			return errors.New("nope")
		})
		bus.Subscribe("y", func(context.Context, events.Event) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})
		Expect(bus.PublishSync(context.Background(), events.NewEvent("y", nil))).To(HaveOccurred())
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(1)))
	})

	It("should ignore events nobody listens to", func() {
		Expect(bus.Publish(context.Background(), events.NewEvent("nobody", nil))).To(Succeed())
	})
})
