// Package coordinator runs the event loop: it polls adapters for inbound
// events, dispatches them through the bus to the command layer, delivers
// the resulting messages, and re-dispatches follow-up events.
package coordinator

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/fableroom/internal/adapter"
	"github.com/louisbranch/fableroom/internal/command"
	"github.com/louisbranch/fableroom/internal/event"
	"github.com/louisbranch/fableroom/internal/i18n"
	"github.com/louisbranch/fableroom/internal/platform/timeouts"
	"github.com/louisbranch/fableroom/internal/telemetry"
)

// maxFollowUpDepth caps how many follow-up dispatches one inbound event may
// chain. A narration that keeps scheduling narrations is a bug; the cap
// turns a runaway loop into a logged drop.
const maxFollowUpDepth = 8

// Coordinator owns the dispatch loop. Events are processed one at a time;
// per-room serialization beyond that lives in the game state registry.
type Coordinator struct {
	bus      *event.Bus
	factory  *command.Factory
	adapters []adapter.Adapter
	printer  *i18n.Printer
	emitter  *telemetry.Emitter
	tracer   trace.Tracer
	known    map[event.Type]bool
}

// New wires a coordinator and subscribes the command layer to the bus.
func New(factory *command.Factory, printer *i18n.Printer, emitter *telemetry.Emitter, adapters ...adapter.Adapter) *Coordinator {
	c := &Coordinator{
		bus:      event.NewBus(),
		factory:  factory,
		adapters: adapters,
		printer:  printer,
		emitter:  emitter,
		tracer:   otel.Tracer("coordinator"),
		known:    make(map[event.Type]bool),
	}
	for _, eventType := range factory.Types() {
		c.bus.Subscribe(eventType, c.execute)
		c.known[eventType] = true
	}
	return c
}

// Bus exposes the event bus so callers can attach extra observers.
func (c *Coordinator) Bus() *event.Bus { return c.bus }

// Run starts the adapters and polls them until ctx is cancelled, then stops
// them with a shutdown grace period.
func (c *Coordinator) Run(ctx context.Context) error {
	for _, a := range c.adapters {
		if err := a.Start(ctx); err != nil {
			return err
		}
		log.Printf("coordinator: adapter %s started", a.Name())
	}

	g, loopCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.poll(loopCtx)
		return nil
	})
	err := g.Wait()

	stopCtx, cancel := context.WithTimeout(context.Background(), timeouts.AdapterStop)
	defer cancel()
	for _, a := range c.adapters {
		if stopErr := a.Stop(stopCtx); stopErr != nil {
			log.Printf("coordinator: stopping adapter %s: %v", a.Name(), stopErr)
		}
	}
	return err
}

// poll drains every adapter once per iteration, sleeping only when no
// adapter had an event pending.
func (c *Coordinator) poll(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		busy := false
		for _, a := range c.adapters {
			if evt := a.Receive(); evt != nil {
				busy = true
				c.Dispatch(ctx, *evt)
			}
		}
		if busy {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(timeouts.AdapterPoll):
		}
	}
}

// Dispatch publishes one event through the bus, delivers the resulting
// messages, and chains follow-up events depth-first up to the follow-up
// cap. Event types no command handles are dropped with a best-effort
// notice to the acting player.
func (c *Coordinator) Dispatch(ctx context.Context, evt event.Event) {
	c.dispatch(ctx, evt, 0)
}

func (c *Coordinator) dispatch(ctx context.Context, evt event.Event, depth int) {
	ctx, span := c.tracer.Start(ctx, "coordinator.dispatch", trace.WithAttributes(
		attribute.String("event.type", string(evt.Type)),
		attribute.Int("event.depth", depth),
	))
	defer span.End()

	if !c.known[evt.Type] {
		log.Printf("coordinator: no command for event type %s", evt.Type)
		if evt.PlayerID != "" {
			c.deliver([]event.Message{{Recipient: evt.PlayerID, Content: c.printer.T(i18n.KeyGenericError)}})
		}
		return
	}

	results := c.bus.Publish(ctx, evt)
	c.deliver(event.Messages(results))

	for _, followUp := range event.FollowUps(results) {
		if depth+1 >= maxFollowUpDepth {
			log.Printf("coordinator: follow-up depth cap hit, dropping %s", followUp.Type)
			continue
		}
		c.dispatch(ctx, followUp, depth+1)
	}
}

// execute is the bus observer that runs the command for an event. Command
// failures never propagate: the acting player gets a generic error message
// and the failure is logged and recorded.
func (c *Coordinator) execute(ctx context.Context, evt event.Event) ([]event.Result, error) {
	cmd, err := c.factory.Create(evt)
	if err != nil {
		return nil, err
	}

	results, err := cmd.Execute(ctx, evt)
	if err != nil {
		log.Printf("coordinator: %s failed: %v", evt.Type, err)
		c.emitter.Emit(ctx, telemetry.KindCommandFailed, evt.RoomID, evt.PlayerID, string(evt.Type))
		if evt.PlayerID != "" {
			return []event.Result{event.MessageResult(evt.PlayerID, c.printer.T(i18n.KeyGenericError))}, nil
		}
		return nil, nil
	}
	c.emitter.Emit(ctx, telemetry.KindCommandExecuted, evt.RoomID, evt.PlayerID, string(evt.Type))
	return results, nil
}

// deliver fans messages out to every adapter. Adapters ignore recipients
// they do not serve.
func (c *Coordinator) deliver(messages []event.Message) {
	for _, msg := range messages {
		for _, a := range c.adapters {
			if err := a.Send(msg); err != nil {
				log.Printf("coordinator: adapter %s send to %s: %v", a.Name(), msg.Recipient, err)
			}
		}
	}
}
