// Package tracing collects transmission traces from agents and
// connections.
package tracing

import "github.com/sarchlab/qnet/sim"

// A Transmission is one recorded payload transfer over a connection.
type Transmission struct {
	ID   string
	Kind string
	Src  string
	Dst  string
	Link string

	PayloadSize int

	SourceDelay float64
	TotalDelay  float64
	SendTime    float64
}

// A Tracer can collect transmission traces. StartTransmission fires on the
// put side, before the receiver has dequeued; EndTransmission fires on the
// get side, with the total delay filled in.
type Tracer interface {
	StartTransmission(t Transmission)
	EndTransmission(t Transmission)
}

// CollectTrace lets the tracer collect transmissions from a domain,
// typically a QConnect or a CConnect.
func CollectTrace(domain sim.NamedHookable, tracer Tracer) {
	h := &traceHook{t: tracer}
	domain.AcceptHook(h)
}

// A traceHook adapts connection hooks to Tracer calls.
type traceHook struct {
	t Tracer
}

// Func calls the tracer interfaces when the hook is triggered.
func (h *traceHook) Func(ctx sim.HookCtx) {
	info, ok := ctx.Item.(sim.TransmissionInfo)
	if !ok {
		return
	}

	trans := Transmission{
		ID:          info.ID,
		Kind:        string(info.Kind),
		Src:         info.Src,
		Dst:         info.Dst,
		Link:        domainName(ctx.Domain),
		PayloadSize: info.PayloadSize,
		SourceDelay: float64(info.SourceDelay),
		TotalDelay:  float64(info.TotalDelay),
		SendTime:    float64(info.SendTime),
	}

	switch ctx.Pos {
	case sim.HookPosConnPut:
		h.t.StartTransmission(trans)
	case sim.HookPosConnGet:
		h.t.EndTransmission(trans)
	}
}

func domainName(domain sim.Hookable) string {
	named, ok := domain.(sim.Named)
	if !ok {
		return ""
	}

	return named.Name()
}
