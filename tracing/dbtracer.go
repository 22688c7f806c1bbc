package tracing

import (
	"sync"

	"github.com/sarchlab/qnet/datarecording"
)

// A DBTracer records transmissions through a DataRecorder. Put-side and
// get-side records go to separate tables; joining on the transmission ID
// recovers the full life of a transfer.
//
// A DBTracer can collect from many connections at once; agents enqueue and
// dequeue concurrently, so the tracer serializes its writes.
type DBTracer struct {
	lock     sync.Mutex
	recorder datarecording.DataRecorder
}

// NewDBTracer creates a DBTracer that writes through the given recorder.
func NewDBTracer(recorder datarecording.DataRecorder) *DBTracer {
	t := &DBTracer{recorder: recorder}

	recorder.CreateTable("transmissions_sent", Transmission{})
	recorder.CreateTable("transmissions_received", Transmission{})

	return t
}

// StartTransmission records the put side of a transmission.
func (t *DBTracer) StartTransmission(trans Transmission) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.recorder.InsertData("transmissions_sent", trans)
}

// EndTransmission records the get side of a transmission.
func (t *DBTracer) EndTransmission(trans Transmission) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.recorder.InsertData("transmissions_received", trans)
}
