package sim

import "sync"

// A TransferQueue is an unbounded FIFO that one agent pushes into and the
// peer agent pops from. It provides all the mutual exclusion the two sides
// need; callers never lock around it.
type TransferQueue struct {
	mu   sync.Mutex
	cond *sync.Cond

	name     string
	elements []interface{}
}

// NewTransferQueue creates an empty queue with the given name.
func NewTransferQueue(name string) *TransferQueue {
	NameMustBeValid(name)

	q := &TransferQueue{name: name}
	q.cond = sync.NewCond(&q.mu)

	return q
}

// Name returns the name of the queue.
func (q *TransferQueue) Name() string {
	return q.name
}

// Push appends an element to the tail of the queue and wakes one waiting
// popper.
func (q *TransferQueue) Push(e interface{}) {
	q.mu.Lock()
	q.elements = append(q.elements, e)
	q.mu.Unlock()

	q.cond.Signal()
}

// Pop removes and returns the element at the head of the queue, blocking
// the caller until an element is available. This is the only blocking
// point in the simulator.
func (q *TransferQueue) Pop() interface{} {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.elements) == 0 {
		q.cond.Wait()
	}

	e := q.elements[0]
	q.elements = q.elements[1:]

	return e
}

// Size returns the number of pending elements.
func (q *TransferQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.elements)
}
