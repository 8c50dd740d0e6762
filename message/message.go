// Package message defines the coherence protocol's wire format: the
// immutable Message value and the FIFO Queue that carries it between the
// interconnect's two processing stages.
package message

// Kind identifies the seven coherence messages the protocol exchanges.
type Kind int

const (
	// ReadRequest asks the destination for a readable copy of a line.
	ReadRequest Kind = iota
	// WriteRequest asks the destination for exclusive write access to a line.
	WriteRequest
	// ReadAck tells the receiver its requested data is available; the
	// receiver should mark its line SHARED.
	ReadAck
	// WriteAck tells the receiver its write grant was delivered; the
	// receiver should mark its line MODIFIED.
	WriteAck
	// Invalidate tells the receiver to invalidate its copy of a line.
	Invalidate
	// InvalidateAck confirms an invalidation so the sending directory may
	// clear the receiver's presence bit.
	InvalidateAck
	// Fetch tells the receiver to downgrade its owning copy to SHARED
	// because its data is being transferred to a new reader.
	Fetch
)

// String renders a Kind the way the summary and test failures print it.
func (k Kind) String() string {
	switch k {
	case ReadRequest:
		return "ReadRequest"
	case WriteRequest:
		return "WriteRequest"
	case ReadAck:
		return "ReadAck"
	case WriteAck:
		return "WriteAck"
	case Invalidate:
		return "Invalidate"
	case InvalidateAck:
		return "InvalidateAck"
	case Fetch:
		return "Fetch"
	default:
		return "Unknown"
	}
}

// Message is an immutable record exchanged between nodes. Messages carry no
// payload, only identity: the line they concern and who sent/addressed it.
type Message struct {
	Kind    Kind
	Src     int
	Dst     int
	Address uint64
}

// New builds a Message. It is a plain value type; the Queue that holds it
// owns no pointers back into either endpoint.
func New(kind Kind, src, dst int, address uint64) Message {
	return Message{Kind: kind, Src: src, Dst: dst, Address: address}
}

// Queue is a single-producer/single-consumer FIFO of messages. Enqueue never
// fails. Dequeue on an empty queue returns the zero Message and ok=false;
// callers may check IsEmpty, the ok result, or both.
type Queue struct {
	items []Message
}

// NewQueue returns an empty queue ready to use.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends a message to the back of the queue.
func (q *Queue) Enqueue(m Message) {
	q.items = append(q.items, m)
}

// Dequeue removes and returns the message at the front of the queue.
func (q *Queue) Dequeue() (Message, bool) {
	if len(q.items) == 0 {
		return Message{}, false
	}
	m := q.items[0]
	q.items = q.items[1:]
	return m, true
}

// IsEmpty reports whether the queue currently holds no messages.
func (q *Queue) IsEmpty() bool {
	return len(q.items) == 0
}

// Size returns the number of messages currently queued.
func (q *Queue) Size() int {
	return len(q.items)
}
