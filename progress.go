package unitworld

const (
	PROGRESS EventType = iota
	MATRIX_DONE
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// ProgressEvent reports how many rows of a bipartite matrix are finished.
type ProgressEvent struct {
	Done  int
	Total int
}

func (e ProgressEvent) Type() EventType { return PROGRESS }

// MatrixDoneEvent is sent once a visibility matrix is complete.
type MatrixDoneEvent struct {
	Rows  int
	Cols  int
	Valid int
}

func (e MatrixDoneEvent) Type() EventType { return MATRIX_DONE }

// EventListener - callback for events
type EventListener func(event Event)

// Events dispatches batch events to listeners. Listeners are only ever called from one
// goroutine at a time, but not always the caller's one.
type Events struct {
	listeners map[EventType][]EventListener
}

func NewEvents() Events {
	return Events{
		listeners: make(map[EventType][]EventListener),
	}
}

// Subscribe adds a listener for an event type. It must not be called during a batch query.
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]EventListener)
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) emit(event Event) {
	for _, listener := range e.listeners[event.Type()] {
		listener(event)
	}
}
