package table

// EventKind classifies outbound table events for pkg/broadcast's drop
// policy: state updates are frequent and droppable under backpressure,
// reconciles are infrequent and must never be dropped.
type EventKind int

const (
	// EventStateUpdate announces an incremental change (an action applied,
	// a timer tick) that a client already holding prior state can fold in.
	EventStateUpdate EventKind = iota
	// EventReconcile announces a point where a client must resync its full
	// view: a new hand dealt, a reconnect, a showdown, or a runout reveal.
	EventReconcile
)

func (k EventKind) String() string {
	switch k {
	case EventStateUpdate:
		return "state_update"
	case EventReconcile:
		return "reconcile"
	default:
		return "unknown"
	}
}

// Event is one table-loop-emitted notification, consumed by pkg/broadcast
// to build the per-audience wire snapshot. The table loop never builds the
// snapshot itself — it only signals that one is due, keeping engine.Hand
// and its own state free of any broadcast-shaping logic.
type Event struct {
	Kind  EventKind
	Table string
}
