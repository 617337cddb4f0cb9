package audit

import "log"

// Event is an audit record for non-critical actions (logins, registrations).
// Booking mutations do not go through the dispatcher: they are written
// synchronously inside the mutating transaction.
type Event struct {
	ActorID     string
	TargetTable string
	TargetID    *uint
	ActionType  string
	Changes     any
}

type Dispatcher struct {
	logger *Logger
	queue  chan Event
}

func NewDispatcher(logger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.logger.Log(
			ev.ActorID,
			ev.TargetTable,
			ev.TargetID,
			ev.ActionType,
			ev.Changes,
		); err != nil {
			log.Println("audit error:", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos audit (nunca quebrar API)
		log.Println("audit queue full, dropping event")
	}
}
