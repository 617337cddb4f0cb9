package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SlotsRequested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_slots_requested_total",
		Help: "Slots moved to requested by center users.",
	})

	SlotsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_slots_confirmed_total",
		Help: "Slots confirmed by admins.",
	})

	SlotsDenied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_slots_denied_total",
		Help: "Slot requests denied by admins.",
	})

	BookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_conflicts_total",
		Help: "Booking operations rejected because a concurrent claim won.",
	})

	SlotsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_slots_generated_total",
		Help: "Time slots created by the generator.",
	})
)
