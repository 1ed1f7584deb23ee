package service

import "demoride/pkg/model"

// transitionSources maps each target status to the statuses a booking may
// leave from. Terminal statuses are never a source; cancellation and no-show
// are reachable from every active status.
var transitionSources = map[model.BookingStatus][]model.BookingStatus{
	model.StatusConfirmed: {model.StatusReserved},
	model.StatusReady:     {model.StatusConfirmed},
	model.StatusInProgress: {
		model.StatusConfirmed,
		model.StatusReady,
	},
	model.StatusCompleted: {model.StatusInProgress},
	model.StatusCancelled: {
		model.StatusReserved,
		model.StatusConfirmed,
		model.StatusReady,
		model.StatusInProgress,
	},
	model.StatusNoShow: {
		model.StatusReserved,
		model.StatusConfirmed,
		model.StatusReady,
		model.StatusInProgress,
	},
}

// CanTransition reports whether the state machine permits moving a booking
// from one status to another.
func CanTransition(from, to model.BookingStatus) bool {
	for _, src := range transitionSources[to] {
		if src == from {
			return true
		}
	}
	return false
}
