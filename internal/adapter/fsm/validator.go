package fsm

import (
	"context"
	"strconv"

	loopfsm "github.com/looplab/fsm"

	"github.com/retailops/statusflow/internal/domain"
)

// Compile-time check: Validator implements domain.TransitionValidator.
var _ domain.TransitionValidator = (*Validator)(nil)

// Validator implements domain.TransitionValidator using looplab/fsm.
//
// Unlike a fixed lifecycle, the graph here is tenant data: every store
// configures its own edges per entity type. So the machine is built per call
// from the supplied edge set, initialized with the entity's current status.
// This is also necessary because looplab/fsm is stateful (it tracks the
// current state internally).
type Validator struct{}

// New creates a new FSM-backed transition validator.
func New() *Validator {
	return &Validator{}
}

// Allowed reports whether moving from fromStatusID to toStatusID is legal
// under the given edges. Disabled edges are excluded from the machine, so a
// disabled edge and a missing edge are indistinguishable to callers.
func (v *Validator) Allowed(ctx context.Context, edges []domain.StatusTransition, fromStatusID, toStatusID int64) bool {
	machine := loopfsm.NewFSM(stateName(fromStatusID), buildEvents(edges), nil)

	return machine.Event(ctx, eventName(toStatusID)) == nil
}

// buildEvents converts the enabled edges into looplab/fsm EventDesc format.
// The event for reaching a status is named after that status, so edges into
// the same destination consolidate into a single EventDesc with multiple
// source states.
func buildEvents(edges []domain.StatusTransition) []loopfsm.EventDesc {
	grouped := make(map[int64][]string)
	order := make([]int64, 0)

	for _, e := range edges {
		if !e.IsAllowed() {
			continue
		}
		if _, exists := grouped[e.ToStatusID]; !exists {
			order = append(order, e.ToStatusID)
		}
		grouped[e.ToStatusID] = append(grouped[e.ToStatusID], stateName(e.FromStatusID))
	}

	out := make([]loopfsm.EventDesc, 0, len(order))
	for _, dst := range order {
		out = append(out, loopfsm.EventDesc{
			Name: eventName(dst),
			Src:  grouped[dst],
			Dst:  stateName(dst),
		})
	}
	return out
}

func stateName(statusID int64) string {
	return strconv.FormatInt(statusID, 10)
}

func eventName(statusID int64) string {
	return "goto_" + strconv.FormatInt(statusID, 10)
}
