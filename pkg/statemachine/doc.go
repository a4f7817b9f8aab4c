// Package statemachine provides a small, generic finite-state-machine
// implementation.
//
// States and events are any comparable types, typically string-based enums
// declared by the caller. The machine handles:
//  1. Transition lookup by current state and event
//  2. Optional Guard evaluation to accept or reject transitions
//  3. Execution of side-effect Actions before the state changes
//  4. Concurrency-safe access to the current state
//
// # Usage
//
//	type state string
//	type event string
//
//	m := statemachine.MustNew[state, event]("draft",
//	    statemachine.WithTransition[state, event]("draft", "in_review", "submit"),
//	)
//
//	next, err := m.Fire(ctx, "submit", nil)
//
// # Guards and Actions
//
// Several transitions may share a from/event pair; the first one whose guards
// all pass wins. This is how a single event branches into different target
// states depending on runtime data:
//
//	statemachine.WithTransition[state, event]("draft", "approved", "review",
//	    statemachine.WithGuard[state, event](isApproved),
//	    statemachine.WithAction[state, event](notify),
//	)
//
// # Error Handling
//
// Fire distinguishes "transition not defined" from "guard rejected":
//
//	if statemachine.IsNoTransitionAvailableError(err) { /* ... */ }
//	if statemachine.IsTransitionRejectedError(err)   { /* ... */ }
package statemachine
