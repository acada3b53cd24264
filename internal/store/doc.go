// Package store implements the shared observable state record the widget is built around.
//
// A [Store] holds a single [State] value. All mutation goes through
// [Store.SetState], which applies a replace-by-function-of-previous-state
// update atomically: subscribers never observe interleaved partial writes.
// [Store.Subscribe] delivers every transition as a (new, previous) pair in
// subscription order.
//
// The discrete [Intent] field carries the next action the sync engine should
// take as a tagged union with a payload per variant. The engine consumes the
// intent and returns the store to [IntentSettled] once per cycle.
//
// Each transition is also appended to a bounded journal ([Store.Journal]),
// which tests use to assert exact write sequences.
package store
