// Package taskgraph registers named build tasks, resolves the ordered
// closure of a target and executes it strictly in order.
//
// Dependency kinds:
//   - DependsOn: the named tasks join the plan and complete first.
//   - After:     ordering only; the task runs after the named ones if they
//     are part of the same plan.
//   - Before:    ordering only; the task runs before the named ones if they
//     are part of the same plan.
//
// Ties between tasks with no ordering constraint are broken by registration
// order, so identical registrations always produce identical plans.
//
// Each task moves through Pending -> Running -> Completed|Failed once per
// execution. A task whose condition is false is marked Completed without
// running its action and still satisfies the tasks that depend on it.
package taskgraph
