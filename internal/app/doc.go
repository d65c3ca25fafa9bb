// Package app provides the application service layer.
//
// Orchestrates the task board use cases: render the board, add a task, delete a task.
// Sits between HTTP handlers and domain contracts. Depends on domain interfaces, not concrete implementations.
package app
