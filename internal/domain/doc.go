// Package domain contains the TaskMart entities (users, tasks and their
// owners) and the validation rules applied before anything is stored.
// Validation failures are reported as *ValidationError values whose Message
// is safe to return to clients.
package domain
