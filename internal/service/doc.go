// Package service contains the application use cases: registering and listing
// users, and the task lifecycle. Services receive their store.Collection
// through constructor injection and never depend on a specific backend.
//
// Error handling:
//   - Client mistakes surface as *domain.ValidationError.
//   - A missing task surfaces as store.ErrTaskNotFound.
//   - Store failures are wrapped in *store.StoreError.
//
// The API layer maps these to HTTP status codes with errors.Is/errors.As.
package service
