// Package api handles incoming HTTP requests for users and tasks. Handlers
// decode each body into an explicit request struct, call the service layer
// and translate results and errors into JSON responses. Error responses never
// carry internal details: MapErrorToStatusCode and GetSafeErrorMessage pick a
// fixed status and message, and the full error is logged after redaction.
package api
