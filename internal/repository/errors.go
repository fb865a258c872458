// Package repository persists account records.  Two backends implement the
// same AccountStore interface: a JSON file (the default, human-editable)
// and a MySQL table for deployments that already run a database.  The
// sentinel errors defined here let handlers distinguish failure scenarios
// without inspecting backend-specific errors.
package repository

import "errors"

// ErrDuplicateAccount is returned by Create when the email is already
// registered.  Handlers should translate this into an HTTP 409 response.
var ErrDuplicateAccount = errors.New("account already exists")

// ErrUnknownAccount is returned when no record exists for the given email.
// Handlers should translate this into an HTTP 401 or 404 response
// depending on the endpoint.
var ErrUnknownAccount = errors.New("unknown account")
