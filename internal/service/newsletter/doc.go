// Package newsletter implements the newsletter subscription service.
//
// It owns the subscription lifecycle: adding an address with a freshly
// generated ownership token, removing it only when that token is presented,
// and admin-gated enumeration of all subscribers. The admin secret is handed
// to the service at construction; every admin operation compares against it
// before touching the store.
//
// The service layer contains pure business logic and depends on the
// Repository interface defined in repository.go. Store handles are passed to
// each operation by the caller, which acquires them per request through an
// Acquirer. It never imports net/http or database/sql directly.
package newsletter
