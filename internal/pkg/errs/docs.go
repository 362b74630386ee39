// Package errs provides the error types shared by the order intake and
// delivery pipeline.
//
// Every type follows the same shape:
//   - a sentinel error variable (e.g. ErrObjectNotFound)
//   - a struct carrying the details of the failure
//   - constructors with and without a cause
//   - Error() for the message and Unwrap() returning the sentinel
//
// Callers classify failures with errors.Is against the sentinels and use
// errors.As when they need the details, for example the full list of
// unresolved item ids carried by InvalidReferenceError.
//
// The sentinels map onto the pipeline's taxonomy:
//   - ErrInvalidReference: an order referenced unknown items
//   - ErrObjectNotFound: unknown order or message id
//   - ErrConflict: duplicate idempotency key, recovered by the intake handler
//   - ErrDeliveryFailed: transient outbound failure, left for the retry sweep
package errs
