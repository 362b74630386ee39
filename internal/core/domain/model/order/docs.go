// Package order provides the Order aggregate of the in-flight ordering
// system: a passenger's seat, the requested catalog items and the order's
// service status.
//
// The package includes:
//   - Order: the aggregate root, identified by a store-assigned id
//   - Line: an immutable order line referencing a catalog item
//   - Status: the fixed set of service statuses
//
// Key business rules:
//   - A seat is required and is at most MaxSeatLength characters
//   - Every line references a positive item id with quantity >= 1
//   - A new order starts in status New
//   - Any status of the fixed set may follow any other; the admin tooling
//     drives transitions
//   - The optional idempotency key is unique across all orders (enforced by
//     the store)
package order
