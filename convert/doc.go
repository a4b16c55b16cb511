// Package convert holds the bit-exact conversions between onx value types and the
// representations hosts exchange: UUID strings, color tuples and base64 buffers.
//
// Conversions are pure functions with no state and are safe for concurrent use.
package convert
