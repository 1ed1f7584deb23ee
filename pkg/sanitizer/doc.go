// Package sanitizer normalizes rider-supplied input before validation and
// storage.
//
// All normalization functions are idempotent - applying them multiple times
// produces the same result. Invalid input yields empty strings rather than
// errors; the validator decides whether an empty value is acceptable.
package sanitizer
