// Package sanitizer normalizes client-supplied text before validation and
// persistence: service labels, free-form notes, and contact phone numbers.
// Sanitization is lossy on purpose; validation afterwards decides whether the
// normalized value is acceptable.
package sanitizer
