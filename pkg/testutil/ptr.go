// Package testutil holds small helpers shared by tests.
package testutil

// Ptr returns a pointer to a copy of v, for optional fields such as
// RecognitionOptions.RawResults.
func Ptr[T any](v T) *T { return &v }
