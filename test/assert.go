package test

import "testing"

// Equal reports a test error when expected and actual differ.
func Equal[T comparable](t *testing.T, expected, actual T) bool {
	t.Helper()

	if expected != actual {
		t.Errorf(""+
			"Not equal: \n"+
			"Expected: %v\n"+
			"Actual: %v", expected, actual)
		return false
	}

	return true
}

// True reports a test error with msg when cond is false.
func True(t *testing.T, cond bool, msg string) bool {
	t.Helper()

	if !cond {
		t.Error(msg)
		return false
	}

	return true
}

// NoError stops the test when err is not nil.
func NoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
