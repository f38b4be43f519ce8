// Package internal holds assertion helpers shared by the package tests.
package internal

import (
	"fmt"
	"reflect"
	"testing"
	"time"
)

// TableFailureMessage reports a failed table case by name
func TableFailureMessage(t *testing.T, testName, got, want interface{}) {
	t.Helper()
	t.Errorf("%s\nGot: %+v\nWant: %+v", testName, got, want)
}

func failure(t *testing.T, got, want interface{}) {
	t.Helper()
	t.Errorf("\nGot: %s\nwant: %s", fmt.Sprintf("%+v", got), fmt.Sprintf("%+v", want))
}

// AssertNoError stops the test on an unexpected error
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
}

func AssertErrored(t *testing.T, err error) {
	t.Helper()

	if err == nil {
		t.Fatal("Expected an error, but got nil")
	}
}

// AssertEqual compares with ==, so both values must be comparable
func AssertEqual(t *testing.T, got, want interface{}) {
	t.Helper()

	if got != want {
		failure(t, got, want)
	}
}

func AssertDeepEqual(t *testing.T, got, want interface{}) {
	t.Helper()

	if !reflect.DeepEqual(got, want) {
		failure(t, got, want)
	}
}

func AssertStringEquality(t *testing.T, got, want string) {
	t.Helper()
	if want != got {
		t.Errorf("got %q, want %q", got, want)
	}
}

func AssertTrue(t *testing.T, got bool) {
	t.Helper()

	if !got {
		t.Error("Expected to be true, but it wasn't")
	}
}

// AssertNotEmptyString checks ids and names were filled in
func AssertNotEmptyString(t *testing.T, got string) {
	t.Helper()

	if got == "" {
		t.Error("unexpected empty string")
	}
}

// Within fails the test if fn has not returned after d
func Within(t *testing.T, d time.Duration, fn func()) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()

	select {
	case <-time.After(d):
		t.Error("timed out")
	case <-done:
	}
}
