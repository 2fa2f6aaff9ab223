// Package assert mirrors the host project's shared/testutil/assert package:
// thin wrappers over testify/assert that record a failure but let the test
// keep running, for checks where continuing gives a more useful report.
package assert

import (
	"github.com/stretchr/testify/assert"
)

// NoError records a failure on t if err is non-nil.
func NoError(t assert.TestingT, err error, msgAndArgs ...interface{}) bool {
	return assert.NoError(t, err, msgAndArgs...)
}

// Equal records a failure on t if want and got are not deeply equal.
func Equal(t assert.TestingT, want, got interface{}, msgAndArgs ...interface{}) bool {
	return assert.Equal(t, want, got, msgAndArgs...)
}

// NotEqual records a failure on t if want and got are deeply equal.
func NotEqual(t assert.TestingT, want, got interface{}, msgAndArgs ...interface{}) bool {
	return assert.NotEqual(t, want, got, msgAndArgs...)
}

// True records a failure on t if cond is false.
func True(t assert.TestingT, cond bool, msgAndArgs ...interface{}) bool {
	return assert.True(t, cond, msgAndArgs...)
}

// ErrorContains records a failure on t unless err is non-nil and its message
// contains want.
func ErrorContains(t assert.TestingT, want string, err error, msgAndArgs ...interface{}) bool {
	if !assert.Error(t, err, msgAndArgs...) {
		return false
	}
	return assert.Contains(t, err.Error(), want, msgAndArgs...)
}
