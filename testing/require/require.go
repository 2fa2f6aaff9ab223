// Package require mirrors the host project's shared/testutil/require
// package: thin, fail-fast wrappers over testify/require so that test
// failures stop the test immediately rather than accumulating errors.
package require

import (
	"github.com/stretchr/testify/require"
)

// NoError fails t immediately if err is non-nil.
func NoError(t require.TestingT, err error, msgAndArgs ...interface{}) {
	require.NoError(t, err, msgAndArgs...)
}

// ErrorContains fails t immediately unless err is non-nil and its message
// contains want.
func ErrorContains(t require.TestingT, want string, err error, msgAndArgs ...interface{}) {
	require.Error(t, err, msgAndArgs...)
	require.Contains(t, err.Error(), want, msgAndArgs...)
}

// Equal fails t immediately if want and got are not deeply equal.
func Equal(t require.TestingT, want, got interface{}, msgAndArgs ...interface{}) {
	require.Equal(t, want, got, msgAndArgs...)
}

// NotNil fails t immediately if got is nil.
func NotNil(t require.TestingT, got interface{}, msgAndArgs ...interface{}) {
	require.NotNil(t, got, msgAndArgs...)
}

// True fails t immediately if cond is false.
func True(t require.TestingT, cond bool, msgAndArgs ...interface{}) {
	require.True(t, cond, msgAndArgs...)
}
