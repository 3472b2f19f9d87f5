package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_TaggedError(t *testing.T) {
	err := NewTaggedError(ErrCodeTimeout, "navigation timed out", nil)
	assert.Equal(t, ErrCodeTimeout, ErrorCode(err))
}

func TestErrorCode_WrappedTaggedError(t *testing.T) {
	tagged := NewTaggedError(ErrCodeNavigation, "navigation failed", errors.New("net::ERR_FAILED"))
	wrapped := fmt.Errorf("fetch %s: %w", "https://shop.example", tagged)

	assert.Equal(t, ErrCodeNavigation, ErrorCode(wrapped))
}

func TestErrorCode_UntaggedError(t *testing.T) {
	assert.Equal(t, ErrCodeInternal, ErrorCode(errors.New("boom")))
}

func TestErrorCode_NilError(t *testing.T) {
	assert.Equal(t, ErrCodeInternal, ErrorCode(nil))
}

func TestTaggedError_ErrorStringAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewTaggedError(ErrCodeBrowserLaunch, "failed to launch browser", cause)

	assert.Equal(t, "BROWSER_LAUNCH_FAILED: failed to launch browser: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewTaggedError(ErrCodeEmptyHTML, "page rendered no HTML", nil)
	assert.Equal(t, "EMPTY_HTML: page rendered no HTML", bare.Error())
}
