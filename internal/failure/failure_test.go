package failure

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestError_KindsSurviveWrapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		is   func(error) bool
		kind Kind
	}{
		{"input", Input("search", ErrInvalidQuery), IsInput, KindInput},
		{"transport", Transport("fetch", errors.New("status 503"), 503), IsTransport, KindTransport},
		{"decoding", Decoding("fetch", errors.New("bad utf-8")), IsDecoding, KindDecoding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wrapped := eris.Wrap(tt.err, "outer")
			assert.True(t, tt.is(wrapped))
			kind, ok := KindOf(wrapped)
			assert.True(t, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestError_Message(t *testing.T) {
	t.Parallel()

	err := Transport("duckduckgo: search", errors.New("status 502"), 502)
	assert.Equal(t, "duckduckgo: search: transport: status 502", err.Error())

	bare := Decoding("", errors.New("invalid utf-8"))
	assert.Equal(t, "decoding: invalid utf-8", bare.Error())
}

func TestError_UnwrapToSentinel(t *testing.T) {
	t.Parallel()

	err := Input("fetch", ErrInvalidURL)
	assert.ErrorIs(t, err, ErrInvalidURL)
	assert.False(t, IsTransport(err))
}

func TestKindOf_Unclassified(t *testing.T) {
	t.Parallel()

	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsInput(nil))
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestIsNetwork(t *testing.T) {
	t.Parallel()

	assert.False(t, IsNetwork(nil))
	assert.True(t, IsNetwork(context.DeadlineExceeded))
	assert.True(t, IsNetwork(timeoutErr{}))
	assert.True(t, IsNetwork(fmt.Errorf("dial: %w", syscall.ECONNREFUSED)))
	assert.True(t, IsNetwork(errors.New("lookup example.invalid: no such host")))
	assert.False(t, IsNetwork(errors.New("status 404")))
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "Invalid search query", UserMessage(Input("search", ErrInvalidQuery)))
	assert.Equal(t, "Invalid URL", UserMessage(eris.Wrap(Input("fetch", ErrInvalidURL), "x")))
	assert.Equal(t, "Network error occurred", UserMessage(Transport("search", errors.New("status 500 from 10.0.0.1"), 500)))
	assert.Equal(t, "Failed to decode response", UserMessage(Decoding("search", errors.New("x"))))
	assert.Equal(t, "Research was cancelled", UserMessage(eris.Wrap(context.Canceled, "answer")))
	assert.Equal(t, "Something went wrong while researching", UserMessage(errors.New("boom")))
}

func TestClassify(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Classify("op", nil))

	classified := Decoding("fetch", errors.New("bad"))
	assert.Same(t, classified, Classify("op", classified))

	err := Classify("fetch", fmt.Errorf("dial tcp: %w", syscall.ECONNRESET))
	assert.True(t, IsTransport(err))
	assert.Contains(t, err.Error(), "fetch: transport:")

	plain := errors.New("something else")
	assert.Equal(t, plain, Classify("op", plain))
}
