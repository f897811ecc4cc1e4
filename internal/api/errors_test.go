package api

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	assert.Equal(t, 503, StatusCode(&StatusError{Op: OpGenerate, StatusCode: 503}))
	assert.Equal(t, 404, StatusCode(fmt.Errorf("wrapped: %w", &StatusError{StatusCode: 404})))
	assert.Equal(t, 0, StatusCode(&TransportError{Op: OpLoad, Err: errors.New("refused")}))
	assert.Equal(t, 0, StatusCode(nil))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "generate: server returned 500: boom",
		(&StatusError{Op: OpGenerate, StatusCode: 500, Body: "boom"}).Error())
	assert.Equal(t, "generate: server returned 502",
		(&StatusError{Op: OpGenerate, StatusCode: 502}).Error())

	inner := errors.New("dial tcp: refused")
	te := &TransportError{Op: OpLoad, Err: inner}
	assert.Equal(t, "load: dial tcp: refused", te.Error())
	assert.ErrorIs(t, te, inner)

	ie := &InvalidResponseError{Op: OpGenerate, Err: inner}
	assert.ErrorIs(t, ie, inner)
	assert.Contains(t, ie.Error(), "invalid response")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("x", 20)
	assert.Equal(t, strings.Repeat("x", 10)+"...", truncate(long, 10))

	// "é" is two bytes; a limit landing inside it backs off to the rune start.
	got := truncate("abé-rest", 3)
	assert.Equal(t, "ab...", got)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "abé...", truncate("abé-rest", 4))
}
