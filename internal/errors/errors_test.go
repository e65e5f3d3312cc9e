package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := NotFound("compliance run")
	wrapped := Wrapf(base, "failed to load run %s", "abc")

	assert.Equal(t, CodeNotFound, GetCode(wrapped))
	assert.Equal(t, "failed to load run abc: compliance run not found", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrapThroughStdlibWrapping(t *testing.T) {
	inner := fmt.Errorf("query: %w", DatabaseError("connection refused"))
	assert.Equal(t, CodeDatabaseError, GetCode(inner))
	assert.Equal(t, CodeDatabaseError, GetCode(Wrap(inner, "save run")))
}

func TestWrapPlainError(t *testing.T) {
	err := Wrap(stderrors.New("boom"), "context")
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeInvalidInput, stderrors.New("bad json"))
	assert.True(t, HasCode(err, CodeInvalidInput))
	assert.True(t, IsAppError(err))
	assert.Nil(t, WithCode(CodeInvalidInput, nil))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{InvalidInput("bad"), http.StatusBadRequest},
		{ValidationError("bad"), http.StatusUnprocessableEntity},
		{NotFound("run"), http.StatusNotFound},
		{Unavailable("run history"), http.StatusServiceUnavailable},
		{DatabaseError("down"), http.StatusInternalServerError},
		{stderrors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
