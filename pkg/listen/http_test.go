package listen

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMux(t *testing.T) {
	h := NewHTTP()
	a := h.Mux("127.0.0.1:0")
	assert.Same(t, a, h.Mux("127.0.0.1:0"))
	assert.NotSame(t, a, h.Mux("127.0.0.2:0"))
}

func TestRunCancel(t *testing.T) {
	h := NewHTTP()
	h.Mux("127.0.0.1:0").HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := h.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunBadAddress(t *testing.T) {
	h := NewHTTP()
	h.Mux("127.0.0.1:0")
	h.Mux("no-port")

	err := h.Run(context.Background())
	assert.Error(t, err)
}
