package listen

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// HTTP serves one mux per listen address.
type HTTP struct {
	sync.Mutex
	mp map[string]*http.ServeMux
}

func NewHTTP() *HTTP {
	return &HTTP{
		mp: make(map[string]*http.ServeMux),
	}
}

// Mux returns the mux for addr, creating it on first use. Handlers for
// components sharing an address end up on the same server.
func (h *HTTP) Mux(addr string) *http.ServeMux {
	h.Lock()
	defer h.Unlock()

	mux, exists := h.mp[addr]
	if exists {
		return mux
	}

	mux = http.NewServeMux()
	h.mp[addr] = mux
	return mux
}

// Run serves every mux until ctx is done or one of the servers fails. All
// servers are shut down before it returns.
func (h *HTTP) Run(ctx context.Context) error {
	h.Lock()
	defer h.Unlock()

	listeners := make(map[string]net.Listener, len(h.mp))
	for addr := range h.mp {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			for _, l := range listeners {
				l.Close()
			}
			return errors.Wrapf(err, "can't listen %s", addr)
		}
		listeners[addr] = ln
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errChan := make(chan error, len(listeners))
	var wg sync.WaitGroup

	for addr, ln := range listeners {
		addr, ln := addr, ln
		httpSrv := &http.Server{
			Handler:     h.mp[addr],
			ReadTimeout: 10 * time.Second,
		}

		zap.L().Info("listen", zap.String("addr", ln.Addr().String()))

		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- errors.Wrapf(err, "serve %s", addr)
			}
		}()

		go func() {
			defer wg.Done()
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				zap.L().Warn("can't shutdown server", zap.String("addr", addr), zap.Error(err))
			}
		}()
	}

	var err error
	select {
	case err = <-errChan:
	case <-ctx.Done():
		err = ctx.Err()
	}

	cancel()
	wg.Wait()
	return err
}
