package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/ridepass/internal/observability/logger"
)

// Run sirve app.Handler en addr hasta que ctx se cancele y después apaga
// con un tope de shutdownTimeout para los requests en vuelo.
func Run(ctx context.Context, app *App, ln net.Listener) error {
	cfg := app.Config
	srv := &http.Server{
		Handler:      app.Handler,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		BaseContext:  func(net.Listener) context.Context { return logger.ToContext(context.Background(), logger.L()) },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.L().Info("http server listening", logger.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		timeout := cfg.ShutdownTimeout()
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		sctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		logger.L().Info("shutting down http server")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
