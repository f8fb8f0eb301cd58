package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"tradedesk/internal/common"

	"github.com/gorilla/mux"
)

func (w *Worker) getHttpHandler() http.Handler {
	router := mux.NewRouter()
	common.RegisterCommonHttpEndpoints(common.CommonHttpEndpointsOpts{
		Router:          router,
		ServiceLogs:     w.serviceLogs,
		LivenessChecks:  w.livenessChecks,
		ReadinessChecks: w.readinessChecks,
	})
	return router
}

// serveHttp listens on the worker's http address until ctx is done and
// then shuts the server down gracefully
func (w *Worker) serveHttp(ctx context.Context) error {
	server := &http.Server{
		Addr:    w.httpAddr,
		Handler: w.getHttpHandler(),
	}
	serveErrors := make(chan error, 1)
	go func() {
		defer close(serveErrors)
		w.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "starting http listener on %s...", w.httpAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrors <- fmt.Errorf("failed to start http server: %w", err)
		}
	}()

	select {
	case err, ok := <-serveErrors:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	<-serveErrors
	w.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "http listener stopped")
	return nil
}
