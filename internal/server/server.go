package server

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/yotome/rag-assistant/internal/adapter/utils"
	"github.com/yotome/rag-assistant/internal/config"
	"github.com/yotome/rag-assistant/internal/handlers"
	"github.com/yotome/rag-assistant/internal/middleware"
	"github.com/yotome/rag-assistant/pkg/logger_i"
)

var (
	server  *http.Server
	_logger *logger_i.Logger
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	CloseServices    context.CancelFunc
}

func CreateServer(listenAddr string, h *handlers.Handler) {
	_logger = logger_i.NewLogger("Server")

	r := utils.GetRouter()

	r.Router.Get("/", middleware.GetHandler)
	r.Router.Post("/api/chat", middleware.Wrap(h.Chat))
	r.Router.Get("/api/docs", middleware.Wrap(h.ListDocuments))
	r.Router.Post("/api/docs/upload", middleware.Wrap(h.UploadDocument))
	r.Router.Delete("/api/docs/{id}", middleware.Wrap(h.DeleteDocument))
	r.Router.Get("/api/settings", middleware.Wrap(h.Settings))
	r.Router.Get("/api/healthz", middleware.Wrap(h.Health))

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error :", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	println("\nServer is shutting down", state)

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully: %s", err)
		}

		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Gracefully is shutting down")
	case <-ctx.Done():
		_logger.Info("Force Shut down")
		os.Exit(1)
	}
}
