package main

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const (
	writeTimeout              = 5 * time.Second
	rejectionTimeout          = 500 * time.Millisecond
	errMaxConnectionsResponse = "-ERR max number of clients reached\r\n"
)

// serve starts the TCP server and blocks until shutdown.
//
// Connections are capped with a buffered channel used as a semaphore: a
// non-blocking send is a try-acquire, and a full buffer means the connection
// is rejected immediately rather than queued. A dedicated goroutine listens
// for SIGINT/SIGTERM, closes the listener, and waits (bounded by the shutdown
// timeout) for in-flight handlers to drain.
func (app *application) serve() error {
	addr := fmt.Sprintf(":%d", app.config.port)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	app.listener = ln
	serverAddr := ln.Addr().String()

	if app.readyCh != nil {
		close(app.readyCh)
	}

	shutdownError := make(chan error)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server",
			zap.String("signal", s.String()),
			zap.String("address", serverAddr))

		if err := ln.Close(); err != nil {
			shutdownError <- err
			return
		}

		wgDone := make(chan struct{})
		go func() {
			app.wg.Wait()
			close(wgDone)
		}()

		select {
		case <-wgDone:
			shutdownError <- nil
		case <-time.After(app.config.shutdownTimeout):
			shutdownError <- errors.New("shutdown timed out waiting for connections to drain")
		}
	}()

	app.logger.Info("server starting", zap.String("address", serverAddr))

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				break
			}
			app.logger.Error("failed to accept connection", zap.Error(err))
			continue
		}

		select {
		case app.connLimiter <- struct{}{}:
			app.wg.Add(1)
			go app.handleConnection(conn)
		default:
			app.logger.Info("rejecting connection, limit reached",
				zap.String("remote_addr", conn.RemoteAddr().String()))

			// Strict deadline so a client that never reads cannot stall
			// the accept loop.
			_ = conn.SetWriteDeadline(time.Now().Add(rejectionTimeout))
			_, _ = conn.Write([]byte(errMaxConnectionsResponse))
			_ = conn.Close()
		}
	}

	if err := <-shutdownError; err != nil {
		app.logger.Error("server stopped with error", zap.Error(err))
		return err
	}

	app.logger.Info("server stopped gracefully")
	return nil
}

// handleConnection runs the request/response loop for one client.
//
// Responses accumulate in a bufio.Writer and are flushed only when the
// parser's read buffer is empty, so a pipelined batch of commands produces a
// single write syscall for the whole batch of replies.
func (app *application) handleConnection(conn net.Conn) {
	defer func() { <-app.connLimiter }()
	defer app.wg.Done()
	defer func() { _ = conn.Close() }()

	app.metrics.ConnectionsTotal.Inc()
	app.metrics.ConnectionsActive.Inc()
	defer app.metrics.ConnectionsActive.Dec()

	remoteAddr := conn.RemoteAddr().String()
	app.logger.Info("new connection", zap.String("remote_addr", remoteAddr))

	parser := NewParser(conn)
	writer := bufio.NewWriterSize(conn, 4096)

	// Flush before close so replies to already-processed commands are not
	// lost when a later command in the same batch fails to parse.
	defer func() { _ = writer.Flush() }()

	for {
		if app.config.idleTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(app.config.idleTimeout)); err != nil {
				app.logger.Error("failed to set read deadline",
					zap.Error(err), zap.String("remote_addr", remoteAddr))
				return
			}
		}

		parts, err := parser.Parse()
		if err != nil {
			if errors.Is(err, errClientGone) {
				app.logger.Info("client disconnected", zap.String("remote_addr", remoteAddr))
			} else {
				app.logger.Error("parser error",
					zap.Error(err), zap.String("remote_addr", remoteAddr))
			}
			return
		}

		quit := app.router.Dispatch(app, writer, parts)
		if quit {
			_ = writer.Flush()
			return
		}

		if parser.Buffered() == 0 {
			if err := writer.Flush(); err != nil {
				app.logger.Error("failed to flush response",
					zap.Error(err), zap.String("remote_addr", remoteAddr))
				return
			}
		}
	}
}
