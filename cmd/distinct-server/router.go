package main

import (
	"io"
	"strings"
)

// CommandHandler is the signature shared by all command handlers. Handlers
// write their reply to the provided io.Writer, typically a buffered writer
// wrapping the connection.
type CommandHandler func(w io.Writer, args []string)

// Router maps command names to their handlers.
type Router struct {
	handlers map[string]CommandHandler
}

func NewRouter() *Router {
	return &Router{
		handlers: make(map[string]CommandHandler),
	}
}

// Handle registers a handler. Lookup is case-insensitive.
func (r *Router) Handle(name string, handler CommandHandler) {
	r.handlers[strings.ToUpper(name)] = handler
}

// Dispatch executes the handler for a command. It returns true when the
// client asked to close the connection.
func (r *Router) Dispatch(app *application, w io.Writer, parts []string) (quit bool) {
	if len(parts) == 0 {
		return false
	}

	commandName := strings.ToUpper(parts[0])
	args := parts[1:]

	app.metrics.CommandsTotal.WithLabelValues(commandName).Inc()

	if commandName == "QUIT" {
		_ = app.writeSimpleStringResponse(w, "OK")
		return true
	}

	handler, found := r.handlers[commandName]
	if !found {
		app.unknownCommandResponse(w, commandName)
		return false
	}

	handler(w, args)
	return false
}

// commands registers every command the server supports. This is the single
// source of truth for the command surface.
func (app *application) commands() *Router {
	router := NewRouter()

	router.Handle("PING", app.handlePing)

	router.Handle("DH.CREATE", app.handleCreate)
	router.Handle("DH.INSERT", app.handleInsert)
	router.Handle("DH.CARD", app.handleCard)
	router.Handle("DH.TOP", app.handleTop)
	router.Handle("DH.MERGE", app.handleMerge)
	router.Handle("DH.RESET", app.handleReset)
	router.Handle("DH.LEN", app.handleLen)

	return router
}
