package bot

import (
	"context"
	"log/slog"
	"regexp"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandlerFunc executes one command end-to-end. match holds the command
// pattern's submatches (match[0] is the full text).
type HandlerFunc func(ctx context.Context, msg *tgbotapi.Message, match []string)

type route struct {
	name    string
	pattern *regexp.Regexp
	handler HandlerFunc
}

// Router matches inbound message text against a declarative table of command
// patterns and dispatches the first match. New commands are additive rows,
// not new conditionals.
type Router struct {
	routes []route
	logger *slog.Logger
	wg     sync.WaitGroup
}

func NewRouter(logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{logger: logger.With("component", "router")}
}

// Handle registers a command route. pattern must be a valid regular
// expression; registration happens once at startup, so a bad pattern panics.
func (r *Router) Handle(name, pattern string, handler HandlerFunc) {
	r.routes = append(r.routes, route{
		name:    name,
		pattern: regexp.MustCompile(pattern),
		handler: handler,
	})
}

// Dispatch routes one message. The matching handler runs in its own
// goroutine so a slow or failing handler never blocks the receive loop;
// panics are recovered and logged. Returns whether any route matched.
func (r *Router) Dispatch(ctx context.Context, msg *tgbotapi.Message) bool {
	if msg == nil || msg.Text == "" {
		return false
	}

	for _, rt := range r.routes {
		match := rt.pattern.FindStringSubmatch(msg.Text)
		if match == nil {
			continue
		}

		r.wg.Add(1)
		go func(rt route, match []string) {
			defer r.wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					r.logger.ErrorContext(ctx, "Command handler panicked",
						"command", rt.name, "panic", rec)
				}
			}()
			rt.handler(ctx, msg, match)
		}(rt, match)
		return true
	}

	return false
}

// Wait blocks until all dispatched handlers have finished.
func (r *Router) Wait() {
	r.wg.Wait()
}
