package loxserve

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/reusee/tailox/logs"
	"github.com/reusee/tailox/loxc"
	"github.com/reusee/tailox/loxvm"
	"github.com/reusee/tailox/vars"
)

// Server evaluates Lox over websocket connections. Each connection owns one VM.
type Server struct {
	Logger logs.Logger
	// Secret enables bearer token authentication if not empty
	Secret    []byte
	MaxFrames int
	// Timeout bounds each request. Zero means no limit.
	Timeout time.Duration
	// NewSpan starts a span per connection if not nil
	NewSpan logs.NewSpan

	upgrader websocket.Upgrader
	sessions atomic.Int64
}

var _ http.Handler = new(Server)

func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/eval", s)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})
	return mux
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := s.Logger.With("remote", r.RemoteAddr)

	subject := ""
	if len(s.Secret) > 0 {
		var err error
		subject, err = verifyToken(s.Secret, requestToken(r))
		if err != nil {
			logger.Warn("reject connection", "error", err)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		logger = logger.With("subject", subject)
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied
		logger.Warn("upgrade", "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	if s.NewSpan != nil {
		ctx, _ = s.NewSpan(ctx, "", "remote", r.RemoteAddr, "subject", subject)
	}

	n := s.sessions.Add(1)
	defer s.sessions.Add(-1)
	logger.InfoContext(ctx, "session start", "sessions", n)
	defer logger.InfoContext(ctx, "session end")

	session := newSession(s.MaxFrames)
	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("read", "error", err)
			}
			return
		}
		resp := session.handle(ctx, req, s.timeout(req), logger)
		if err := conn.WriteJSON(resp); err != nil {
			logger.Debug("write", "error", err)
			return
		}
	}
}

func (s *Server) timeout(req Request) time.Duration {
	if ms := vars.DerefOrZero(req.TimeoutMS); ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return s.Timeout
}

// Sessions returns the number of open connections.
func (s *Server) Sessions() int64 {
	return s.sessions.Load()
}

type session struct {
	vm        *loxvm.VM
	output    *bytes.Buffer
	maxFrames int
}

func newSession(maxFrames int) *session {
	s := &session{
		output:    new(bytes.Buffer),
		maxFrames: maxFrames,
	}
	s.reset()
	return s
}

func (s *session) reset() {
	vm, err := loxc.NewVM("session", strings.NewReader(""), &loxc.Options{
		Stdout:    s.output,
		MaxFrames: s.maxFrames,
	})
	if err != nil {
		// empty source always compiles
		panic(err)
	}
	s.vm = vm
}

func (s *session) handle(ctx context.Context, req Request, timeout time.Duration, logger logs.Logger) (resp Response) {
	if req.Reset {
		s.reset()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	s.output.Reset()
	result, err := loxc.ExecContext(ctx, s.vm, req.Source, logger)
	resp.Output = s.output.String()
	if err != nil {
		resp.Error = err.Error()
		resp.Kind = errorKind(err)
		if resp.Kind == KindTimeout && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			// the connection went away
			logger.DebugContext(ctx, "canceled", "error", err)
		}
		return
	}
	if result != nil {
		if _, ok := result.(loxvm.Nil); !ok {
			resp.Result = result.String()
		}
	}
	return
}
