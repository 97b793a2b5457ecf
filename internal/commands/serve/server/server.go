// Package server exposes the compiler over websockets.
//
// Every text message a client sends is compiled as a complete program; the reply is a
// single JSON text message. Binary messages are ignored.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/artuross/sexpc/internal/compiler/compileerr"
	"github.com/artuross/sexpc/internal/defaults"
	"github.com/artuross/sexpc/internal/log/semconv"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/artuross/sexpc/internal/commands/serve/server"
)

type Compiler interface {
	Compile(ctx context.Context, source string) (string, error)
}

type Response struct {
	ID     string `json:"id"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

// Err returns the compile failure carried by the response, or nil.
func (r *Response) Err() error {
	if r.Error == "" {
		return nil
	}

	return &RemoteError{
		ErrKind: compileerr.Kind(r.Kind),
		Message: r.Error,
	}
}

// RemoteError is a compile failure reported by a server.
type RemoteError struct {
	ErrKind compileerr.Kind
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

func (e *RemoteError) Kind() compileerr.Kind { return e.ErrKind }

type Server struct {
	compiler Compiler
	logger   zerolog.Logger
	tracer   trace.Tracer
}

func New(compiler Compiler, options ...func(*Server)) *Server {
	server := Server{
		compiler: compiler,
		logger:   zerolog.Nop(),
		tracer:   defaults.TracerProvider.Tracer(tracerName),
	}

	for _, apply := range options {
		apply(&server)
	}

	return &server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With().Str(semconv.ConnectionID, uuid.NewString()).Logger()

	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		logger.Warn().Err(err).Msg("upgrade connection")
		return
	}
	defer conn.Close()

	logger.Debug().Msg("connection opened")

	ctx := logger.WithContext(r.Context())

	if err := s.handle(ctx, conn); err != nil {
		logger.Warn().Err(err).Msg("connection failed")
		return
	}

	logger.Debug().Msg("connection closed")
}

func (s *Server) handle(ctx context.Context, conn io.ReadWriter) error {
	for {
		msg, op, err := wsutil.ReadClientData(conn)
		if isClosed(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		if op != ws.OpText {
			continue
		}

		response := s.compile(ctx, string(msg))

		data, err := json.Marshal(response)
		if err != nil {
			return fmt.Errorf("marshal response: %w", err)
		}

		if err := wsutil.WriteServerMessage(conn, ws.OpText, data); err != nil {
			return fmt.Errorf("write message: %w", err)
		}
	}
}

func (s *Server) compile(ctx context.Context, source string) Response {
	requestID := uuid.NewString()

	ctx, span := s.tracer.Start(ctx, "compile request", trace.WithAttributes(attribute.String(semconv.RequestID, requestID)))
	defer span.End()

	logger := zerolog.Ctx(ctx).With().Str(semconv.RequestID, requestID).Logger()
	ctx = logger.WithContext(ctx)

	output, err := s.compiler.Compile(ctx, source)
	if err != nil {
		kind := compileerr.KindOf(err)

		logger.Debug().Err(err).Str(semconv.ErrorKind, string(kind)).Msg("request failed")

		return Response{
			ID:    requestID,
			Error: err.Error(),
			Kind:  string(kind),
		}
	}

	logger.Debug().Int("bytes", len(output)).Msg("request done")

	return Response{
		ID:     requestID,
		Output: output,
	}
}

func isClosed(err error) bool {
	if err == nil {
		return false
	}

	var closedErr wsutil.ClosedError
	if errors.As(err, &closedErr) {
		return true
	}

	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

func WithLogger(logger zerolog.Logger) func(*Server) {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithTracerProvider(tp trace.TracerProvider) func(*Server) {
	return func(s *Server) {
		s.tracer = tp.Tracer(tracerName)
	}
}
