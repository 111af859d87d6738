package display

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vk/fractalgrid/internal/ctxlog"
	"github.com/vk/fractalgrid/internal/framebuffer"
)

// Completion is the message pushed to websocket clients when the frame is
// ready.
type Completion struct {
	Event  string `json:"event"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Frame  string `json:"frame"`
}

// Server serves the finished frame over HTTP.
//
//	GET /health     liveness probe
//	GET /frame.png  the frame, 503 until it is complete
//	GET /ws         websocket; receives one Completion message, then closes
type Server struct {
	ctx context.Context

	once     sync.Once
	complete chan struct{}
	frame    []byte
	info     Completion

	httpServer *http.Server
}

var _ Sink = (*Server)(nil)

// NewServer creates a server whose handlers log through the logger in ctx.
func NewServer(ctx context.Context) *Server {
	s := &Server{ctx: ctx, complete: make(chan struct{})}
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/frame.png", s.frameHandler)
	mux.HandleFunc("/ws", s.websocketHandler)
	return mux
}

// Listen starts serving on addr in the background and returns the bound
// address.
func (s *Server) Listen(addr string) (net.Addr, error) {
	logger := ctxlog.FromContext(s.ctx)

	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("net.Listen: %w", err)
	}

	go func() {
		logger.Info("🖼️ Display server starting", "address", fmt.Sprintf("http://%s/frame.png", l.Addr()))
		if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Display server failed unexpectedly", "error", err)
		}
	}()
	return l.Addr(), nil
}

// Shutdown stops the server, waiting at most until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	logger := ctxlog.FromContext(s.ctx)
	logger.Debug("Shutting down display server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("display server shutdown: %w", err)
	}
	logger.Debug("Display server shut down gracefully.")
	return nil
}

// Show implements Sink. The frame is encoded once and published to every
// current and future client. Later calls are ignored.
func (s *Server) Show(ctx context.Context, frame *framebuffer.View) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}

	res := frame.Resolution()
	s.once.Do(func() {
		s.frame = buf.Bytes()
		s.info = Completion{Event: "complete", Width: res.Width, Height: res.Height, Frame: "/frame.png"}
		close(s.complete)
	})
	ctxlog.FromContext(ctx).Debug("Frame published to display server.", "bytes", buf.Len())
	return nil
}

// Completed is closed once a frame has been published.
func (s *Server) Completed() <-chan struct{} {
	return s.complete
}

func (s *Server) ready() bool {
	select {
	case <-s.complete:
		return true
	default:
		return false
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctxlog.FromContext(s.ctx).Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *Server) frameHandler(w http.ResponseWriter, r *http.Request) {
	if !s.ready() {
		http.Error(w, "frame not ready", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.frame)
}

// websocketHandler holds the connection open until the frame is complete,
// then sends a single Completion message.
func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(s.ctx)

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		logger.Warn("Websocket accept failed.", "error", err)
		return
	}
	defer c.CloseNow()

	ctx := c.CloseRead(r.Context())
	select {
	case <-s.complete:
	case <-ctx.Done():
		return
	case <-s.ctx.Done():
		c.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	if err := wsjson.Write(ctx, c, s.info); err != nil {
		logger.Warn("Websocket write failed.", "error", err)
		return
	}
	c.Close(websocket.StatusNormalClosure, "")
}
