package transport

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gorilla/mux"
	"github.com/raywall/bookmark-service/pkg/config"
	"github.com/rs/zerolog"
)

// limite de payload do API Gateway
const maxBodyBytes = 10 << 20

// HTTPServer emula o API Gateway localmente: cada requisição vira um
// APIGatewayProxyRequest entregue ao Router.
type HTTPServer struct {
	router          *Router
	route           string
	addr            string
	shutdownTimeout time.Duration
	logger          zerolog.Logger
	srv             *http.Server
}

func NewHTTPServer(router *Router, cfg config.ServerConf, logger zerolog.Logger) *HTTPServer {
	s := &HTTPServer{
		router:          router,
		route:           cfg.Route,
		addr:            fmt.Sprintf(":%d", cfg.Port),
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}
	if s.route == "" {
		s.route = "/bookmarks"
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = 5 * time.Second
	}

	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler registra a rota no mux. Os métodos não são filtrados aqui: o
// Router responde 405 no mesmo formato do Lambda.
func (s *HTTPServer) Handler() http.Handler {
	r := mux.NewRouter()
	r.Handle(s.route, http.HandlerFunc(s.serve))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"not found"}`)
	})
	return r
}

// Run escuta no endereço configurado até ctx ser cancelado.
func (s *HTTPServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("falha ao escutar em %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve atende em ln e faz shutdown gracioso quando ctx termina.
func (s *HTTPServer) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info().Str("addr", ln.Addr().String()).Str("route", s.route).Msg("servidor HTTP ouvindo")

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Dur("timeout", s.shutdownTimeout).Msg("encerrando servidor HTTP")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *HTTPServer) serve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		_, _ = io.WriteString(w, `{"message":"request body too large"}`)
		return
	}

	resp, _ := s.router.Handle(r.Context(), toProxyRequest(r, s.route, body))
	writeProxyResponse(w, resp)
}

func toProxyRequest(r *http.Request, resource string, body []byte) events.APIGatewayProxyRequest {
	req := events.APIGatewayProxyRequest{
		Resource:                        resource,
		Path:                            r.URL.Path,
		HTTPMethod:                      r.Method,
		Headers:                         make(map[string]string, len(r.Header)),
		MultiValueHeaders:               make(map[string][]string, len(r.Header)),
		QueryStringParameters:           make(map[string]string),
		MultiValueQueryStringParameters: make(map[string][]string),
		Body:                            string(body),
		RequestContext: events.APIGatewayProxyRequestContext{
			HTTPMethod: r.Method,
			Path:       r.URL.Path,
			Identity:   events.APIGatewayRequestIdentity{SourceIP: r.RemoteAddr},
		},
	}

	for k, v := range r.Header {
		if len(v) > 0 {
			req.Headers[k] = v[0]
		}
		req.MultiValueHeaders[k] = v
	}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			req.QueryStringParameters[k] = v[0]
		}
		req.MultiValueQueryStringParameters[k] = v
	}
	return req
}

func writeProxyResponse(w http.ResponseWriter, resp events.APIGatewayProxyResponse) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	for k, vs := range resp.MultiValueHeaders {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}

	body := []byte(resp.Body)
	if resp.IsBase64Encoded {
		if decoded, err := base64.StdEncoding.DecodeString(resp.Body); err == nil {
			body = decoded
		}
	}

	w.WriteHeader(resp.StatusCode)
	if len(body) > 0 {
		_, _ = w.Write(body)
	}
}
