package transport

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/raywall/bookmark-service/pkg/handler"
	"github.com/raywall/bookmark-service/pkg/metrics"
	"github.com/raywall/bookmark-service/pkg/responder"
	"github.com/rs/zerolog"
)

const (
	HeaderCorrelationID = "x-correlation-id"
	HeaderLatency       = "x-latency-ms"

	// HandlerAll habilita as quatro operações no mesmo binário
	HandlerAll = "all"

	opUnrouted = "none"
)

type route struct {
	op string
	fn handler.Func
}

// RouterOptions agrupa as dependências do Router.
type RouterOptions struct {
	// Handler restringe o roteador a uma operação (create, read, update,
	// delete) ou "all".
	Handler   string
	Timeout   time.Duration
	Logger    zerolog.Logger
	Metrics   *metrics.Processor
	Responder *responder.ResponseBuilder
}

// Router despacha eventos do API Gateway pelo método HTTP.
type Router struct {
	routes  map[string]route
	methods string
	timeout time.Duration
	logger  zerolog.Logger
	metrics *metrics.Processor
	resp    *responder.ResponseBuilder
}

// NewRouter registra os handlers habilitados por opts.Handler.
func NewRouter(h *handler.Handlers, opts RouterOptions) (*Router, error) {
	all := map[string]route{
		http.MethodPost:   {op: handler.OpCreate, fn: h.Create},
		http.MethodGet:    {op: handler.OpRead, fn: h.Read},
		http.MethodPut:    {op: handler.OpUpdate, fn: h.Update},
		http.MethodDelete: {op: handler.OpDelete, fn: h.Delete},
	}

	selected := opts.Handler
	if selected == "" {
		selected = HandlerAll
	}

	routes := make(map[string]route, len(all))
	for method, r := range all {
		if selected == HandlerAll || selected == r.op {
			routes[method] = r
		}
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("handler desconhecido: %q", selected)
	}

	resp := opts.Responder
	if resp == nil {
		resp = responder.NewResponseBuilder("")
	}
	proc := opts.Metrics
	if proc == nil {
		proc = metrics.NewProcessor(nil, nil)
	}

	methods := make([]string, 0, len(routes)+1)
	for method := range routes {
		methods = append(methods, method)
	}
	slices.Sort(methods)
	methods = append(methods, http.MethodOptions)

	return &Router{
		routes:  routes,
		methods: strings.Join(methods, ", "),
		timeout: opts.Timeout,
		logger:  opts.Logger,
		metrics: proc,
		resp:    resp,
	}, nil
}

// Handle processa a requisição Lambda. Erros viram respostas; o erro
// retornado é sempre nil para o API Gateway não trocar o corpo por 502.
func (rt *Router) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	start := time.Now()

	corrID := correlationID(req.Headers)
	logger := rt.logger.With().Str("correlation_id", corrID).Logger()
	ctx = logger.WithContext(ctx)

	if rt.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rt.timeout)
		defer cancel()
	}

	op := opUnrouted
	var response events.APIGatewayProxyResponse

	method := strings.ToUpper(req.HTTPMethod)
	r, ok := rt.routes[method]
	switch {
	case ok:
		op = r.op
		response = r.fn(ctx, req)
	case method == http.MethodOptions && rt.resp.CORSEnabled():
		response = rt.resp.Preflight(rt.methods)
	default:
		response = rt.resp.Message(http.StatusMethodNotAllowed, "method not allowed")
		if response.Headers == nil {
			response.Headers = make(map[string]string)
		}
		response.Headers["Allow"] = rt.methods
	}

	latency := time.Since(start)
	logger.Info().
		Str("method", req.HTTPMethod).
		Str("path", req.Path).
		Str("operation", op).
		Int("status", response.StatusCode).
		Int64("latency_ms", latency.Milliseconds()).
		Msg("request completed")

	if err := rt.metrics.ObserveRequest(op, response.StatusCode, latency); err != nil {
		logger.Warn().Err(err).Msg("falha ao registrar métricas")
	}

	// Injeta headers de observabilidade na resposta
	if response.Headers == nil {
		response.Headers = make(map[string]string)
	}
	response.Headers[HeaderCorrelationID] = corrID
	response.Headers[HeaderLatency] = strconv.FormatInt(latency.Milliseconds(), 10)

	return response, nil
}

// correlationID procura o header sem diferenciar maiúsculas, já que o API
// Gateway pode ou não normalizar os nomes.
func correlationID(headers map[string]string) string {
	for k, v := range headers {
		if v != "" && strings.EqualFold(k, HeaderCorrelationID) {
			return v
		}
	}
	return uuid.NewString()
}
