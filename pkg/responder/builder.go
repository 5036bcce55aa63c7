package responder

import (
	"encoding/json"
	"maps"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// Cabeçalhos fixos das respostas
const (
	HeaderContentType = "Content-Type"
	HeaderCORSOrigin  = "Access-Control-Allow-Origin"
	HeaderCORSMethods = "Access-Control-Allow-Methods"
	HeaderCORSHeaders = "Access-Control-Allow-Headers"
	ContentTypeJSON   = "application/json"
)

// Message é o corpo padrão {"message": "..."}.
type Message struct {
	Message string `json:"message"`
}

// ResponseBuilder monta o envelope de resposta do API Gateway.
type ResponseBuilder struct {
	headers map[string]string
}

// NewResponseBuilder cria o builder; com corsOrigin definido todas as
// respostas levam Access-Control-Allow-Origin.
func NewResponseBuilder(corsOrigin string) *ResponseBuilder {
	headers := map[string]string{HeaderContentType: ContentTypeJSON}
	if corsOrigin != "" {
		headers[HeaderCORSOrigin] = corsOrigin
	}
	return &ResponseBuilder{headers: headers}
}

// CORSEnabled indica se o preflight deve ser respondido.
func (rb *ResponseBuilder) CORSEnabled() bool {
	_, ok := rb.headers[HeaderCORSOrigin]
	return ok
}

// JSON serializa body com o status informado. Falha de serialização vira 500.
func (rb *ResponseBuilder) JSON(status int, body any) events.APIGatewayProxyResponse {
	bytes, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		bytes = []byte(`{"message":"internal server error"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    maps.Clone(rb.headers),
		Body:       string(bytes),
	}
}

// Message responde {"message": msg}.
func (rb *ResponseBuilder) Message(status int, msg string) events.APIGatewayProxyResponse {
	return rb.JSON(status, Message{Message: msg})
}

// Preflight responde um OPTIONS de CORS sem corpo.
func (rb *ResponseBuilder) Preflight(methods string) events.APIGatewayProxyResponse {
	headers := maps.Clone(rb.headers)
	headers[HeaderCORSMethods] = methods
	headers[HeaderCORSHeaders] = "Content-Type, X-Correlation-Id"
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusNoContent,
		Headers:    headers,
	}
}
