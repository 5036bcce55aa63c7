// Package handler turns API Gateway proxy requests into bookmark operations
// and their results back into response envelopes.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/raywall/bookmark-service/bookmark"
	"github.com/raywall/bookmark-service/pkg/responder"
	"github.com/rs/zerolog"
)

// Operation names, also used as metric and log tags.
const (
	OpCreate = "create"
	OpRead   = "read"
	OpUpdate = "update"
	OpDelete = "delete"
)

const msgSuccess = "success"

// Func is the shape shared by the four handlers.
type Func func(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse

// Handlers exposes Create, Read, Update and Delete over one Service.
type Handlers struct {
	svc  *bookmark.Service
	resp *responder.ResponseBuilder
}

func New(svc *bookmark.Service, resp *responder.ResponseBuilder) *Handlers {
	return &Handlers{svc: svc, resp: resp}
}

// CreateResponse is the POST success body. message stays "success"; the id
// of the new bookmark is returned alongside it.
type CreateResponse struct {
	Message    string `json:"message"`
	BookmarkID string `json:"bookmark_id"`
}

// Create handles POST with body {user_id, bookmark_url, title}.
func (h *Handlers) Create(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	var in bookmark.CreateRequest
	if err := decodeBody(req, &in); err != nil {
		return h.fail(ctx, OpCreate, err)
	}
	logRequest(ctx, OpCreate, req, in)

	id, err := h.svc.Create(ctx, in)
	if err != nil {
		return h.fail(ctx, OpCreate, err)
	}

	zerolog.Ctx(ctx).Debug().Str("user_id", in.UserID).Str("bookmark_id", id).Msg("bookmark created")
	return h.resp.JSON(http.StatusOK, CreateResponse{Message: msgSuccess, BookmarkID: id})
}

// Read handles GET ?user_id=... and returns the user's bookmarks as a JSON
// array ordered by bookmark_id.
func (h *Handlers) Read(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	in := bookmark.ListRequest{UserID: queryParam(req, bookmark.AttrUserID)}
	logRequest(ctx, OpRead, req, in)

	items, err := h.svc.List(ctx, in)
	if err != nil {
		return h.fail(ctx, OpRead, err)
	}

	zerolog.Ctx(ctx).Debug().Str("user_id", in.UserID).Int("count", len(items)).Msg("bookmarks listed")
	return h.resp.JSON(http.StatusOK, items)
}

// Update handles PUT with body {user_id, bookmark_id, bookmark_url, title}.
func (h *Handlers) Update(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	var in bookmark.UpdateRequest
	if err := decodeBody(req, &in); err != nil {
		return h.fail(ctx, OpUpdate, err)
	}
	logRequest(ctx, OpUpdate, req, in)
	if err := h.svc.Update(ctx, in); err != nil {
		return h.fail(ctx, OpUpdate, err)
	}
	return h.resp.Message(http.StatusOK, msgSuccess)
}

// Delete handles DELETE with body {user_id, bookmark_id}.
func (h *Handlers) Delete(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	var in bookmark.DeleteRequest
	if err := decodeBody(req, &in); err != nil {
		return h.fail(ctx, OpDelete, err)
	}
	logRequest(ctx, OpDelete, req, in)
	if err := h.svc.Delete(ctx, in); err != nil {
		return h.fail(ctx, OpDelete, err)
	}
	return h.resp.Message(http.StatusOK, msgSuccess)
}

// fail maps bad input to 400 and everything else to 500. Internal causes are
// logged and never sent to the client.
func (h *Handlers) fail(ctx context.Context, op string, err error) events.APIGatewayProxyResponse {
	log := zerolog.Ctx(ctx)
	if errors.Is(err, bookmark.ErrBadRequest) {
		log.Info().Str("operation", op).Err(err).Msg("rejected request")
		return h.resp.Message(http.StatusBadRequest, err.Error())
	}
	log.Error().Str("operation", op).Err(err).Msg("request failed")
	return h.resp.Message(http.StatusInternalServerError, "internal server error")
}

// logRequest records the inbound event at debug level.
func logRequest(ctx context.Context, op string, req events.APIGatewayProxyRequest, in any) {
	zerolog.Ctx(ctx).Debug().
		Str("operation", op).
		Str("method", req.HTTPMethod).
		Str("path", req.Path).
		Interface("request", in).
		Msg("request received")
}

func decodeBody(req events.APIGatewayProxyRequest, dst any) error {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return fmt.Errorf("%w: body is not valid base64", bookmark.ErrBadRequest)
		}
		body = decoded
	}
	if len(body) == 0 {
		return fmt.Errorf("%w: request body is required", bookmark.ErrBadRequest)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body", bookmark.ErrBadRequest)
	}
	return nil
}

func queryParam(req events.APIGatewayProxyRequest, name string) string {
	if v := req.QueryStringParameters[name]; v != "" {
		return v
	}
	if vs := req.MultiValueQueryStringParameters[name]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}
