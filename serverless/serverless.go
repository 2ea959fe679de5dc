// Package serverless runs the HTTP router behind AWS Lambda API Gateway
// proxy events.
package serverless

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/use-agent/recipe-scraper/api/middleware"
	"github.com/use-agent/recipe-scraper/models"
)

// Handler serves API Gateway proxy events through a gin router. Every event
// gets a response: events the proxy cannot translate are answered with the
// JSON error envelope instead of a Lambda error.
type Handler struct {
	proxy *ginadapter.GinLambda
}

// NewHandler wraps router.
func NewHandler(router *gin.Engine) *Handler {
	return &Handler{proxy: ginadapter.New(router)}
}

// Handle has the signature lambda.Start expects.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if event.IsBase64Encoded {
		if _, err := base64.StdEncoding.DecodeString(event.Body); err != nil {
			slog.Warn("lambda event body is not valid base64", "path", event.Path, "error", err)
			return errorResponse(http.StatusBadRequest, models.NewScrapeError(
				models.ErrCodeInvalidInput, "Request body is not valid base64", err)), nil
		}
	}

	resp, err := h.proxy.ProxyWithContext(ctx, event)
	if err != nil {
		slog.Error("lambda proxy failed", "path", event.Path, "method", event.HTTPMethod, "error", err)
		return errorResponse(http.StatusInternalServerError, models.NewScrapeError(
			models.ErrCodeUnexpected, models.MsgUnexpected, err)), nil
	}
	return resp, nil
}

func errorResponse(status int, se *models.ScrapeError) events.APIGatewayProxyResponse {
	header := http.Header{}
	middleware.SetCORSHeaders(header)

	body, _ := json.Marshal(se.ToResponse())
	return events.APIGatewayProxyResponse{
		StatusCode:        status,
		MultiValueHeaders: header,
		Body:              string(body),
	}
}
