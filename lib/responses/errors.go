package responses

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error          bool   `json:"error"`
	Code           int    `json:"code"`
	Message        string `json:"message"`
	HttpStatusCode int    `json:"-"`
}

var GeneralServerError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var BadArgumentsError = ErrorResponse{
	Error:          true,
	Code:           8,
	Message:        "Bad arguments",
	HttpStatusCode: 400,
}

var NotFoundError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "not found",
	HttpStatusCode: 404,
}

var RateLimitedError = ErrorResponse{
	Error:          true,
	Code:           3,
	Message:        "too many requests",
	HttpStatusCode: 429,
}

var TooManyOutstandingError = ErrorResponse{
	Error:          true,
	Code:           3,
	Message:        "too many outstanding invoices. Pay or wait for them to expire first",
	HttpStatusCode: 429,
}

var InvalidTokenError = ErrorResponse{
	Error:          true,
	Code:           4,
	Message:        "invalid or expired token",
	HttpStatusCode: 403,
}

var TokenExpiredError = ErrorResponse{
	Error:          true,
	Code:           4,
	Message:        "token expired",
	HttpStatusCode: 403,
}

var GatewayError = ErrorResponse{
	Error:          true,
	Code:           5,
	Message:        "payment provider unavailable. Please try again later",
	HttpStatusCode: 500,
}

var StoreError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("RequestID", c.Response().Header().Get(echo.HeaderXRequestID))
			hub.CaptureException(err)
		})
	}
	code := http.StatusInternalServerError
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		c.JSON(code, he.Message)
	} else {
		c.JSON(http.StatusInternalServerError, GeneralServerError)
	}
}
