package httpclient

import (
	"fmt"
	"net/http"

	"github.com/fd1az/optrack/internal/apperror"
)

const maxErrorBody = 256

// ResponseErrorHandler turns a status and body into an error, or nil.
type ResponseErrorHandler func(statusCode int, body []byte) error

// StatusErrorHandler maps non-2xx responses to an app error with code. The
// context carries the status and the head of the body.
func StatusErrorHandler(code apperror.Code) ResponseErrorHandler {
	return func(statusCode int, body []byte) error {
		if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
			return nil
		}
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return apperror.New(code,
			apperror.WithContext(fmt.Sprintf("status %d: %s", statusCode, body)))
	}
}
