package middlewares

import "net/http"

// responseWriter captures the status code and number of bytes written.
type responseWriter struct {
	http.ResponseWriter
	statusCode    int
	responseBytes int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if rw.statusCode == 0 {
		rw.statusCode = statusCode
	}
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.responseBytes += n
	return n, err
}

// StatusCode returns the status sent to the client, 200 when the handler wrote nothing.
func (rw *responseWriter) StatusCode() int {
	if rw.statusCode == 0 {
		return http.StatusOK
	}

	return rw.statusCode
}

func (rw *responseWriter) wroteHeader() bool {
	return rw.statusCode != 0
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
