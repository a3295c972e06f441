package response

import (
	"encoding/json"
	"net/http"
)

const contentTypeHeader = "Content-Type"

// JSONResponse writes the given data as a JSON response with the specified status code.
func JSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set(contentTypeHeader, "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// JSONErrorResponse writes an error message as a JSON response with the specified status code.
func JSONErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, map[string]string{"message": message})
}

// RawResponse writes body unchanged. The content type is only set when non-empty.
func RawResponse(w http.ResponseWriter, statusCode int, contentType string, body []byte) {
	if contentType != "" {
		w.Header().Set(contentTypeHeader, contentType)
	}
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}
