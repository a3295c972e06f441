package response

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONResponse(t *testing.T) {
	cases := map[string]struct {
		status   int
		data     any
		expected string
	}{
		"Struct": {http.StatusOK, struct{ Name string }{Name: "test"}, `{"Name":"test"}`},
		"String": {http.StatusOK, "test", `"test"`},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			JSONResponse(rr, tc.status, tc.data)
			checkResponse(t, rr, tc.status, "application/json", tc.expected+"\n")
		})
	}
}

func TestJSONErrorResponse(t *testing.T) {
	cases := map[string]struct {
		status   int
		message  string
		expected string
	}{
		"InternalServerError": {http.StatusInternalServerError, "get state: state store responded with status 500", `{"message":"get state: state store responded with status 500"}`},
		"BadRequest":          {http.StatusBadRequest, "invalid request body", `{"message":"invalid request body"}`},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			JSONErrorResponse(rr, tc.status, tc.message)
			checkResponse(t, rr, tc.status, "application/json", tc.expected+"\n")
		})
	}
}

func TestRawResponse(t *testing.T) {
	cases := map[string]struct {
		contentType string
		body        string
	}{
		"JSON":      {"application/json", `{"orderId":"abc"}`},
		"PlainText": {"text/plain; charset=utf-8", "order"},
		"Empty":     {"", ""},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			RawResponse(rr, http.StatusOK, tc.contentType, []byte(tc.body))
			checkResponse(t, rr, http.StatusOK, tc.contentType, tc.body)
		})
	}
}

func checkResponse(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus int, expectedContentType, expectedBody string) {
	result := rr.Result()
	defer result.Body.Close()

	body, _ := io.ReadAll(result.Body)

	if result.StatusCode != expectedStatus {
		t.Errorf("Expected response code %v. Got %v", expectedStatus, result.StatusCode)
	}
	if got := result.Header.Get("Content-Type"); got != expectedContentType {
		t.Errorf("Expected content type %q. Got %q", expectedContentType, got)
	}
	if string(body) != expectedBody {
		t.Errorf("Expected response %s. Got %s", expectedBody, string(body))
	}
}
