package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
)

// HTTPTriggerRequest is the JSON envelope the Functions host posts for an
// HTTP trigger when request forwarding is disabled.
type HTTPTriggerRequest struct {
	Data struct {
		Req struct {
			URL             string              `json:"Url"`
			Method          string              `json:"Method"`
			Query           map[string]string   `json:"Query"`
			Headers         map[string][]string `json:"Headers"`
			Params          map[string]string   `json:"Params"`
			Body            string              `json:"Body"`
			IsBase64Encoded bool                `json:"isBase64Encoded"`
		} `json:"req"`
	} `json:"Data"`
	Metadata map[string]any `json:"Metadata"`
}

// HTTPTriggerResponse is the JSON envelope returned to the host.
type HTTPTriggerResponse struct {
	Outputs struct {
		Res struct {
			StatusCode int               `json:"statusCode"`
			Headers    map[string]string `json:"headers"`
			Body       string            `json:"body"`
		} `json:"res"`
	} `json:"Outputs"`
	Logs        []string `json:"Logs,omitempty"`
	ReturnValue any      `json:"ReturnValue,omitempty"`
}

// decodeTriggerBody returns the request body carried in the envelope.
// Uploads arrive base64 encoded, but some hosts omit the flag.
func decodeTriggerBody(body string, base64Encoded bool) []byte {
	if body == "" {
		return nil
	}
	decoded, err := base64.StdEncoding.DecodeString(body)
	if err == nil {
		return decoded
	}
	if base64Encoded {
		slog.Warn("body flagged as base64 but failed to decode", "error", err)
	}
	return []byte(body)
}

// HandleHttpTrigger unwraps a host envelope into a plain request, serves it
// with next and wraps the recorded response.
func (d *Dependencies) HandleHttpTrigger(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var invokeReq HTTPTriggerRequest
		if err := json.NewDecoder(r.Body).Decode(&invokeReq); err != nil {
			slog.Error("failed to unmarshal HTTP trigger request", "error", err)
			http.Error(w, "Failed to unmarshal request", http.StatusBadRequest)
			return
		}

		reqData := invokeReq.Data.Req
		var bodyReader io.Reader = http.NoBody
		if body := decodeTriggerBody(reqData.Body, reqData.IsBase64Encoded); body != nil {
			bodyReader = bytes.NewReader(body)
		}

		inner, err := http.NewRequestWithContext(r.Context(), reqData.Method, reqData.URL, bodyReader)
		if err != nil {
			slog.Error("failed to create internal request", "error", err)
			http.Error(w, "Failed to create internal request", http.StatusInternalServerError)
			return
		}
		for k, vs := range reqData.Headers {
			for _, v := range vs {
				inner.Header.Add(k, v)
			}
		}
		slog.Info("serving wrapped HTTP request", "method", inner.Method, "path", inner.URL.Path)

		recorder := httptest.NewRecorder()
		next.ServeHTTP(recorder, inner)

		res := recorder.Result()
		resBody, _ := io.ReadAll(res.Body)
		res.Body.Close()

		headers := make(map[string]string, len(res.Header))
		for k, v := range res.Header {
			headers[k] = v[0]
		}

		var out HTTPTriggerResponse
		out.Outputs.Res.StatusCode = res.StatusCode
		out.Outputs.Res.Headers = headers
		out.Outputs.Res.Body = string(resBody)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			slog.Error("failed to encode HTTP trigger response", "error", err)
		}
	}
}
