package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/yotome/rag-assistant/internal/adapter"
	"github.com/yotome/rag-assistant/internal/adapter/utils"
	"github.com/yotome/rag-assistant/internal/config"
)

func injectTrace(re requestResponseStruct) requestResponseStruct {
	req := re.req
	if req == nil {
		re.badRequest.httpCode = http.StatusBadRequest
		re.badRequest.errorMessage = "request is empty"
		re.badRequest.isBadRequest = true
		return re
	}
	trace := req.Header.Get("X-Trace-Id")
	if trace == "" {
		trace = utils.GetNewUUID()
	}
	re.logger = re.logger.With("traceId", trace)
	ctx := context.WithValue(req.Context(), config.TRACE_ID_KEY, trace)
	req.Header.Set(`X-Trace-Id`, trace)
	re.req = req.WithContext(ctx)
	return re
}

// corsHeaders lets the web frontend talk to us, and short-circuits
// preflight requests.
func corsHeaders(re requestResponseStruct) requestResponseStruct {
	w := re.writer
	w.Header().Set("Access-Control-Allow-Origin", config.FrontendURL)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Trace-Id")

	if re.req.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		re.badRequest.isBadRequest = true //handled, stop the chain
		re.badRequest.httpCode = http.StatusNoContent
		return re
	}
	return re
}

func rateLimiter(re requestResponseStruct) requestResponseStruct {
	ip, _, err := net.SplitHostPort(re.req.RemoteAddr)
	if err != nil {
		ip = re.req.RemoteAddr
	}

	if !limiterInstance.GetLimiter(ip).Allow() {
		re.logger.Error("Too many requests", "Rate Limiter exceeded", ip)
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusTooManyRequests,
			errorMessage: "Rate limit exceeded. Slow down bruh",
		}
		return re
	}
	return re
}

func handleBadRequest(re requestResponseStruct) {
	if re.badRequest.httpCode == http.StatusNoContent {
		return //preflight already answered
	}
	re.logger.Warn("Bad request", "httpCode", re.badRequest.httpCode, "errorMessage", re.badRequest.errorMessage, "IP", re.req.RemoteAddr)
	re.writer.Header().Set("Content-Type", "application/json")
	re.writer.WriteHeader(re.badRequest.httpCode)
	_ = json.NewEncoder(re.writer).Encode(adapter.ErrorBody(re.badRequest.httpCode, http.StatusText(re.badRequest.httpCode), re.badRequest.errorMessage))
}
