package customHttpClient

import (
	"net/http"
	"time"

	"github.com/yotome/rag-assistant/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var pooledClient = &http.Client{
	Transport: customTransport,
	Timeout:   2 * time.Minute,
}

// Pooled returns the shared connection-pooling client handed to provider SDKs
// so repeated embedding and completion calls reuse upstream connections.
func Pooled() *http.Client {
	return pooledClient
}
