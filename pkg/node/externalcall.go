package node

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Skymel-Inc/SkymelADKPy/pkg/httpclient"
	"nhooyr.io/websocket"
)

// ExternalCallConfig configures an ExternalCallNode on top of the
// shared data-processing config.
type ExternalCallConfig struct {
	DataProcessingConfig

	EndpointURL             string
	APIKey                  string
	IsWebSocket             bool
	InputNameToBackendName  map[string]string // nodeInputNameToBackendInputNameMap
	BackendNameToOutputName map[string]string // backendOutputNameToNodeOutputNameMap
	PrivateAttributes       map[string]any    // nodePrivateAttributesAndValues
	RequestTimeout          time.Duration     // default 30s
	MaxRetries              int               // default 3
	InitialRetryDelay       time.Duration     // default 1s
	Headers                 map[string]string

	Client *httpclient.Client // pooled client from httpclient.Builder; nil uses http.DefaultClient. The endpoint URL itself is not SSRF-checked
}

// ExternalCallNode calls an HTTP or WebSocket backend as its
// processing step: map inputs -> merge private attributes -> call with
// retries -> map outputs -> format.
type ExternalCallNode struct {
	*DataProcessingNode

	endpointURL             string
	apiKey                  string
	isWebSocket             bool
	inputNameToBackendName  map[string]string
	backendNameToOutputName map[string]string
	privateAttributes       map[string]any
	requestTimeout          time.Duration
	maxRetries              int
	initialRetryDelay       time.Duration
	headers                 map[string]string
	client                  *httpclient.Client

	calls          int
	successes      int
	failures       int
	lastLatencyMS  float64
	lastStatus     int
	lastError      string
}

// NewExternalCallNode constructs an external-call node. Config.Process
// is ignored if supplied; the node always processes by calling the
// configured backend.
func NewExternalCallNode(cfg ExternalCallConfig) (*ExternalCallNode, error) {
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	retryDelay := cfg.InitialRetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}

	n := &ExternalCallNode{
		endpointURL:             cfg.EndpointURL,
		apiKey:                  cfg.APIKey,
		isWebSocket:             cfg.IsWebSocket,
		inputNameToBackendName:  cfg.InputNameToBackendName,
		backendNameToOutputName: cfg.BackendNameToOutputName,
		privateAttributes:       cfg.PrivateAttributes,
		requestTimeout:          requestTimeout,
		maxRetries:              maxRetries,
		initialRetryDelay:       retryDelay,
		headers:                 cfg.Headers,
		client:                  cfg.Client,
	}

	dpCfg := cfg.DataProcessingConfig
	dpCfg.Process = n.callBackend
	dp, err := NewDataProcessingNode(dpCfg)
	if err != nil {
		return nil, err
	}
	n.DataProcessingNode = dp
	return n, nil
}

// Statistics returns the node's call counters.
func (n *ExternalCallNode) Statistics() (calls, successes, failures int, lastLatencyMS float64, lastStatus int) {
	return n.calls, n.successes, n.failures, n.lastLatencyMS, n.lastStatus
}

// LastError returns the message from the most recent failed call, or
// the empty string if the last call (if any) succeeded.
func (n *ExternalCallNode) LastError() string { return n.lastError }

func (n *ExternalCallNode) validateEndpoint() error {
	if n.endpointURL == "" {
		return fmt.Errorf("%w: empty endpoint url", ErrConfigInvalid)
	}
	if strings.HasPrefix(n.endpointURL, "/") {
		return nil
	}
	if strings.HasPrefix(n.endpointURL, "http://") || strings.HasPrefix(n.endpointURL, "https://") ||
		strings.HasPrefix(n.endpointURL, "ws://") || strings.HasPrefix(n.endpointURL, "wss://") {
		return nil
	}
	return fmt.Errorf("%w: endpoint url %q is neither absolute nor path-rooted", ErrConfigInvalid, n.endpointURL)
}

func (n *ExternalCallNode) mapInputs(inputs map[string]any) map[string]any {
	if len(n.inputNameToBackendName) == 0 {
		return inputs
	}
	mapped := make(map[string]any, len(inputs))
	for k, v := range inputs {
		if backendName, ok := n.inputNameToBackendName[k]; ok {
			mapped[backendName] = v
		} else {
			mapped[k] = v
		}
	}
	return mapped
}

func (n *ExternalCallNode) mapOutputs(outputs map[string]any) map[string]any {
	if len(n.backendNameToOutputName) == 0 {
		return outputs
	}
	mapped := make(map[string]any, len(outputs))
	for k, v := range outputs {
		if outName, ok := n.backendNameToOutputName[k]; ok {
			mapped[outName] = v
		} else {
			mapped[k] = v
		}
	}
	return mapped
}

func (n *ExternalCallNode) buildPayload(backendInputs map[string]any) map[string]any {
	payload := make(map[string]any, len(backendInputs)+len(n.privateAttributes))
	for k, v := range backendInputs {
		payload[k] = v
	}
	for k, v := range n.privateAttributes {
		payload[k] = v // private attributes win on conflict
	}
	return payload
}

// callBackend is the node's ProcessFunc: it performs the 8-step
// external-call sequence and returns the mapped, un-formatted output.
func (n *ExternalCallNode) callBackend(ctx context.Context, inputs map[string]any) (any, error) {
	if err := n.validateEndpoint(); err != nil {
		n.lastError = err.Error()
		return nil, err
	}

	n.calls++

	backendInputs := n.mapInputs(inputs)
	payload := n.buildPayload(backendInputs)

	start := time.Now()
	raw, status, err := n.callWithRetries(ctx, payload)
	n.lastLatencyMS = float64(time.Since(start).Microseconds()) / 1000.0
	n.lastStatus = status

	if err != nil {
		n.lastError = err.Error()
		return nil, err
	}

	n.successes++
	n.lastError = ""
	return n.mapOutputs(raw), nil
}

func (n *ExternalCallNode) callWithRetries(ctx context.Context, payload map[string]any) (map[string]any, int, error) {
	var lastErr error
	var lastStatus int

	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, n.requestTimeout)
		var result map[string]any
		var status int
		var err error
		if n.isWebSocket {
			result, err = n.callWebSocket(callCtx, payload)
		} else {
			result, status, err = n.callHTTP(callCtx, payload)
		}
		cancel()

		if err == nil {
			return result, status, nil
		}
		n.failures++
		lastErr = err
		lastStatus = status

		if attempt < n.maxRetries {
			delay := n.initialRetryDelay * time.Duration(1<<uint(attempt))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, lastStatus, ctx.Err()
			}
		}
	}
	return nil, lastStatus, lastErr
}

func (n *ExternalCallNode) callHTTP(ctx context.Context, payload map[string]any) (map[string]any, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: encoding request payload: %v", ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: building request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+n.apiKey)
	}
	for k, v := range n.headers {
		req.Header.Set(k, v)
	}

	httpClient := http.DefaultClient
	if n.client != nil {
		httpClient = n.client.GetHTTPClient()
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, 0, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: reading response body: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, fmt.Errorf("%w: backend returned status %d", ErrStatus, resp.StatusCode)
	}

	var decoded map[string]any
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return decoded, resp.StatusCode, nil
}

func (n *ExternalCallNode) callWebSocket(ctx context.Context, payload map[string]any) (map[string]any, error) {
	url := toWebSocketURL(n.endpointURL)

	header := http.Header{}
	if n.apiKey != "" {
		header.Set("Authorization", "Bearer "+n.apiKey)
	}
	for k, v := range n.headers {
		header.Set(k, v)
	}

	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		return nil, fmt.Errorf("%w: dialing websocket: %v", ErrTransport, err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding websocket payload: %v", ErrTransport, err)
	}
	if err := conn.Write(ctx, websocket.MessageText, body); err != nil {
		return nil, fmt.Errorf("%w: writing websocket message: %v", ErrTransport, err)
	}

	_, msg, err := conn.Read(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: reading websocket message: %v", ErrTransport, err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(msg, &decoded); err != nil {
		// Non-JSON responses still count as a successful call: fall back
		// to wrapping the raw text rather than failing the node.
		return map[string]any{"response": string(msg)}, nil
	}
	return decoded, nil
}

func toWebSocketURL(endpoint string) string {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return "wss://" + strings.TrimPrefix(endpoint, "https://")
	case strings.HasPrefix(endpoint, "http://"):
		return "ws://" + strings.TrimPrefix(endpoint, "http://")
	default:
		return endpoint
	}
}
