package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Event is the wire format the external evaluation sink accepts.
type Event struct {
	Stack   string `json:"stack"`
	Level   string `json:"level"`
	Package string `json:"package"`
	Message string `json:"message"`
}

// Relay forwards log events to the external evaluation sink over HTTP.
// A Relay with an empty base URL discards everything, which keeps tests
// and offline runs quiet.
type Relay struct {
	baseURL string
	token   string
	client  *http.Client
}

const relayTimeout = 5 * time.Second

func NewRelay(baseURL, token string) *Relay {
	return &Relay{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: relayTimeout},
	}
}

// Send posts one event to the sink and reports delivery failure to the
// caller. Used directly by the frontend log ingest endpoint.
func (r *Relay) Send(ctx context.Context, stack, level, pkg, message string) error {
	if r == nil || r.baseURL == "" {
		return nil
	}
	body, err := json.Marshal(Event{Stack: stack, Level: level, Package: pkg, Message: message})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/logs", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("log sink returned %d", resp.StatusCode)
	}
	return nil
}

// Post ships one event in the background. Delivery failures are dropped;
// the relay is a side channel and must never affect the request path.
func (r *Relay) Post(stack, level, pkg, message string) {
	if r == nil || r.baseURL == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), relayTimeout)
		defer cancel()
		_ = r.Send(ctx, stack, level, pkg, message)
	}()
}
