package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const maxResponseBytes = 4 << 20

var errResponseTooLarge = errors.New("response body exceeds limit")

// postJSON sends payload to url and returns the decoded body once it passes
// schema. Every failure is returned as an *Error tagged with its kind.
func postJSON(ctx context.Context, client *http.Client, name, url string, payload any, schema *jsonschema.Schema) (any, error) {
	if url == "" {
		return nil, &Error{Provider: name, Kind: KindUnconfigured, Err: errors.New("endpoint url not configured")}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Provider: name, Kind: KindNetwork, Err: fmt.Errorf("encode request: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Provider: name, Kind: KindNetwork, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{Provider: name, Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &Error{Provider: name, Kind: KindHTTP, Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, &Error{Provider: name, Kind: KindNetwork, Status: resp.StatusCode, Err: err}
	}
	if len(raw) > maxResponseBytes {
		return nil, &Error{Provider: name, Kind: KindMalformed, Status: resp.StatusCode, Err: errResponseTooLarge}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, &Error{Provider: name, Kind: KindMalformed, Status: resp.StatusCode, Err: err}
	}
	if err := schema.Validate(doc); err != nil {
		return nil, &Error{Provider: name, Kind: KindMalformed, Status: resp.StatusCode, Err: err}
	}
	return doc, nil
}
