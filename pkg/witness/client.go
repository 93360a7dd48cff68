// Package witness implements the client side of the witness protocol: a
// third-party co-signature on a digest, timestamped at the moment it was
// witnessed. The network service implementing the endpoint itself is out of
// scope — only its client contract is.
package witness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/originals/cel/pkg/multikey"
	"github.com/originals/cel/pkg/signing"
)

// DefaultTimeout is used when Client.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Client witnesses digests against a single witness service.
type Client struct {
	// HTTPClient is used to perform the request; if nil, a client with
	// Timeout applied is constructed per call.
	HTTPClient *http.Client
	// Timeout bounds the request when HTTPClient is nil. Defaults to
	// DefaultTimeout.
	Timeout time.Duration
	// Headers are set on every outgoing request in addition to
	// Content-Type and Accept.
	Headers map[string]string
}

type witnessRequest struct {
	Digest string `json:"digest"`
}

// requiredFields names the WitnessProof fields the response body must
// carry as non-empty strings; anything beyond these is stripped.
var requiredFields = []string{"type", "cryptosuite", "created", "verificationMethod", "proofPurpose", "proofValue", "witnessedAt"}

// Witness POSTs {"digest": digestMultibase} to witnessURL and returns the
// WitnessProof the service signs back. Extra response fields are
// discarded; a missing required field or non-2xx status yields
// *HttpWitnessError.
func (c *Client) Witness(ctx context.Context, witnessURL string, digest multikey.DigestMultibase) (*signing.WitnessProof, error) {
	body, err := json.Marshal(witnessRequest{Digest: digest.String()})
	if err != nil {
		return nil, fmt.Errorf("witness: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, witnessURL, bytes.NewReader(body))
	if err != nil {
		return nil, &HttpWitnessError{URL: witnessURL, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &HttpWitnessError{URL: witnessURL, Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &HttpWitnessError{URL: witnessURL, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HttpWitnessError{URL: witnessURL, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, &HttpWitnessError{URL: witnessURL, Cause: fmt.Errorf("decode response: %w", err)}
	}

	fields := make(map[string]string, len(requiredFields))
	for _, name := range requiredFields {
		v, ok := raw[name]
		if !ok {
			return nil, &HttpWitnessError{URL: witnessURL, Cause: fmt.Errorf("response missing required field %q", name)}
		}
		s, ok := v.(string)
		if !ok || s == "" {
			return nil, &HttpWitnessError{URL: witnessURL, Cause: fmt.Errorf("field %q must be a non-empty string", name)}
		}
		fields[name] = s
	}
	if _, err := time.Parse(time.RFC3339, fields["witnessedAt"]); err != nil {
		return nil, &HttpWitnessError{URL: witnessURL, Cause: fmt.Errorf("witnessedAt is not RFC3339: %w", err)}
	}

	return &signing.WitnessProof{
		DataIntegrityProof: signing.DataIntegrityProof{
			Type:               fields["type"],
			Cryptosuite:        fields["cryptosuite"],
			Created:            fields["created"],
			VerificationMethod: fields["verificationMethod"],
			ProofPurpose:       fields["proofPurpose"],
			ProofValue:         fields["proofValue"],
		},
		WitnessedAt: fields["witnessedAt"],
	}, nil
}
