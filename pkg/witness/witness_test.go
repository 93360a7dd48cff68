package witness

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/multiformats/go-multibase"
	"github.com/originals/cel/pkg/multikey"
	"github.com/stretchr/testify/require"
)

func TestWitnessSuccessStripsExtraFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req witnessRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Digest)
		require.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"type":               "DataIntegrityProof",
			"cryptosuite":        "eddsa-jcs-2022",
			"created":            "2026-01-20T12:00:00Z",
			"verificationMethod": "did:key:zFoo#zFoo",
			"proofPurpose":       "assertionMethod",
			"proofValue":         "zProofValue",
			"witnessedAt":        "2026-01-20T12:00:05Z",
			"unexpectedField":    "should be stripped",
		})
	}))
	defer srv.Close()

	c := &Client{}
	digest, err := multikey.NewDigestMultibase(make([]byte, 32), multibase.Base64url)
	require.NoError(t, err)

	wp, err := c.Witness(context.Background(), srv.URL, digest)
	require.NoError(t, err)
	require.Equal(t, "2026-01-20T12:00:05Z", wp.WitnessedAt)
	require.Equal(t, "eddsa-jcs-2022", wp.Cryptosuite)
}

func TestWitnessNon2xxReturnsHttpWitnessError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := &Client{}
	digest, err := multikey.NewDigestMultibase(make([]byte, 32), multibase.Base64url)
	require.NoError(t, err)

	_, err = c.Witness(context.Background(), srv.URL, digest)
	require.Error(t, err)
	var httpErr *HttpWitnessError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	require.Equal(t, "boom", httpErr.Body)
}

func TestWitnessMissingFieldReturnsHttpWitnessError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"type": "DataIntegrityProof",
		})
	}))
	defer srv.Close()

	c := &Client{}
	digest, err := multikey.NewDigestMultibase(make([]byte, 32), multibase.Base64url)
	require.NoError(t, err)

	_, err = c.Witness(context.Background(), srv.URL, digest)
	require.Error(t, err)
	var httpErr *HttpWitnessError
	require.ErrorAs(t, err, &httpErr)
	require.NotNil(t, httpErr.Cause)
}

func TestWitnessUnreachableURLReturnsHttpWitnessError(t *testing.T) {
	c := &Client{}
	digest, err := multikey.NewDigestMultibase(make([]byte, 32), multibase.Base64url)
	require.NoError(t, err)

	_, err = c.Witness(context.Background(), "http://127.0.0.1:1", digest)
	require.Error(t, err)
	var httpErr *HttpWitnessError
	require.ErrorAs(t, err, &httpErr)
	require.NotNil(t, httpErr.Cause)
}
