package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RandomVariable1470/suryaverify/internal/verify"
)

func TestResetResults(t *testing.T) {
	t.Parallel()

	session := verify.NewSession()
	session.AssignSampleID(0)
	session.Append(verify.Record{SampleID: 1, HasSolar: true})
	h := &apiHandler{env: &verifyEnv{Session: session}}

	rr := httptest.NewRecorder()
	h.resetResults(rr, httptest.NewRequest(http.MethodDelete, "/api/results", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	assert.Zero(t, session.Len())
	// Counters restart too.
	assert.Equal(t, 1, session.AssignSampleID(0))
}

func TestResults_EmptySession(t *testing.T) {
	t.Parallel()

	h := &apiHandler{env: &verifyEnv{Session: verify.NewSession()}}

	rr := httptest.NewRecorder()
	h.results(rr, httptest.NewRequest(http.MethodGet, "/api/results", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}
