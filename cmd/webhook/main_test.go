/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/contribcheck/contribcheck/guidelines"
	"github.com/contribcheck/contribcheck/pipeline"
)

func testService() *service {
	return &service{
		cfg:   &config{WebhookSecret: "hunter2", CheckName: "contributing-guidelines"},
		cache: guidelines.NewCache(guidelines.DefaultTTL),
		seen:  make(map[string]string),
	}
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestHandleWebhook_RejectsBadSignature(t *testing.T) {
	svc := testService()
	body := []byte(`{"action":"opened"}`)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", "pull_request")
	req.Header.Set("X-Hub-Signature-256", sign("wrong secret", body))

	rec := httptest.NewRecorder()
	svc.handleWebhook(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandleWebhook_IgnoresOtherEvents(t *testing.T) {
	svc := testService()
	body := []byte(`{"zen":"Keep it logically awesome."}`)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", "ping")
	req.Header.Set("X-Hub-Signature-256", sign("hunter2", body))

	rec := httptest.NewRecorder()
	svc.handleWebhook(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHandleWebhook_IgnoresClosedAction(t *testing.T) {
	svc := testService()
	body := []byte(`{"action":"closed"}`)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", "pull_request")
	req.Header.Set("X-Hub-Signature-256", sign("hunter2", body))

	rec := httptest.NewRecorder()
	svc.handleWebhook(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func prEventBody(action string) []byte {
	return []byte(fmt.Sprintf(`{
		"action": %q,
		"pull_request": {"number": 7, "title": "t", "body": "b", "head": {"sha": "abc"}},
		"repository": {"name": "widgets", "owner": {"login": "acme"}}
	}`, action))
}

func deliver(svc *service, action string) *httptest.ResponseRecorder {
	body := prEventBody(action)
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", "pull_request")
	req.Header.Set("X-Hub-Signature-256", sign("hunter2", body))

	rec := httptest.NewRecorder()
	svc.handleWebhook(rec, req)
	return rec
}

func TestHandleWebhook_ClientSetupFailureLeavesStateUnclaimed(t *testing.T) {
	// No token client and no installation ID in the event, so client
	// setup fails for every delivery.
	svc := testService()

	rec := deliver(svc, "opened")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if len(svc.seen) != 0 {
		t.Fatalf("failed delivery must not claim the PR state, seen = %v", svc.seen)
	}

	// A redelivery retries instead of being skipped as already analyzed.
	rec = deliver(svc, "opened")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on redelivery, got %d", rec.Code)
	}
}

func TestHandleWebhook_ClosedPrunesIdempotencyEntry(t *testing.T) {
	svc := testService()
	if !svc.claim(pipeline.Request{Owner: "acme", Repo: "widgets", Number: 7, Title: "t", Body: "b", HeadSHA: "abc"}) {
		t.Fatal("setup claim should succeed")
	}

	rec := deliver(svc, "closed")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.seen) != 0 {
		t.Fatalf("closed PR must be pruned from the idempotency map, seen = %v", svc.seen)
	}
}

func TestClaim_DeduplicatesSameState(t *testing.T) {
	svc := testService()
	req := pipeline.Request{Owner: "acme", Repo: "widgets", Number: 7, Title: "t", Body: "b", HeadSHA: "abc"}

	if !svc.claim(req) {
		t.Fatal("first claim should succeed")
	}
	if svc.claim(req) {
		t.Fatal("second claim of the same state should be rejected")
	}

	// A new head SHA is a new state.
	req.HeadSHA = "def"
	if !svc.claim(req) {
		t.Fatal("claim with new SHA should succeed")
	}

	// Release allows a retry of the last claimed state.
	svc.release(req)
	if !svc.claim(req) {
		t.Fatal("claim after release should succeed")
	}
}

func TestComputeGeneration(t *testing.T) {
	gen1 := computeGeneration("abc123", "fix: title", "body text")
	gen2 := computeGeneration("abc123", "fix: title", "body text")
	if gen1 != gen2 {
		t.Errorf("same inputs should produce same generation: got %s and %s", gen1, gen2)
	}

	if gen1 == computeGeneration("def456", "fix: title", "body text") {
		t.Error("different SHA should produce different generation")
	}
	if gen1 == computeGeneration("abc123", "fix: other", "body text") {
		t.Error("different title should produce different generation")
	}
	if gen1 == computeGeneration("abc123", "fix: title", "other body") {
		t.Error("different body should produce different generation")
	}
	if len(gen1) != 64 {
		t.Errorf("generation should be 64 hex chars, got %d: %s", len(gen1), gen1)
	}
}
