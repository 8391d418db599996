package bench

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRunWorkerUnknownEngine(t *testing.T) {
	req := Request{Engine: "sedonadb", Query: "q1", TimeoutSeconds: 10}
	buf, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := RunWorker(bytes.NewReader(buf), &out); err != nil {
		t.Fatalf("RunWorker: %v", err)
	}

	var resp Response
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Result.Status != StatusError {
		t.Errorf("Expected error status, got %s", resp.Result.Status)
	}
	if resp.Result.ErrorMessage == nil || !strings.Contains(*resp.Result.ErrorMessage, "unknown engine") {
		t.Errorf("Expected unknown engine message, got %v", resp.Result.ErrorMessage)
	}
}

func TestRunWorkerSetupFailure(t *testing.T) {
	// The geoframe engine fails setup when the dataset paths are missing.
	req := Request{Engine: "geoframe", Query: "q1", TimeoutSeconds: 10}
	buf, _ := json.Marshal(req)

	var out bytes.Buffer
	if err := RunWorker(bytes.NewReader(buf), &out); err != nil {
		t.Fatalf("RunWorker: %v", err)
	}

	var resp Response
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Result.Status != StatusError {
		t.Errorf("Expected error status, got %s", resp.Result.Status)
	}
	if resp.Result.ErrorMessage == nil || !strings.Contains(*resp.Result.ErrorMessage, "setup") {
		t.Errorf("Expected setup error, got %v", resp.Result.ErrorMessage)
	}
}

func TestRunWorkerMalformedRequest(t *testing.T) {
	var out bytes.Buffer
	if err := RunWorker(strings.NewReader("not json"), &out); err == nil {
		t.Error("Expected decode error for malformed request")
	}
}
