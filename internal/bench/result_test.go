package bench

import (
	"encoding/json"
	"testing"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0.123, 0.12},
		{0.125, 0.13},
		{10.0, 10.0},
		{0.004, 0.0},
	}
	for _, c := range cases {
		if got := Round2(c.in); got != c.want {
			t.Errorf("Round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSuiteAppend(t *testing.T) {
	suite := NewSuite("duckdb", "duckdb v1.3.2", 1.0)

	suite.Append(Result{Query: "q1", Status: StatusSuccess, TimeSeconds: float64Ptr(1.5)})
	suite.Append(Result{Query: "q2", Status: StatusTimeout, TimeSeconds: float64Ptr(10.0)})
	suite.Append(Result{Query: "q3", Status: StatusSuccess, TimeSeconds: float64Ptr(0.5)})

	if suite.TotalTime != 2.0 {
		t.Errorf("Expected total over successes only, got %v", suite.TotalTime)
	}
	if len(suite.Results) != 3 {
		t.Errorf("Expected 3 results, got %d", len(suite.Results))
	}
}

func TestResultJSONShape(t *testing.T) {
	r := Result{
		Query:       "q1",
		Engine:      "duckdb",
		TimeSeconds: float64Ptr(0.42),
		RowCount:    int64Ptr(100),
		Status:      StatusSuccess,
	}

	buf, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}

	var m map[string]any
	if err := json.Unmarshal(buf, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"query", "engine", "time_seconds", "row_count", "status", "error_message"} {
		if _, ok := m[key]; !ok {
			t.Errorf("Missing key %q in %s", key, buf)
		}
	}
	if m["error_message"] != nil {
		t.Errorf("Expected null error_message on success, got %v", m["error_message"])
	}
}
