package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateUnmarshal(t *testing.T) {
	type payload struct {
		Donated Date  `json:"donated"`
		Expiry  *Date `json:"expiry"`
	}

	var got payload
	if err := json.Unmarshal([]byte(`{"donated":"2026-03-10"}`), &got); err != nil {
		t.Fatalf("unmarshal date: %v", err)
	}
	want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Donated.Equal(want) {
		t.Fatalf("expected %s got %s", want, got.Donated)
	}
	if got.Expiry.Ptr() != nil {
		t.Fatalf("missing date should stay nil")
	}

	got = payload{}
	if err := json.Unmarshal([]byte(`{"donated":"2026-03-10T08:30:00+02:00","expiry":"2026-04-21"}`), &got); err != nil {
		t.Fatalf("unmarshal timestamp: %v", err)
	}
	if !got.Donated.Equal(time.Date(2026, 3, 10, 6, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected timestamp %s", got.Donated)
	}
	if p := got.Expiry.Ptr(); p == nil || p.Day() != 21 {
		t.Fatalf("expected expiry to decode, got %v", p)
	}

	if err := json.Unmarshal([]byte(`{"donated":"10/03/2026"}`), &got); err == nil {
		t.Fatalf("expected error for unsupported layout")
	}
	if err := json.Unmarshal([]byte(`{"donated":20260310}`), &got); err == nil {
		t.Fatalf("expected error for non-string date")
	}
}

func TestDateMarshal(t *testing.T) {
	out, err := json.Marshal(Date{Time: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2026-01-02T03:04:05Z"` {
		t.Fatalf("unexpected output %s", out)
	}
}
