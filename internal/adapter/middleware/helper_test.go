package middleware

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"
)

func Test_buildKey(t *testing.T) {
	k := buildKey("POST", "/api/v1/loan-applications", strings.Repeat("b", 32), strings.Repeat("a", 32))
	want := "idemp:ax:post:/api/v1/loan-applications:" + strings.Repeat("b", 32) + ":" + strings.Repeat("a", 32)
	if k != want {
		t.Fatalf("buildKey = %q, want %q", k, want)
	}
}

func Test_validReqID(t *testing.T) {
	valid := []string{
		"3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88",
		strings.Repeat("a", 32),
	}
	for _, s := range valid {
		if !validReqID(s) {
			t.Fatalf("validReqID should accept %q", s)
		}
	}
	invalid := []string{
		"",
		"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8",
		"zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz",
		"3f9a6a1b-3d54-9fbe-8b3a-6b3e8d6b2c88",
	}
	for _, s := range invalid {
		if validReqID(s) {
			t.Fatalf("validReqID should reject %q", s)
		}
	}
}

func Test_parseAxRequestAt(t *testing.T) {
	sec := time.Now().UTC().Unix()
	if ts, err := parseAxRequestAt(strconv.FormatInt(sec, 10)); err != nil || !ts.Equal(time.Unix(sec, 0)) {
		t.Fatalf("epoch seconds: %v %v", ts, err)
	}
	ms := time.Now().UTC().UnixMilli()
	if ts, err := parseAxRequestAt(strconv.FormatInt(ms, 10)); err != nil || !ts.Equal(time.UnixMilli(ms)) {
		t.Fatalf("epoch millis: %v %v", ts, err)
	}
	ts, err := parseAxRequestAt("2025-09-05T10:00:00+02:00")
	if err != nil || !ts.Equal(time.Date(2025, 9, 5, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("rfc3339: %v %v", ts, err)
	}
	for _, raw := range []string{"", "not-a-time", "2025-09-05T10:00:00", "1736123456abc"} {
		if _, err := parseAxRequestAt(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func Test_saveFinal_Load_TTL(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	ctx := context.Background()
	key := buildKey("POST", "/x", testUser, testReqID)

	final := idempEntry{Code: 201, Body: []byte(`{"ok":true}`), RequestID: testReqID, CreatedAt: nowUTC()}
	if err := saveFinal(ctx, rdb, key, final, 5*time.Second); err != nil {
		t.Fatalf("saveFinal: %v", err)
	}
	if ttl := rdb.TTL(ctx, key).Val(); ttl <= 0 || ttl > 5*time.Second {
		t.Fatalf("ttl out of range: %v", ttl)
	}
	got, err := loadEntry(ctx, rdb, key)
	if err != nil || got.Code != 201 || string(got.Body) != `{"ok":true}` {
		t.Fatalf("loadEntry: %+v %v", got, err)
	}

	if err := release(ctx, rdb, key); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := loadEntry(ctx, rdb, key); err == nil {
		t.Fatalf("expected miss after release")
	}
}
