package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"

	"zoocore/internal/blob/core"
)

func TestStoreMockedBasicFlow(t *testing.T) {
	store := NewMockForTests()
	ctx := context.Background()
	if store.Driver() != core.DriverS3 || store.Bucket() != "mock-bucket" {
		t.Fatalf("unexpected driver/bucket %s %s", store.Driver(), store.Bucket())
	}
	info, err := store.Put(ctx, "datasets/zoo.json", bytes.NewReader([]byte(`{"a":1}`)), core.PutOptions{ContentType: "application/json"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "datasets/zoo.json" || info.ContentType != "application/json" || info.Size != 7 {
		t.Fatalf("unexpected info %#v", info)
	}
	if _, err := store.Put(ctx, "datasets/zoo.json", bytes.NewReader([]byte("ignored")), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	_, rc, err := store.Get(ctx, "datasets/zoo.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(data) != `{"a":1}` {
		t.Fatalf("get mismatch: %q", data)
	}
	if ok, err := store.Delete(ctx, "datasets/zoo.json"); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if ok, err := store.Delete(ctx, "datasets/zoo.json"); err != nil || ok {
		t.Fatalf("delete missing: %v %v", ok, err)
	}
}

func TestStoreNotFound(t *testing.T) {
	store := NewMockForTests()
	ctx := context.Background()
	if _, err := store.Head(ctx, "nope"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from head, got %v", err)
	}
	if _, _, err := store.Get(ctx, "nope"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from get, got %v", err)
	}
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return emptyResponse(http.StatusInternalServerError), nil
}

func TestStoreServerErrorsAreNotNotFound(t *testing.T) {
	store := newStoreWithTransport(failingTransport{})
	ctx := context.Background()
	if _, err := store.Head(ctx, "k"); err == nil || errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected non-notfound error, got %v", err)
	}
	if _, err := store.Put(ctx, "k", bytes.NewReader(nil), core.PutOptions{}); err == nil {
		t.Fatalf("expected put failure when head fails")
	}
	if _, err := store.Delete(ctx, "k"); err == nil {
		t.Fatalf("expected delete failure")
	}
}

func TestNewValidatesConfig(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error for missing bucket")
	}
	s, err := New(context.Background(), Config{Bucket: "bkt", Endpoint: "https://mock.s3.local", PathStyle: true, AccessKeyID: "AKIA", SecretAccessKey: "SECRET"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Bucket() != "bkt" {
		t.Fatalf("unexpected bucket %s", s.Bucket())
	}
}

func TestFromHeadNilBranches(t *testing.T) {
	info := fromHead("k", 10, nil, aws.String("\"etagval\""), map[string]string{"x": "y"}, nil)
	if info.ETag != "etagval" || info.ContentType != "" || info.Key != "k" || info.Size != 10 || info.LastModified.IsZero() {
		t.Fatalf("unexpected info: %+v", info)
	}
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := fromHead("k", 0, aws.String("text/plain"), nil, nil, &ts); !got.LastModified.Equal(ts) || got.ContentType != "text/plain" {
		t.Fatalf("unexpected info: %+v", got)
	}
}

func TestDecodeChunked(t *testing.T) {
	if got, ok := decodeChunked([]byte("5\r\nhello\r\n0\r\n\r\n")); !ok || string(got) != "hello" {
		t.Fatalf("decodeChunked: %q %v", got, ok)
	}
	if _, ok := decodeChunked([]byte("plain body")); ok {
		t.Fatalf("plain body must not decode")
	}
}
