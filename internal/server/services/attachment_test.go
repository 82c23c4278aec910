package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pontodigital/pontod/internal/common"
	sc "github.com/pontodigital/pontod/internal/server/config"
)

func testAttachmentConfig() *sc.Config {
	return &sc.Config{
		S3RootUser:     "admin",
		S3RootPassword: "secret",
		S3Bucket:       "anexos",
		S3Region:       "us-east-1",
		S3BaseEndpoint: "http://127.0.0.1:9000/",
	}
}

func TestNewStorageKey_Prefix(t *testing.T) {
	key := NewStorageKey()
	if !strings.HasPrefix(key, "anexos/") {
		t.Fatalf("key = %q, want anexos/ prefix", key)
	}
	if key == NewStorageKey() {
		t.Fatalf("keys must be unique")
	}
}

func TestPresignedPutURL_Success(t *testing.T) {
	origPut := presignPutObject
	t.Cleanup(func() { presignPutObject = origPut })

	var gotBucket string
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotBucket = *in.Bucket
		return &v4.PresignedHTTPRequest{URL: "http://signed/put"}, nil
	}

	s := NewAttachmentService(testAttachmentConfig())

	key, url, err := s.PresignedPutURL(context.Background())
	if err != nil {
		t.Fatalf("PresignedPutURL error: %v", err)
	}
	if key == "" || url != "http://signed/put" {
		t.Fatalf("got key=%q url=%q", key, url)
	}
	if gotBucket != "anexos" {
		t.Fatalf("bucket = %q, want anexos", gotBucket)
	}
}

func TestPresignedPutURL_SignerError(t *testing.T) {
	origPut := presignPutObject
	t.Cleanup(func() { presignPutObject = origPut })

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("signer down")
	}

	s := NewAttachmentService(testAttachmentConfig())

	if _, _, err := s.PresignedPutURL(context.Background()); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestPresignedGetURL_Success(t *testing.T) {
	origGet := presignGetObject
	t.Cleanup(func() { presignGetObject = origGet })

	var gotKey string
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotKey = *in.Key
		return &v4.PresignedHTTPRequest{URL: "http://signed/get"}, nil
	}

	s := NewAttachmentService(testAttachmentConfig())

	url, err := s.PresignedGetURL(context.Background(), "anexos/2024/5/1/abc")
	if err != nil {
		t.Fatalf("PresignedGetURL error: %v", err)
	}
	if url != "http://signed/get" {
		t.Fatalf("url = %q", url)
	}
	if gotKey != "anexos/2024/5/1/abc" {
		t.Fatalf("key = %q", gotKey)
	}
}

func TestPresignedGetURL_EmptyKey(t *testing.T) {
	s := NewAttachmentService(testAttachmentConfig())

	_, err := s.PresignedGetURL(context.Background(), "")
	if !common.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
