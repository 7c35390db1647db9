// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

//go:build integration
// +build integration

package aws

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIntegration_SnapshotObject stores a snapshot object and reads it back
// the way the S3 record source does: HeadObject for the ETag, then
// GetObject. Set SNAPDIFF_S3_ENDPOINT to run against MinIO.
func TestIntegration_SnapshotObject(t *testing.T) {
	ctx := context.Background()

	cfg, err := LoadAWSConfig(ctx, WithRegion("us-east-1"))
	require.NoError(t, err)

	client := NewS3(cfg, WithS3BaseEndpoint(os.Getenv("SNAPDIFF_S3_ENDPOINT")))

	bucket := fmt.Sprintf("snapdiff-test-%d", time.Now().UnixNano())
	key := "snapshots/prev.csv"
	body := []byte("product_id,price\n1,100\n")

	_, err = client.CreateBucket(ctx, &s3v2.CreateBucketInput{Bucket: awsv2.String(bucket)})
	require.NoError(t, err)
	defer func() {
		client.DeleteObject(ctx, &s3v2.DeleteObjectInput{Bucket: awsv2.String(bucket), Key: awsv2.String(key)})
		client.DeleteBucket(ctx, &s3v2.DeleteBucketInput{Bucket: awsv2.String(bucket)})
	}()

	_, err = client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
		Body:   bytes.NewReader(body),
	})
	require.NoError(t, err)

	head, err := client.HeadObject(ctx, &s3v2.HeadObjectInput{Bucket: awsv2.String(bucket), Key: awsv2.String(key)})
	require.NoError(t, err)
	assert.NotEmpty(t, awsv2.ToString(head.ETag))

	got, err := client.GetObject(ctx, &s3v2.GetObjectInput{Bucket: awsv2.String(bucket), Key: awsv2.String(key)})
	require.NoError(t, err)
	defer got.Body.Close()

	b, err := io.ReadAll(got.Body)
	require.NoError(t, err)
	assert.Equal(t, body, b)
}
