// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"fmt"
	"io"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tfctl/snapdiff/internal/aws"
	"github.com/tfctl/snapdiff/internal/cacheutil"
	"github.com/tfctl/snapdiff/internal/log"
	"github.com/tfctl/snapdiff/internal/record"
)

// S3API is the part of the S3 client used to fetch snapshots.
type S3API interface {
	HeadObject(ctx context.Context, in *s3v2.HeadObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
}

// S3Source reads a snapshot object. Bodies are cached on disk by ETag so an
// unchanged object is fetched once.
type S3Source struct {
	URI    string
	Bucket string
	Key    string
	// Client is built from the AWS options on first use when nil.
	Client S3API
	opts   Options
}

// NewS3Source parses uri as s3://bucket/key.
func NewS3Source(uri string, opts Options) (*S3Source, error) {
	bucket, key, err := aws.ParseS3URI(uri)
	if err != nil {
		return nil, &SourceUnavailableError{Source: uri, Err: err}
	}
	return &S3Source{URI: uri, Bucket: bucket, Key: key, opts: opts}, nil
}

func (s *S3Source) String() string { return s.URI }

// Read fetches and decodes the object.
func (s *S3Source) Read(ctx context.Context) ([]record.Record, error) {
	if s.Client == nil {
		cfg, err := aws.LoadAWSConfig(ctx, aws.WithProfile(s.opts.AWSProfile), aws.WithRegion(s.opts.AWSRegion))
		if err != nil {
			return nil, &SourceUnavailableError{Source: s.URI, Err: err}
		}
		s.Client = aws.NewS3(cfg, aws.WithS3BaseEndpoint(s.opts.S3Endpoint))
	}

	body, err := s.fetch(ctx)
	if err != nil {
		return nil, &SourceUnavailableError{Source: s.URI, Err: err}
	}
	return decode(s.Key, body, s.opts)
}

// fetch returns the object body, from the cache when the ETag matches.
func (s *S3Source) fetch(ctx context.Context) ([]byte, error) {
	head, err := s.Client.HeadObject(ctx, &s3v2.HeadObjectInput{
		Bucket: awsv2.String(s.Bucket),
		Key:    awsv2.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to head object: %w", err)
	}

	etag := awsv2.ToString(head.ETag)
	subdirs := []string{"s3", s.Bucket}
	cacheKey := s.URI + "@" + etag
	if etag != "" {
		if b, ok := cacheutil.Read(subdirs, cacheKey); ok {
			return b, nil
		}
	}

	out, err := s.Client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.Bucket),
		Key:    awsv2.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	log.Debugf("fetched %s: bytes=%d etag=%s", s.URI, len(b), etag)

	if etag != "" {
		if err := cacheutil.Write(subdirs, cacheKey, b); err != nil {
			log.WithError(err).Warn("failed to cache snapshot")
		}
	}
	return b, nil
}
