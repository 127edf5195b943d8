// Copyright 2019 the faidx authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package gcs provides positional range reads over objects in Google Cloud
// Storage, so FASTA files can be indexed and served straight out of a
// bucket.
package gcs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// StatusCode translates a storage error into the HTTP status a server
// should answer with.  Unrecognized errors map to 500.
func StatusCode(err error) int {
	if err == storage.ErrObjectNotExist {
		return http.StatusNotFound
	}
	if err, ok := err.(*googleapi.Error); ok {
		switch err.Code {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return err.Code
		}
	}
	return http.StatusInternalServerError
}

// Client wraps a GCS storage client.
type Client struct {
	*storage.Client
}

// Object returns a range-readable handle on an object in a bucket.
func (c Client) Object(bucket, object string) Object {
	return Object{c.Bucket(bucket).Object(object)}
}

// Object reads byte ranges from one GCS object.
type Object struct {
	*storage.ObjectHandle
}

// NewRangeReader returns a reader over [offset, offset+length) of the
// object.  Length of -1 means to read through the end of the object.
func (o Object) NewRangeReader(ctx context.Context, offset, length int64) (io.ReadCloser, error) {
	return o.ObjectHandle.NewRangeReader(ctx, offset, length)
}

// NewDefaultClient returns a client that uses the application default
// credentials.
func NewDefaultClient(ctx context.Context) (Client, error) {
	return newClient(ctx)
}

// NewPublicClient returns a client without any client authorization.  It can
// only read publicly-readable objects.
func NewPublicClient(ctx context.Context) (Client, error) {
	return newClient(ctx, option.WithHTTPClient(http.DefaultClient))
}

// NewClientFromBearerToken constructs a client from an "Authorization:
// Bearer ..." header value, allowing a server to read buckets on behalf of
// the caller.
func NewClientFromBearerToken(ctx context.Context, authorization string) (Client, error) {
	fields := strings.Split(authorization, " ")
	if len(fields) != 2 || fields[0] != "Bearer" {
		return Client{}, fmt.Errorf("missing or invalid bearer token")
	}

	token := oauth2.Token{
		TokenType:   fields[0],
		AccessToken: fields[1],
	}
	client, err := newClient(ctx, option.WithTokenSource(oauth2.StaticTokenSource(&token)))
	if err != nil {
		return Client{}, fmt.Errorf("creating client with token source: %v", err)
	}
	return client, nil
}

func newClient(ctx context.Context, opts ...option.ClientOption) (Client, error) {
	gcs, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return Client{}, fmt.Errorf("creating storage client: %v", err)
	}
	return Client{gcs}, nil
}
