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

// This binary serves region extractions from FASTA files over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/genomicsio/faidx/api"
	"github.com/genomicsio/faidx/extract"
	"github.com/genomicsio/faidx/internal/fai"
	"github.com/genomicsio/faidx/sources/gcs"
)

var (
	port = flag.Int("port", 8080, "HTTP service port")

	directory = flag.String("directory", "", "directory containing FASTA files")
	bucket    = flag.String("bucket", "", "GCS bucket containing FASTA files (used when -directory is unset)")

	fullHeader  = flag.Bool("full_header", false, "key sequences by the full FASTA header line")
	updateIndex = flag.Bool("update_index", false, "rebuild indexes even when .fai files exist")

	secure    = flag.Bool("secure", false, "serve in HTTPS-only mode")
	httpsCert = flag.String("https_cert", "", "HTTPS certificate file")
	httpsKey  = flag.String("https_key", "", "HTTPS key file")
)

func main() {
	flag.Parse()

	if *secure && (*httpsCert == "" || *httpsKey == "") {
		log.Fatalf("You must specify both -https_cert and -https_key in secure mode.")
	}

	opts := extract.Options{FullHeader: *fullHeader, UpdateIndex: *updateIndex}

	var server *api.Server
	switch {
	case *directory != "":
		server = api.NewServer(*directory, opts)
	case *bucket != "":
		client, err := gcs.NewDefaultClient(context.Background())
		if err != nil {
			log.Fatalf("Failed to create storage client: %v", err)
		}
		server = api.NewServerWithOpener(bucketOpener(client, *bucket, opts))
	default:
		log.Fatalf("You must specify either -directory or -bucket.")
	}

	router := gin.Default()
	server.Register(router)

	address := fmt.Sprintf(":%d", *port)
	if *secure {
		if err := http.ListenAndServeTLS(address, *httpsCert, *httpsKey, router); err != nil {
			log.Fatalf("HTTPS server returned an error: %v", err)
		}
	} else {
		if err := router.Run(address); err != nil {
			log.Fatalf("HTTP server returned an error: %v", err)
		}
	}
}

// bucketOpener builds extractors for objects in a GCS bucket.  A
// <object>.fai index object is used when present; otherwise the FASTA
// object is scanned and the index written back to the bucket so later
// startups skip the scan.
func bucketOpener(client gcs.Client, bucket string, opts extract.Options) func(string) (*extract.Extractor, error) {
	return func(id string) (*extract.Extractor, error) {
		ctx := context.Background()
		object := client.Object(bucket, id)

		if !opts.UpdateIndex {
			if index, err := readBucketIndex(ctx, client, bucket, id); err == nil {
				return extract.NewExtractor(index, object), nil
			}
		}

		data, err := object.NewRangeReader(ctx, 0, -1)
		if err != nil {
			return nil, fmt.Errorf("opening gs://%s/%s: %v", bucket, id, err)
		}
		defer data.Close()

		index, err := fai.Scan(data, opts.FullHeader)
		if err != nil {
			return nil, fmt.Errorf("indexing gs://%s/%s: %v", bucket, id, err)
		}

		if err := writeBucketIndex(ctx, client, bucket, id, index); err != nil {
			log.Printf("Failed to store index for gs://%s/%s: %v", bucket, id, err)
		}
		return extract.NewExtractor(index, object), nil
	}
}

func readBucketIndex(ctx context.Context, client gcs.Client, bucket, id string) (*fai.Index, error) {
	r, err := client.Object(bucket, id+".fai").NewRangeReader(ctx, 0, -1)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return fai.Read(r)
}

func writeBucketIndex(ctx context.Context, client gcs.Client, bucket, id string, index *fai.Index) error {
	w := client.Bucket(bucket).Object(id + ".fai").NewWriter(ctx)
	if _, err := index.WriteTo(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
