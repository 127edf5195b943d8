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

// Package api implements the HTTP sequence retrieval API.
//
// Sequences are addressed by the FASTA file they live in (the :id path
// segment, resolved inside the served directory) and a region string such
// as "chr1:100-200".
package api

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/genomicsio/faidx/extract"
	"github.com/genomicsio/faidx/internal/fai"
)

// Server answers sequence queries for the FASTA files below one directory.
// Each file is indexed on first touch and the extractor is cached for the
// lifetime of the server; indexes are immutable once built.
type Server struct {
	open func(id string) (*extract.Extractor, error)

	mu    sync.Mutex
	cache map[string]*extract.Extractor
}

// NewServer returns a Server serving the FASTA files in dir.
func NewServer(dir string, opts extract.Options) *Server {
	return NewServerWithOpener(func(id string) (*extract.Extractor, error) {
		return extract.Open(dir+"/"+id, opts)
	})
}

// NewServerWithOpener returns a Server that obtains extractors from open,
// allowing non-filesystem backends.
func NewServerWithOpener(open func(id string) (*extract.Extractor, error)) *Server {
	return &Server{open: open, cache: make(map[string]*extract.Extractor)}
}

// Register installs the API routes on router.
func (s *Server) Register(router *gin.Engine) {
	router.Use(RequestID())
	router.GET("/sequence/:id", s.serveSequence)
	router.GET("/fasta/:id", s.serveFasta)
	router.GET("/index/:id", s.serveIndex)
}

// RequestID stamps every response with an X-Request-Id header, minting a
// fresh one when the caller did not supply its own.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

func (s *Server) extractor(id string) (*extract.Extractor, error) {
	if id == "" || id == ".." || strings.ContainsAny(id, "/\\") {
		return nil, extract.NewValidationError(fmt.Errorf("invalid file ID %q", id))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.cache[id]; ok {
		return e, nil
	}
	e, err := s.open(id)
	if err != nil {
		return nil, err
	}
	s.cache[id] = e
	return e, nil
}

func (s *Server) serveSequence(c *gin.Context) {
	e, err := s.extractor(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	record, err := e.Extract(c.Request.Context(), regionFromQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// serveFasta streams one or more extractions as FASTA text.  Regions may be
// given as repeated region parameters or as a pattern over sequence names;
// skip=1 drops failing regions instead of aborting the response.
func (s *Server) serveFasta(c *gin.Context) {
	e, err := s.extractor(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	policy := extract.Propagate
	if c.Query("skip") == "1" {
		policy = extract.Skip
	}

	var stream *extract.Stream
	if pattern := c.Query("pattern"); pattern != "" {
		stream, err = e.ExtractByPattern(c.Request.Context(), pattern, extract.PatternOptions{
			CaseInsensitive: c.Query("i") == "1",
			OnError:         policy,
		})
		if err != nil {
			writeError(c, err)
			return
		}
	} else {
		regions := c.QueryArray("region")
		if len(regions) == 0 {
			writeError(c, extract.NewValidationError(fmt.Errorf("no region or pattern specified")))
			return
		}
		stream = e.ExtractMany(c.Request.Context(), regions, policy)
	}

	c.Header("Content-Type", "text/x-fasta")
	c.Status(http.StatusOK)
	for stream.Scan() {
		record := stream.Record()
		fmt.Fprintf(c.Writer, ">%s\n%s\n", record.ID, record.Sequence)
	}
	if err := stream.Err(); err != nil {
		// The status line is already gone, so the best we can do is cut
		// the body short and record the cause.
		c.Error(err)
		c.Abort()
	}
}

type indexRecord struct {
	Name      string `json:"name"`
	Length    int64  `json:"length"`
	Offset    int64  `json:"offset"`
	LineBases int64  `json:"linebases"`
	LineWidth int64  `json:"linewidth"`
}

func (s *Server) serveIndex(c *gin.Context) {
	e, err := s.extractor(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	records := e.Index().Records()
	out := make([]indexRecord, len(records))
	for i, r := range records {
		out[i] = toIndexRecord(r)
	}
	c.JSON(http.StatusOK, out)
}

func toIndexRecord(r fai.Record) indexRecord {
	return indexRecord{
		Name:      r.Name,
		Length:    r.Length,
		Offset:    r.Offset,
		LineBases: r.LineBases,
		LineWidth: r.LineWidth,
	}
}

// regionFromQuery accepts either a complete region string or the separate
// name/start/end parameters and returns the region to extract.
func regionFromQuery(c *gin.Context) string {
	if region := c.Query("region"); region != "" {
		return region
	}

	name := c.Query("name")
	start, end := c.Query("start"), c.Query("end")
	switch {
	case start != "" && end != "":
		return fmt.Sprintf("%s:%s-%s", name, start, end)
	case start != "":
		return fmt.Sprintf("%s:%s-", name, start)
	case end != "":
		return fmt.Sprintf("%s:-%s", name, end)
	}
	return name
}

// writeError maps an extraction error onto an HTTP response: a JSON object
// naming the error class and carrying a human-readable message.
func writeError(c *gin.Context, err error) {
	name := extract.ErrorName(err)
	code := http.StatusInternalServerError
	switch name {
	case extract.ErrValidation, extract.ErrParse, extract.ErrUnsupportedFormat:
		code = http.StatusBadRequest
	case extract.ErrNotFound:
		code = http.StatusNotFound
	default:
		name = "InternalError"
	}
	c.JSON(code, gin.H{
		"error":   name,
		"message": fmt.Sprintf("%s: %v", http.StatusText(code), err),
	})
}
