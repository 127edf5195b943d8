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

package extract

import (
	"errors"
	"fmt"
)

// Error categories.  HTTP layers map these to response codes; everything
// else is reported as an internal error.
const (
	ErrParse             = "ParseError"
	ErrValidation        = "ValidationError"
	ErrNotFound          = "NotFound"
	ErrUnsupportedFormat = "UnsupportedFormat"
)

// Error is a categorized extraction error.
type Error struct {
	Name  string
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(name, context string, err error) error {
	if context != "" {
		err = fmt.Errorf("%s: %v", context, err)
	}
	return &Error{Name: name, cause: err}
}

func newParseError(context string, err error) error {
	return newError(ErrParse, context, err)
}

func newValidationError(context string, err error) error {
	return newError(ErrValidation, context, err)
}

// NewValidationError wraps err as a validation error.  It is exported for
// layers that sit on top of the extractor and participate in the same error
// taxonomy.
func NewValidationError(err error) error {
	return newError(ErrValidation, "", err)
}

func newNotFoundError(err error) error {
	return newError(ErrNotFound, "", err)
}

func newUnsupportedFormatError(err error) error {
	return newError(ErrUnsupportedFormat, "", err)
}

// ErrorName returns the category of err, or "" if err carries none.
func ErrorName(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Name
	}
	return ""
}
