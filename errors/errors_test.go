// Copyright 2023 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package errors_test

import (
	"fmt"
	"testing"

	"github.com/molecula/bufmgr/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	t.Run("Is", func(t *testing.T) {
		nff := newErrFrameNotFound(3)
		pnr := newErrPageNotResident(12)
		nffCustom := errors.New(errFrameNotFound, "custom frame message")

		tests := []struct {
			err    error
			target errors.Code
			exp    bool
		}{
			{
				err:    nff,
				target: errFrameNotFound,
				exp:    true,
			},
			{
				err:    nff,
				target: errPageNotResident,
				exp:    false,
			},
			{
				err:    errors.Wrap(pnr, "with message"),
				target: errPageNotResident,
				exp:    true,
			},
			{
				err:    errors.Wrapf(errors.WithMessage(pnr, "inner"), "outer %d", 1),
				target: errPageNotResident,
				exp:    true,
			},
			{
				err:    nffCustom,
				target: errFrameNotFound,
				exp:    true,
			},
			{
				err:    fmt.Errorf("plain"),
				target: errFrameNotFound,
				exp:    false,
			},
		}

		for i, test := range tests {
			t.Run(fmt.Sprintf("test-%d", i), func(t *testing.T) {
				got := errors.Is(test.err, test.target)
				assert.Equal(t, test.exp, got)
			})
		}
	})

	t.Run("CodeOf", func(t *testing.T) {
		code, ok := errors.CodeOf(errors.Wrap(newErrPageNotResident(1), "unpin"))
		assert.True(t, ok)
		assert.Equal(t, errPageNotResident, code)

		_, ok = errors.CodeOf(fmt.Errorf("plain"))
		assert.False(t, ok)
	})

	t.Run("MarshalJSON", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
			exp  string
		}{
			{
				name: "Coded",
				err:  newErrFrameNotFound(7),
				exp:  `{"code":"FrameNotFound","message":"frame not found: 7","wrapped":"frame not found: 7"}`,
			},
			{
				name: "Wrapped",
				err:  errors.Wrap(newErrFrameNotFound(7), "pin"),
				exp:  `{"code":"FrameNotFound","message":"frame not found: 7","wrapped":"pin: frame not found: 7"}`,
			},
			{
				name: "Plain",
				err:  errors.WithMessage(fmt.Errorf("plain"), "flush"),
				exp:  `{"code":"","message":"plain","wrapped":"flush: plain"}`,
			},
		}
		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				assert.Equal(t, test.exp, errors.MarshalJSON(test.err))
			})
		}
	})
}

// Test error codes.

const (
	errFrameNotFound   errors.Code = "FrameNotFound"
	errPageNotResident errors.Code = "PageNotResident"
)

func newErrFrameNotFound(frame int) error {
	return errors.New(
		errFrameNotFound,
		fmt.Sprintf("frame not found: %d", frame),
	)
}

func newErrPageNotResident(page int) error {
	return errors.New(
		errPageNotResident,
		fmt.Sprintf("page not resident: %d", page),
	)
}
