// Copyright 2023 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package bufferpool

import (
	"fmt"

	"github.com/molecula/bufmgr/errors"
	"github.com/molecula/bufmgr/pagefile"
)

const (
	// caller misuse
	ErrInvalidPageNumber errors.Code = "ErrInvalidPageNumber"
	ErrPageNotResident   errors.Code = "ErrPageNotResident"
	ErrInvalidRelease    errors.Code = "ErrInvalidRelease"

	// resource exhaustion
	ErrNoFreeFrame errors.Code = "ErrNoFreeFrame"

	// lifecycle
	ErrOpenFailed      errors.Code = "ErrOpenFailed"
	ErrPoolBusy        errors.Code = "ErrPoolBusy"
	ErrPoolClosed      errors.Code = "ErrPoolClosed"
	ErrInvalidPoolSize errors.Code = "ErrInvalidPoolSize"
	ErrUnknownStrategy errors.Code = "ErrUnknownStrategy"
)

// Storage failures are passed through from the page store unchanged.
const (
	ErrReadNonExistingPage = pagefile.ErrReadNonExistingPage
	ErrCannotSeek          = pagefile.ErrCannotSeek
	ErrReadFailed          = pagefile.ErrReadFailed
	ErrWriteFailed         = pagefile.ErrWriteFailed
)

func newErrInvalidPageNumber(id PageID) error {
	return errors.New(ErrInvalidPageNumber, fmt.Sprintf("invalid page number %d", id))
}

func newErrPageNotResident(id PageID) error {
	return errors.New(ErrPageNotResident, fmt.Sprintf("page %d is not in the buffer pool", id))
}

func newErrInvalidRelease(id PageID) error {
	return errors.New(ErrInvalidRelease, fmt.Sprintf("page %d is not pinned", id))
}

func newErrNoFreeFrame(numFrames int) error {
	return errors.New(ErrNoFreeFrame, fmt.Sprintf("all %d frames are pinned", numFrames))
}

func newErrOpenFailed(name string, err error) error {
	return errors.New(ErrOpenFailed, fmt.Sprintf("opening page file '%s': %v", name, err))
}

func newErrPoolBusy(pinned int) error {
	return errors.New(ErrPoolBusy, fmt.Sprintf("%d frames are still pinned", pinned))
}

func newErrPoolClosed(name string) error {
	return errors.New(ErrPoolClosed, fmt.Sprintf("buffer pool on '%s' is shut down", name))
}

func newErrInvalidPoolSize(n int) error {
	return errors.New(ErrInvalidPoolSize, fmt.Sprintf("invalid number of frames %d", n))
}

func newErrUnknownStrategy(s string) error {
	return errors.New(ErrUnknownStrategy, fmt.Sprintf("unknown replacement strategy '%s'", s))
}
