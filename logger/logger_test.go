// Copyright 2023 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardLogger_Verbosity(t *testing.T) {
	var buf bytes.Buffer
	l := NewStandardLogger(&buf)
	l.Debugf("hidden %d", 1)
	l.Infof("shown %d", 2)
	l.Errorf("boom")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO:  shown 2")
	assert.Contains(t, out, "ERROR: boom")

	buf.Reset()
	v := NewVerboseLogger(&buf)
	v.Debugf("visible")
	assert.Contains(t, buf.String(), "DEBUG: visible")
}

func TestStandardLogger_WithPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := NewStandardLogger(&buf).WithPrefix("pool: ")
	l.Warnf("frame %d", 4)

	line := strings.TrimSpace(buf.String())
	// timestamp, then prefix, then level.
	fields := strings.SplitN(line, " ", 2)
	require.Len(t, fields, 2)
	assert.Equal(t, "pool: WARN:  frame 4", fields[1])
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bufmgr.log")
	l := NewFileLogger(path, 1, false)
	l.Infof("opened %s", "pool")
	l.Debugf("not written")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "INFO:  opened pool")
	assert.NotContains(t, string(data), "not written")
}

func TestBufferLogger(t *testing.T) {
	b := NewBufferLogger()
	b.Infof("a")
	b.Errorf("b %d", 2)
	assert.Equal(t, "INFO:  a\nERROR: b 2\n", b.String())
}
