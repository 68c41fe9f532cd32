// Copyright 2023 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package cfg

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DefineFlags(t *testing.T) {
	c := NewDefaultConfig()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.DefineFlags(flags)

	require.NoError(t, flags.Parse([]string{"--page-file", "data.bin", "--frames", "8", "--strategy", "lru", "-v"}))
	assert.Equal(t, "data.bin", c.PageFile)
	assert.Equal(t, 8, c.NumFrames)
	assert.Equal(t, "lru", c.Strategy)
	assert.True(t, c.Verbose)
	assert.Equal(t, DefaultLogMaxSize, c.LogMaxSize)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(c *Config)
		ok   bool
	}{
		{"OK", func(c *Config) { c.PageFile = "x" }, true},
		{"NoPageFile", func(c *Config) {}, false},
		{"ZeroFrames", func(c *Config) { c.PageFile = "x"; c.NumFrames = 0 }, false},
		{"BadLogSize", func(c *Config) { c.PageFile = "x"; c.LogPath = "l"; c.LogMaxSize = 0 }, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := NewDefaultConfig()
			test.mod(c)
			err := c.Validate()
			if test.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
