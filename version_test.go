package metaclean_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simonhull/metaclean"
)

func TestGetVersionInfo(t *testing.T) {
	info := metaclean.GetVersionInfo()
	assert.Equal(t, metaclean.Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	// Not injected in test builds.
	assert.Equal(t, "unknown", info.GitCommit)
	assert.Equal(t, "unknown", info.BuildTime)
}
