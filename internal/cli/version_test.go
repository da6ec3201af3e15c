package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	version = "1.2.3"
	defer func() { version = originalVersion }()

	out := execute(t, "version")
	assert.Contains(t, out, "retrievalctl version 1.2.3")
}

func TestVersionCmd_DefaultsToDev(t *testing.T) {
	out := execute(t, "version")
	assert.Contains(t, out, "retrievalctl version dev")
}
