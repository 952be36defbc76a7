package audit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "none", SeverityNone.String())
	assert.Equal(t, "low", SeverityLow.String())
	assert.Equal(t, "medium", SeverityMedium.String())
	assert.Equal(t, "high", SeverityHigh.String())
	assert.Equal(t, "unknown", Severity(42).String())
}

func TestSeverityJSON(t *testing.T) {
	raw, err := json.Marshal(Report{NodePath: "/x", Severity: SeverityHigh})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"severity":"high"`)
}

func TestRaise(t *testing.T) {
	assert.Equal(t, SeverityHigh, raise(SeverityLow, SeverityHigh))
	assert.Equal(t, SeverityHigh, raise(SeverityHigh, SeverityLow))
	assert.Equal(t, SeverityNone, raise(SeverityNone, SeverityNone))
}
