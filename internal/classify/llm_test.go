package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel returns a canned reply or error.
type fakeModel struct {
	reply string
	err   error
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.reply}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func TestNewLLMGateRequiresModel(t *testing.T) {
	_, err := NewLLMGate(LLMConfig{})
	require.Error(t, err)
}

func TestLLMGateVerdicts(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		reply   string
		err     error
		capture bool
		wantErr bool
	}{
		{"yes", "YES", nil, true, false},
		{"yes with noise", "  yes, definitely", nil, true, false},
		{"no", "NO", nil, false, false},
		{"lowercase no", "no.", nil, false, false},
		{"unparseable", "maybe?", nil, false, true},
		{"transport error", "", errors.New("boom"), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := &LLMGate{model: &fakeModel{reply: tt.reply, err: tt.err}, timeout: DefaultGateTimeout}
			d, err := gate.ShouldCapture(ctx, "transcript text")
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnavailable)
				// Fail-open wrapper turns this into a negative decision.
				assert.False(t, FailOpen(ctx, gate, "transcript text").Capture)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.capture, d.Capture)
		})
	}
}
