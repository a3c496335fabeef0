package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderFactory_GetProvider(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		openai   string
		gemini   string
		model    string
		provider string
		wantName string
		wantErr  bool
	}{
		{name: "gpt model uses openai", openai: "k", model: "gpt-5-mini", wantName: "openai"},
		{name: "unknown model defaults to openai", openai: "k", model: "some-model", wantName: "openai"},
		{name: "gemini model uses gemini", gemini: "k", model: "gemini-2.5-flash", wantName: "gemini"},
		{name: "explicit provider wins", openai: "k", model: "gemini-2.5-flash", provider: "openai", wantName: "openai"},
		{name: "missing openai key", model: "gpt-5-mini", wantErr: true},
		{name: "missing gemini key", openai: "k", model: "gemini-2.5-pro", wantErr: true},
		{name: "unknown provider", openai: "k", provider: "anthropic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := NewProviderFactory(tt.openai, tt.gemini)
			p, err := factory.GetProvider(ctx, tt.model, tt.provider)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name())
		})
	}
}

func TestProviderForModel(t *testing.T) {
	assert.Equal(t, "gemini", ProviderForModel("Gemini-2.5-Flash"))
	assert.Equal(t, "openai", ProviderForModel("gpt-4.1-mini"))
	assert.Equal(t, "openai", ProviderForModel(""))
}

func TestUserMessage(t *testing.T) {
	msg := UserMessage("hello")
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "hello", msg["content"])
}
