package features

import (
	"context"
	"testing"

	"github.com/smallbiznis/pixomat/internal/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGeneratorEchoesInput(t *testing.T) {
	generator := NewMockGenerator()

	out, err := generator.Generate(context.Background(), "generate_summary", "hello world")
	require.NoError(t, err)
	assert.Equal(t, "This is a mock generated text for demonstration purposes. Text: hello world", out)

	out, err = generator.Generate(context.Background(), "essay_writer", "dogs")
	require.NoError(t, err)
	assert.Equal(t, "This is mocked essay writer for demonstration. \nInput text: dogs", out)
}

func TestMockGeneratorUnknownFeature(t *testing.T) {
	_, err := NewMockGenerator().Generate(context.Background(), "translate_text", "hi")
	assert.Error(t, err)
}

func TestTextHandlerProducesArtifactAndEcho(t *testing.T) {
	handler := textHandler(NewMockGenerator(), "rewrite_text")

	result, err := handler.Execute(context.Background(), dispatch.Request{Text: "some draft"})
	require.NoError(t, err)
	require.NotNil(t, result.Artifact)
	assert.Equal(t, "generated_text.txt", result.Artifact.Name)
	assert.Equal(t, "text/plain", result.Artifact.MIME)
	assert.Equal(t, result.Text, string(result.Artifact.Data))
	assert.Contains(t, result.Text, "some draft")
}

func TestTextHandlerRejectsEmptyText(t *testing.T) {
	handler := textHandler(NewMockGenerator(), "rewrite_text")

	_, err := handler.Execute(context.Background(), dispatch.Request{Text: "   "})
	assert.ErrorIs(t, err, dispatch.ErrInvalidInput)
}

func TestEveryTextFeatureHasAPrompt(t *testing.T) {
	for _, key := range []string{
		"generate_summary", "rewrite_text", "essay_writer",
		"paragraph_writer", "grammar_checker", "post_writer", "document_code",
	} {
		_, ok := textPrompts[key]
		assert.True(t, ok, key)
	}
}
