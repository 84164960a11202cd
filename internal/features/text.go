package features

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/smallbiznis/pixomat/internal/dispatch"
	"go.uber.org/zap"
)

// Generator produces text for one feature from the caller's input.
type Generator interface {
	Generate(ctx context.Context, featureKey, text string) (string, error)
}

type promptSpec struct {
	system    string
	user      string // format string taking the input text
	maxTokens int
	mock      string // format string taking the input text
}

var textPrompts = map[string]promptSpec{
	"generate_summary": {
		system: "You will be provided with a file. " +
			"If it is an image, then you need to describe what is in this image. If there is text on the image, then you need to process it as well. " +
			"If it's a document, you need to tell what the document is about, including specifics, if any. " +
			"For response use language as in file, if it document. In other cases use english.",
		user:      "Give a short summary of file using provided instructions. Limit your response to 50 words. Process this text: %s",
		maxTokens: 100,
		mock:      "This is a mock generated text for demonstration purposes. Text: %s",
	},
	"rewrite_text": {
		system: "You will be provided with a text. " +
			"You should rewrite this text so that it is clearer and easier to read.",
		user: "This is text to be rewriten: %s",
		mock: "This is mocked rewritten text for demonstration. \nInput text: %s",
	},
	"essay_writer": {
		system: "You are a writer. " +
			"You should write a medium sized essay on given topic",
		user: "This is topic for the essay: %s",
		mock: "This is mocked essay writer for demonstration. \nInput text: %s",
	},
	"paragraph_writer": {
		system: "You are a writer. " +
			"You should write a short paragraph on given topic. Limit your response to 100 words.",
		user: "This is topic for the paragraph: %s",
		mock: "This is mocked paragraph writer for demonstration. \nInput text: %s",
	},
	"grammar_checker": {
		system: "You are a teacher. There are instructions what you need to do: " +
			"You should to check grammar of givent text. Rewrite this text with all grammatical rules. Provide short summary what changed in text.",
		user: "This is text that you need to to fix: %s",
		mock: "This is mocked grammar checker for demonstration. \nInput text: %s",
	},
	"post_writer": {
		system: "You are a SMM. " +
			"You shoud write short post for the social media on given topic. Limit your response to 200 words.",
		user: "This is a post topic: %s",
		mock: "This is mocked post writer for demonstration. \nInput text: %s",
	},
	"document_code": {
		system: "You are a software developer. " +
			"You should document providen code snippet. Provide code explanation and variables used in this code",
		user: "This is a code to document: %s. Limit your response to 200 words.",
		mock: "This is mocked code documentation for demonstration. \nInput text: %s",
	},
}

type openaiGenerator struct {
	client *openai.Client
	model  string
	log    *zap.Logger
}

// NewOpenAIGenerator calls the chat completion API with the feature's
// prompt pair.
func NewOpenAIGenerator(apiKey, model string, log *zap.Logger) Generator {
	return &openaiGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
		log:    log.Named("features.text"),
	}
}

func (g *openaiGenerator) Generate(ctx context.Context, featureKey, text string) (string, error) {
	spec, ok := textPrompts[featureKey]
	if !ok {
		return "", fmt.Errorf("no prompt for feature %s", featureKey)
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     g.model,
		MaxTokens: spec.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: spec.system},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(spec.user, text)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", dispatch.ErrUpstream, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "No content generated.", nil
	}
	return resp.Choices[0].Message.Content, nil
}

type mockGenerator struct{}

// NewMockGenerator echoes canned text, for demos and tests without an
// API key.
func NewMockGenerator() Generator {
	return mockGenerator{}
}

func (mockGenerator) Generate(_ context.Context, featureKey, text string) (string, error) {
	spec, ok := textPrompts[featureKey]
	if !ok {
		return "", fmt.Errorf("no prompt for feature %s", featureKey)
	}
	return fmt.Sprintf(spec.mock, text), nil
}

// textHandler wraps a Generator as a dispatch handler: the generated
// text is persisted as a .txt artifact and echoed in the response body.
func textHandler(generator Generator, featureKey string) dispatch.Handler {
	return dispatch.HandlerFunc(func(ctx context.Context, req dispatch.Request) (*dispatch.Result, error) {
		if strings.TrimSpace(req.Text) == "" {
			return nil, fmt.Errorf("%w: no input text provided", dispatch.ErrInvalidInput)
		}
		generated, err := generator.Generate(ctx, featureKey, req.Text)
		if err != nil {
			return nil, err
		}
		return &dispatch.Result{
			Artifact: &dispatch.Artifact{
				Name: "generated_text.txt",
				MIME: "text/plain",
				Data: []byte(generated),
			},
			Text: generated,
		}, nil
	})
}
