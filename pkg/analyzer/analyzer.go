// Package analyzer sends text to the OpenRouter chat completions API and
// returns the generated analysis.
package analyzer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/glean-tools/glean/pkg/config"
)

// DefaultBaseURL is the root of OpenRouter's OpenAI-compatible API.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

const defaultPrompt = `Please provide a comprehensive analysis of the following text including:
1. A concise summary
2. Key points and main themes
3. Important insights or takeaways
4. Any notable patterns or structure

Please be thorough but concise in your analysis.`

const textSeparator = "\n\nText to analyze:\n"

var (
	ErrEmptyInput = errors.New("no text provided for analysis")
	ErrNoChoices  = errors.New("unexpected API response format: no choices returned")
)

// Options are per-invocation overrides. Zero values (nil for Temperature, so
// an explicit 0.0 stays distinct from unset) fall back to the configured
// settings.
type Options struct {
	Prompt      string
	Model       string
	Temperature *float64
}

type Analyzer struct {
	client   *openai.Client
	settings config.Settings
}

// New builds an Analyzer for the API at baseURL. It fails only when the
// configured proxy URL cannot be parsed.
func New(baseURL string, settings config.Settings) (*Analyzer, error) {
	conf := openai.DefaultConfig(settings.APIKey)
	conf.BaseURL = baseURL

	transport := &http.Transport{}

	if settings.HTTPProxy != "" {
		proxy, err := url.Parse(settings.HTTPProxy)
		if err != nil {
			return nil, fmt.Errorf("invalid http_proxy %q: %w", settings.HTTPProxy, err)
		}
		transport.Proxy = http.ProxyURL(proxy)
	}

	if settings.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	conf.HTTPClient = &http.Client{Transport: transport}

	return &Analyzer{
		client:   openai.NewClientWithConfig(conf),
		settings: settings,
	}, nil
}

// Analyze sends text (plus an optional custom prompt) to the completions API
// and returns the first choice's message content.
func (a *Analyzer) Analyze(ctx context.Context, text string, opts Options) (string, error) {
	if strings.TrimSpace(text) == "" && opts.Prompt == "" {
		return "", ErrEmptyInput
	}

	model := a.settings.Model
	if opts.Model != "" {
		model = opts.Model
	}

	temperature := a.settings.Temperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    a.buildMessages(text, opts.Prompt),
		Temperature: requestTemperature(temperature),
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return resp.Choices[0].Message.Content, nil
}

func (a *Analyzer) buildMessages(text, customPrompt string) []openai.ChatCompletionMessage {
	var prompt string
	switch {
	case customPrompt != "" && strings.TrimSpace(text) != "":
		prompt = customPrompt + textSeparator + text
	case customPrompt != "":
		prompt = customPrompt
	default:
		prompt = defaultPrompt + textSeparator + text
	}

	var messages []openai.ChatCompletionMessage

	if a.settings.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: a.settings.SystemPrompt,
		})
	}

	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})
}

// go-openai drops a zero temperature from the request body (omitempty), so an
// explicit 0 is sent as the smallest representable value instead.
func requestTemperature(temperature float64) float32 {
	if temperature == 0 {
		return math.SmallestNonzeroFloat32
	}

	return float32(temperature)
}
