// Package inference calls a vision-capable model to analyze rooftop
// satellite imagery and returns strictly validated structured detections.
package inference

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/RandomVariable1470/suryaverify/internal/cost"
)

// Client defines the inference operations used by the verifier.
type Client interface {
	Analyze(ctx context.Context, req Request) (*Detection, error)
}

// Request carries one image to analyze. Lat/Lon are context for the model
// prompt; HasLocation is false for uploads without coordinate metadata.
type Request struct {
	Image       []byte
	MediaType   string // e.g. "image/jpeg"
	Lat         float64
	Lon         float64
	HasLocation bool
}

// Options configures the client.
type Options struct {
	Model     string
	MaxTokens int64
	// Tracker, when set, accumulates token spend across calls.
	Tracker *cost.Tracker
}

// TokenUsage tracks token consumption for cost attribution.
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
}

var defaultCalc = cost.NewCalculator(cost.DefaultRates())

// sdkClient implements Client using the official anthropic-sdk-go.
type sdkClient struct {
	client sdk.Client
	opts   Options
}

// NewClient creates an inference client backed by the SDK.
func NewClient(apiKey string, opts Options) Client {
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 2048
	}
	return &sdkClient{
		client: sdk.NewClient(
			option.WithAPIKey(apiKey),
		),
		opts: opts,
	}
}

func (c *sdkClient) Analyze(ctx context.Context, req Request) (*Detection, error) {
	mediaType := req.MediaType
	if mediaType == "" {
		mediaType = "image/jpeg"
	}

	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.opts.Model),
		MaxTokens: c.opts.MaxTokens,
		System: []sdk.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(
				sdk.NewImageBlockBase64(mediaType, base64.StdEncoding.EncodeToString(req.Image)),
				sdk.NewTextBlock(userPrompt(req.Lat, req.Lon, req.HasLocation)),
			),
		},
	})
	if err != nil {
		return nil, classifySDKError(err)
	}

	usage := TokenUsage{
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	}
	if c.opts.Tracker != nil {
		c.opts.Tracker.AddVision(c.opts.Model, usage.InputTokens, usage.OutputTokens)
	}
	zap.L().Debug("inference: analysis call",
		zap.String("model", c.opts.Model),
		zap.Int64("input_tokens", usage.InputTokens),
		zap.Int64("output_tokens", usage.OutputTokens),
		zap.Float64("estimated_cost_usd", defaultCalc.Vision(c.opts.Model, usage.InputTokens, usage.OutputTokens)),
	)

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return nil, &MalformedResponseError{Reason: "no text content in response", Payload: ""}
	}

	det, err := parseDetection(text)
	if err != nil {
		var mr *MalformedResponseError
		if errors.As(err, &mr) {
			zap.L().Error("inference: response did not match schema",
				zap.String("reason", mr.Reason),
				zap.String("raw_payload", mr.Payload),
			)
		}
		return nil, err
	}
	return det, nil
}

// classifySDKError maps SDK failures onto the error taxonomy the batch
// orchestrator distinguishes: 429 is transient, 402 and credit exhaustion
// are fatal until the account is topped up.
func classifySDKError(err error) error {
	var apierr *sdk.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case 429:
			return &RateLimitError{Err: err}
		case 402:
			return &QuotaError{Err: err}
		}
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "credit balance") || strings.Contains(msg, "billing") {
		return &QuotaError{Err: err}
	}
	return eris.Wrap(err, "inference: analyze")
}
