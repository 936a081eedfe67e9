package bedrock

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/eco-scheduler/internal/core"
	"go.uber.org/zap"
)

const anthropicVersion = "bedrock-2023-05-31"

// InvokeModelAPI is the part of the Bedrock runtime client used here
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockClient is an implementation of the TextGenerationClient interface using Amazon Bedrock
type BedrockClient struct {
	client   InvokeModelAPI
	modelID  string
	defaults core.GenerationOptions
	logger   *zap.Logger
}

// NewBedrockClient creates a new Bedrock client
func NewBedrockClient(
	client InvokeModelAPI,
	modelID string,
	defaults core.GenerationOptions,
	logger *zap.Logger,
) *BedrockClient {
	return &BedrockClient{
		client:   client,
		modelID:  modelID,
		defaults: defaults,
		logger:   logger,
	}
}

// Close is a no-op; the AWS client has nothing to release
func (c *BedrockClient) Close() error {
	return nil
}

// Generate invokes the configured model with a body shaped for its family
func (c *BedrockClient) Generate(ctx context.Context, req *core.GenerationRequest) (*core.GeneratedText, error) {
	opts := req.Options.Or(c.defaults)

	payload, err := c.buildPayload(req, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	text, err := c.parseResponse(resp.Body)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("bedrock: %w", core.ErrEmptyResponse)
	}

	return &core.GeneratedText{Text: text, ModelUsed: c.modelID}, nil
}

func (c *BedrockClient) buildPayload(req *core.GenerationRequest, opts core.GenerationOptions) ([]byte, error) {
	hasImage := req.Image != nil && len(req.Image.Data) > 0

	switch {
	case c.isAnthropicModel():
		content := make([]map[string]interface{}, 0, 2)
		if hasImage {
			content = append(content, map[string]interface{}{
				"type": "image",
				"source": map[string]interface{}{
					"type":       "base64",
					"media_type": req.Image.MIMEType,
					"data":       base64.StdEncoding.EncodeToString(req.Image.Data),
				},
			})
		}
		content = append(content, map[string]interface{}{
			"type": "text",
			"text": req.Prompt,
		})

		body := map[string]interface{}{
			"anthropic_version": anthropicVersion,
			"max_tokens":        opts.MaxOutputTokens,
			"temperature":       opts.Temperature,
			"messages": []map[string]interface{}{
				{"role": "user", "content": content},
			},
		}
		if opts.TopP > 0 {
			body["top_p"] = opts.TopP
		}
		if opts.TopK > 0 {
			body["top_k"] = opts.TopK
		}
		return json.Marshal(body)

	case c.isAmazonTitanModel():
		if hasImage {
			c.logger.Warn("Titan text models do not accept images, sending prompt only",
				zap.String("model", c.modelID))
		}
		return json.Marshal(map[string]interface{}{
			"inputText": req.Prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": opts.MaxOutputTokens,
				"temperature":   opts.Temperature,
				"topP":          opts.TopP,
			},
		})

	default:
		return json.Marshal(map[string]interface{}{
			"prompt":      req.Prompt,
			"max_tokens":  opts.MaxOutputTokens,
			"temperature": opts.Temperature,
			"top_p":       opts.TopP,
		})
	}
}

func (c *BedrockClient) parseResponse(body []byte) (string, error) {
	switch {
	case c.isAnthropicModel():
		var claudeResp struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		var b strings.Builder
		for _, block := range claudeResp.Content {
			if block.Type == "text" {
				b.WriteString(block.Text)
			}
		}
		return b.String(), nil

	case c.isAmazonTitanModel():
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", nil
		}
		return titanResp.Results[0].OutputText, nil

	default:
		var genericResp struct {
			Output     string `json:"output"`
			Text       string `json:"text"`
			Response   string `json:"response"`
			Generation string `json:"generation"`
		}
		if err := json.Unmarshal(body, &genericResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
		}
		for _, s := range []string{genericResp.Output, genericResp.Text, genericResp.Response, genericResp.Generation} {
			if s != "" {
				return s, nil
			}
		}
		return string(body), nil
	}
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (c *BedrockClient) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.claude") || strings.Contains(c.modelID, ".anthropic.claude")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (c *BedrockClient) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
}
