package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"dailymatch-engine/internal/config"
	"dailymatch-engine/pkg/models"
)

// ClaudeProvider implements the categorization provider interface using
// Anthropic's Claude
type ClaudeProvider struct {
	client anthropic.Client
	config *config.Config
}

// NewClaudeProvider creates a new Claude provider instance
func NewClaudeProvider(cfg *config.Config) *ClaudeProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.Categorizer.APIKey),
	)

	return &ClaudeProvider{
		client: client,
		config: cfg,
	}
}

// Categorize derives tag lists for a listing using Claude
func (cp *ClaudeProvider) Categorize(ctx context.Context, title, employer, description, location string) (*models.OpportunityTags, error) {
	prompt := cp.buildCategorizationPrompt(title, employer, description, location)

	response, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(cp.config.Categorizer.Model),
		MaxTokens:   int64(cp.config.Categorizer.MaxTokens),
		Temperature: anthropic.Float(float64(cp.config.Categorizer.Temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call Claude API: %w", err)
	}

	return cp.parseClaudeResponse(response)
}

// buildCategorizationPrompt creates the prompt for Claude to derive tags
func (cp *ClaudeProvider) buildCategorizationPrompt(title, employer, description, location string) string {
	return fmt.Sprintf(`You are a job listing categorizer for an internship platform. Analyze the listing below and return a JSON object with exactly these fields:

{
  "categories": ["array of strings - broad role categories, e.g. 'Software Engineering', 'Finance'"],
  "match_keywords": ["array of strings - short keywords a matching candidate's interests would contain"],
  "industry_tags": ["array of strings - industries of the employer"],
  "required_skills": ["array of strings - concrete skills the listing requires"],
  "education_match": ["array of strings - majors or fields of study this role fits"],
  "confidence": number between 0 and 1 - how confident you are in this categorization
}

IMPORTANT RULES:
1. Return ONLY valid JSON, no additional text or explanation
2. Use empty arrays when a field cannot be derived from the listing
3. Keep each list under 10 entries, most relevant first
4. education_match entries must be fields of study, not degree levels

LISTING:
Title: %s
Employer: %s
Location: %s
Description:
%s`, title, employer, location, description)
}

// parseClaudeResponse parses the Claude API response into a tag set
func (cp *ClaudeProvider) parseClaudeResponse(response *anthropic.Message) (*models.OpportunityTags, error) {
	if len(response.Content) == 0 {
		return nil, fmt.Errorf("empty response from Claude")
	}

	var responseText string
	for _, content := range response.Content {
		textContent := content.AsText()
		responseText = textContent.Text
		break
	}
	if responseText == "" {
		return nil, fmt.Errorf("no text content in Claude response")
	}

	// Strip markdown code fences if present
	responseText = strings.TrimSpace(responseText)
	if strings.HasPrefix(responseText, "```json") {
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)
	} else if strings.HasPrefix(responseText, "```") {
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)
	}

	var tags models.OpportunityTags
	if err := json.Unmarshal([]byte(responseText), &tags); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response from Claude: %w", err)
	}

	if tags.Confidence <= 0 {
		tags.Confidence = models.DefaultLowConfidence
	}
	return &tags, nil
}

// IsHealthy checks if the Claude provider is healthy and available
func (cp *ClaudeProvider) IsHealthy(ctx context.Context) error {
	if cp.config.Categorizer.APIKey == "" {
		return fmt.Errorf("Claude API key not configured - set CATEGORIZER_API_KEY environment variable")
	}

	_, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(cp.config.Categorizer.Model),
		MaxTokens: 16,
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: "Hello"},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return fmt.Errorf("Claude API health check failed: %w", err)
	}

	return nil
}

// GetProviderName returns the name of the provider
func (cp *ClaudeProvider) GetProviderName() string {
	return "claude"
}
