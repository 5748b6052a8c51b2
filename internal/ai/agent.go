// Package ai turns the aggregated business position into narrative insights
// via an external text-generation service. The call is stateless and
// best-effort: no retry, errors surface as-is.
package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// InsightType selects the angle of analysis.
type InsightType string

const (
	InsightPerformance InsightType = "performance"
	InsightRevenue     InsightType = "revenue"
	InsightAgents      InsightType = "agents"
	InsightLocations   InsightType = "locations"
	InsightRisk        InsightType = "risk"
	InsightCustom      InsightType = "custom"
)

// Label returns the display name of the analysis type.
func (t InsightType) Label() string {
	switch t {
	case InsightPerformance:
		return "Sales Performance Analysis"
	case InsightRevenue:
		return "Revenue Trends & Predictions"
	case InsightAgents:
		return "Agent Performance Review"
	case InsightLocations:
		return "Location Analysis"
	case InsightRisk:
		return "Risk Assessment (Outstanding Balances)"
	case InsightCustom:
		return "Custom Question"
	}
	return string(t)
}

// InsightRequest carries everything the prompt needs: the rendered data
// summary, the optional outstanding-sale detail (risk analysis only), and the
// custom question (custom type only).
type InsightRequest struct {
	Type              InsightType
	DataSummary       string
	OutstandingDetail string
	Question          string
}

// InsightReport is the structured narrative returned by the model.
type InsightReport struct {
	Headline        string   `json:"headline" jsonschema_description:"One-sentence takeaway of the analysis"`
	Assessment      string   `json:"assessment" jsonschema_description:"The full narrative analysis, two to five paragraphs of plain prose"`
	KeyFindings     []string `json:"key_findings" jsonschema_description:"Bullet-point findings grounded in the numbers provided"`
	Risks           []string `json:"risks" jsonschema_description:"Concrete risks visible in the data, empty if none"`
	Recommendations []string `json:"recommendations" jsonschema_description:"Actionable next steps for the sales team"`
	Confidence      float64  `json:"confidence" jsonschema_description:"Confidence score between 0.0 and 1.0 reflecting how well the data supports the analysis"`
}

// AgentService generates insight reports from business aggregates.
type AgentService interface {
	GenerateInsights(ctx context.Context, req InsightRequest) (*InsightReport, error)
}

// Agent calls the OpenAI Responses API with a strict JSON schema so the
// output always parses into an InsightReport.
type Agent struct {
	client *openai.Client
}

// NewAgent builds an Agent with the given API key.
func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

func (a *Agent) GenerateInsights(ctx context.Context, req InsightRequest) (*InsightReport, error) {
	prompt, err := buildPrompt(req)
	if err != nil {
		return nil, err
	}

	schemaJSON, err := json.Marshal(generateSchema())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "business_insight_report",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A structured business insight report for a real-estate sales team"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("insight generation error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var report InsightReport
	if err := json.Unmarshal([]byte(content), &report); err != nil {
		return nil, fmt.Errorf("failed to parse insight report: %w", err)
	}
	return &report, nil
}

func buildPrompt(req InsightRequest) (string, error) {
	var brief string
	switch req.Type {
	case InsightPerformance:
		brief = `You are a real estate business analyst. Analyze this sales data and provide:
1. Overall performance assessment
2. Key strengths and weaknesses
3. Month-over-month trends
4. Actionable recommendations`
	case InsightRevenue:
		brief = `As a financial analyst, analyze revenue patterns and provide:
1. Revenue trends analysis
2. Seasonal patterns (if any)
3. 3-month revenue forecast
4. Strategies to increase revenue`
	case InsightAgents:
		brief = `Analyze agent performance and provide:
1. Top performing agents
2. Areas for improvement per agent
3. Fair performance comparison
4. Coaching recommendations`
	case InsightLocations:
		brief = `Analyze location performance and provide:
1. Best performing locations
2. Underperforming areas and why
3. Market opportunities
4. Location-specific strategies`
	case InsightRisk:
		return fmt.Sprintf(`Analyze outstanding balances and provide risk assessment:
1. Overall risk level
2. High-risk accounts (if any)
3. Collection strategies
4. Payment plan recommendations

OUTSTANDING SALES DETAILS:
%s

%s`, req.OutstandingDetail, req.DataSummary), nil
	case InsightCustom:
		if req.Question == "" {
			return "", fmt.Errorf("custom analysis requires a question")
		}
		return fmt.Sprintf(`Answer this business question based on the data:

QUESTION: %s

%s`, req.Question, req.DataSummary), nil
	default:
		return "", fmt.Errorf("unknown insight type %q", req.Type)
	}
	return brief + "\n\n" + req.DataSummary, nil
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v InsightReport
	return reflector.Reflect(v)
}
