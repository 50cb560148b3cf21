package gateway

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	genai "google.golang.org/genai"
)

// Client is a thin wrapper around the official genai client. It owns the
// whole request lifecycle: bounded timeout, tool declaration, and the
// two-step function-calling exchange, so callers see a single Result.
type Client struct {
	cli     *genai.Client
	model   string
	timeout time.Duration
}

func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{cli: cli, model: model, timeout: timeout}, nil
}

func (c *Client) Name() string { return "Gemini:" + c.model }

// Complete runs one generation turn. If the model invokes a tool, the
// follow-up exchange (tool result ack -> natural-language reply) happens
// here and the combined {text, call} comes back as one unit.
func (c *Client) Complete(ctx context.Context, system, prompt string, tools []Tool) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	if len(tools) > 0 {
		cfg.Tools = declareTools(tools)
	}

	contents := []*genai.Content{
		{Role: genai.RoleUser, Parts: []*genai.Part{{Text: prompt}}},
	}

	start := time.Now()
	resp, err := c.cli.Models.GenerateContent(ctx, c.model, contents, cfg)
	metricLatencyMS.Observe(float64(time.Since(start).Milliseconds()))
	metricRequests.Inc()
	if err != nil {
		metricErrors.Inc()
		return Result{}, &GatewayError{Op: "generate", Err: err}
	}

	text, fc := extractTurn(resp)
	if fc == nil {
		if text == "" {
			metricEmptyResponses.Inc()
		}
		return Result{Text: text}, nil
	}

	call := &ToolCall{Name: fc.Name, Args: coerceArgs(tools, fc.Name, fc.Args)}
	metricToolCalls.Inc()

	// Two-step protocol: acknowledge the call, then collect the model's
	// follow-up text in the same conversation.
	contents = append(contents,
		resp.Candidates[0].Content,
		&genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{{
			FunctionResponse: &genai.FunctionResponse{
				Name:     fc.Name,
				Response: map[string]any{"result": "executed: " + fc.Name},
			},
		}}},
	)
	follow, err := c.cli.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		metricErrors.Inc()
		return Result{}, &GatewayError{Op: "tool follow-up", Err: err}
	}
	text, _ = extractTurn(follow)
	if text == "" {
		metricEmptyResponses.Inc()
	}
	return Result{Text: text, Call: call}, nil
}

// extractTurn pulls the first function call and any text out of a response,
// tolerating missing candidates, content and parts.
func extractTurn(resp *genai.GenerateContentResponse) (string, *genai.FunctionCall) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}
	var text strings.Builder
	var call *genai.FunctionCall
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.FunctionCall != nil && call == nil {
			call = part.FunctionCall
			continue
		}
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(text.String()), call
}

func declareTools(tools []Tool) []*genai.Tool {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		props := make(map[string]*genai.Schema, len(t.Params))
		var required []string
		for _, p := range t.Params {
			props[p.Name] = &genai.Schema{
				Type:        schemaType(p.Type),
				Description: p.Description,
			}
			if p.Required {
				required = append(required, p.Name)
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: props,
				Required:   required,
			},
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

func schemaType(t string) genai.Type {
	if t == "integer" {
		return genai.TypeInteger
	}
	return genai.TypeString
}

// coerceArgs normalizes tool arguments to the declared parameter types
// before they reach any caller. Unknown args pass through untouched.
func coerceArgs(tools []Tool, name string, raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[k] = v
	}
	for _, t := range tools {
		if t.Name != name {
			continue
		}
		for _, p := range t.Params {
			if p.Type != "integer" {
				continue
			}
			if v, ok := out[p.Name]; ok {
				if n, ok := coerceInt(v); ok {
					out[p.Name] = n
				}
			}
		}
	}
	return out
}

func coerceInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case float32:
		return int(t), true
	case float64:
		return int(t), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n, true
		}
	}
	return 0, false
}
