package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/voidsheet/internal/services/sheet/app"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/rules"
	"github.com/louisbranch/voidsheet/internal/services/sheet/fixture"
)

// SheetService is the subset of the sheet service the tools call.
type SheetService interface {
	Derive(ctx context.Context, sheet fixture.Sheet) (app.Result, error)
	Explain(ctx context.Context, sheet fixture.Sheet, target string) (rules.Explanation, error)
}

// SheetDocumentInput carries an actor document inline.
type SheetDocumentInput struct {
	Document   string `json:"document" jsonschema:"actor document as YAML or JSON"`
	Format     string `json:"format,omitempty" jsonschema:"document format: yaml (default) or json"`
	AlreadyHit bool   `json:"already_hit,omitempty" jsonschema:"actor was already hit this round; suppresses the good craftsmanship armour bonus"`
}

// SheetDeriveInput is the input for sheet_derive.
type SheetDeriveInput struct {
	SheetDocumentInput
}

// SheetDeriveResult is the output for sheet_derive.
type SheetDeriveResult struct {
	ActorID      string         `json:"actor_id" jsonschema:"actor identifier"`
	Name         string         `json:"name" jsonschema:"actor name"`
	Kind         string         `json:"kind" jsonschema:"actor kind"`
	RulesVersion string         `json:"rules_version" jsonschema:"rules version used for derivation"`
	Fingerprint  string         `json:"fingerprint" jsonschema:"sha256 of the derived snapshot"`
	Diagnostics  int            `json:"diagnostics" jsonschema:"number of diagnostics raised while aggregating records"`
	Derived      map[string]any `json:"derived" jsonschema:"full derived snapshot"`
}

// SheetBindingsInput is the input for sheet_bindings.
type SheetBindingsInput struct {
	SheetDocumentInput
}

// SheetBindingsResult is the output for sheet_bindings.
type SheetBindingsResult struct {
	ActorID  string             `json:"actor_id" jsonschema:"actor identifier"`
	Bindings map[string]float64 `json:"bindings" jsonschema:"roll variables such as WS, WSB, init and pr"`
}

// SheetExplainInput is the input for sheet_explain.
type SheetExplainInput struct {
	SheetDocumentInput
	Target string `json:"target" jsonschema:"characteristic key or short code, skill key, or armour location"`
}

// ExplainStepResult is one explanation step.
type ExplainStepResult struct {
	Code    string         `json:"code" jsonschema:"step code"`
	Message string         `json:"message" jsonschema:"human readable step"`
	Data    map[string]any `json:"data,omitempty" jsonschema:"step inputs"`
}

// SheetExplainResult is the output for sheet_explain.
type SheetExplainResult struct {
	Target       string              `json:"target" jsonschema:"explained value"`
	Value        int                 `json:"value" jsonschema:"final value"`
	RulesVersion string              `json:"rules_version" jsonschema:"rules version used for derivation"`
	Steps        []ExplainStepResult `json:"steps" jsonschema:"ordered derivation steps"`
}

// SheetRulesVersionInput is the input for sheet_rules_version.
type SheetRulesVersionInput struct{}

// SheetRulesVersionResult is the output for sheet_rules_version.
type SheetRulesVersionResult struct {
	System        string    `json:"system" jsonschema:"game system"`
	RulesVersion  string    `json:"rules_version" jsonschema:"rules version"`
	BonusFormula  string    `json:"bonus_formula" jsonschema:"characteristic bonus formula"`
	SkillFormula  string    `json:"skill_formula" jsonschema:"skill target formula"`
	ArmourFormula string    `json:"armour_formula" jsonschema:"armour per location formula"`
	CarryingTable []float64 `json:"carrying_table" jsonschema:"carrying capacity indexed by SB plus TB"`
	NaturalArmour []string  `json:"natural_armour" jsonschema:"traits adding toughness bonus to armour"`
	CombatKeys    []string  `json:"combat_keys" jsonschema:"recognised combat modifier keys"`
}

// SheetDeriveTool defines the MCP tool schema for derivation.
func SheetDeriveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "sheet_derive",
		Description: "Derives every computed value for an actor document",
	}
}

// SheetBindingsTool defines the MCP tool schema for roll bindings.
func SheetBindingsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "sheet_bindings",
		Description: "Returns the roll variable table for an actor document",
	}
}

// SheetExplainTool defines the MCP tool schema for explanations.
func SheetExplainTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "sheet_explain",
		Description: "Explains how one derived value was computed",
	}
}

// SheetRulesVersionTool defines the MCP tool schema for rules metadata.
func SheetRulesVersionTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "sheet_rules_version",
		Description: "Describes the derivation formulas and tables",
	}
}

// SheetDeriveHandler derives a document.
func SheetDeriveHandler(svc SheetService) mcp.ToolHandlerFor[SheetDeriveInput, SheetDeriveResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SheetDeriveInput) (*mcp.CallToolResult, SheetDeriveResult, error) {
		if svc == nil {
			return nil, SheetDeriveResult{}, fmt.Errorf("sheet service is not configured")
		}
		sheet, err := parseSheet(input.SheetDocumentInput)
		if err != nil {
			return nil, SheetDeriveResult{}, err
		}
		result, err := svc.Derive(ctx, sheet)
		if err != nil {
			return nil, SheetDeriveResult{}, fmt.Errorf("derive sheet: %w", err)
		}
		var snapshot map[string]any
		if err := json.Unmarshal(result.JSON, &snapshot); err != nil {
			return nil, SheetDeriveResult{}, fmt.Errorf("decode derived snapshot: %w", err)
		}
		return &mcp.CallToolResult{}, SheetDeriveResult{
			ActorID:      result.Derived.ActorID,
			Name:         result.Derived.Name,
			Kind:         string(result.Derived.Kind),
			RulesVersion: result.Derived.RulesVersion,
			Fingerprint:  result.Fingerprint,
			Diagnostics:  len(result.Derived.Diagnostics),
			Derived:      snapshot,
		}, nil
	}
}

// SheetBindingsHandler returns roll bindings for a document.
func SheetBindingsHandler(svc SheetService) mcp.ToolHandlerFor[SheetBindingsInput, SheetBindingsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SheetBindingsInput) (*mcp.CallToolResult, SheetBindingsResult, error) {
		if svc == nil {
			return nil, SheetBindingsResult{}, fmt.Errorf("sheet service is not configured")
		}
		sheet, err := parseSheet(input.SheetDocumentInput)
		if err != nil {
			return nil, SheetBindingsResult{}, err
		}
		result, err := svc.Derive(ctx, sheet)
		if err != nil {
			return nil, SheetBindingsResult{}, fmt.Errorf("derive sheet: %w", err)
		}
		return &mcp.CallToolResult{}, SheetBindingsResult{
			ActorID:  result.Derived.ActorID,
			Bindings: result.Bindings,
		}, nil
	}
}

// SheetExplainHandler explains a derived value.
func SheetExplainHandler(svc SheetService) mcp.ToolHandlerFor[SheetExplainInput, SheetExplainResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SheetExplainInput) (*mcp.CallToolResult, SheetExplainResult, error) {
		if svc == nil {
			return nil, SheetExplainResult{}, fmt.Errorf("sheet service is not configured")
		}
		target := strings.TrimSpace(input.Target)
		if target == "" {
			return nil, SheetExplainResult{}, fmt.Errorf("target is required")
		}
		sheet, err := parseSheet(input.SheetDocumentInput)
		if err != nil {
			return nil, SheetExplainResult{}, err
		}
		explanation, err := svc.Explain(ctx, sheet, target)
		if err != nil {
			return nil, SheetExplainResult{}, fmt.Errorf("explain %s: %w", target, err)
		}
		steps := make([]ExplainStepResult, 0, len(explanation.Steps))
		for _, step := range explanation.Steps {
			steps = append(steps, ExplainStepResult{Code: step.Code, Message: step.Message, Data: step.Data})
		}
		return &mcp.CallToolResult{}, SheetExplainResult{
			Target:       explanation.Target,
			Value:        explanation.Value,
			RulesVersion: explanation.RulesVersion,
			Steps:        steps,
		}, nil
	}
}

// SheetRulesVersionHandler returns static rules metadata.
func SheetRulesVersionHandler() mcp.ToolHandlerFor[SheetRulesVersionInput, SheetRulesVersionResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ SheetRulesVersionInput) (*mcp.CallToolResult, SheetRulesVersionResult, error) {
		meta := rules.RulesVersion()
		return &mcp.CallToolResult{}, SheetRulesVersionResult{
			System:        meta.System,
			RulesVersion:  meta.RulesVersion,
			BonusFormula:  meta.BonusFormula,
			SkillFormula:  meta.SkillFormula,
			ArmourFormula: meta.ArmourFormula,
			CarryingTable: meta.CarryingTable,
			NaturalArmour: meta.NaturalArmour,
			CombatKeys:    meta.CombatKeys,
		}, nil
	}
}

func parseSheet(input SheetDocumentInput) (fixture.Sheet, error) {
	format, err := parseFormat(input.Format)
	if err != nil {
		return fixture.Sheet{}, err
	}
	sheet, err := fixture.Parse([]byte(input.Document), format)
	if err != nil {
		return fixture.Sheet{}, fmt.Errorf("parse document: %w", err)
	}
	if input.AlreadyHit {
		sheet.Combat.AlreadyHit = true
	}
	return sheet, nil
}

func parseFormat(value string) (fixture.Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "yaml", "yml":
		return fixture.FormatYAML, nil
	case "json":
		return fixture.FormatJSON, nil
	default:
		return "", fmt.Errorf("format %q is not supported", value)
	}
}
