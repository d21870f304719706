package service

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/voidsheet/internal/services/mcp/domain"
)

type mcpRegistrationTarget interface {
	AddTool(*mcp.Tool, any) error
	AddResourceTemplate(*mcp.ResourceTemplate, mcp.ResourceHandler)
	AddResource(*mcp.Resource, mcp.ResourceHandler)
}

type mcpRegistrationKind int

const (
	mcpRegistrationKindTools mcpRegistrationKind = iota
	mcpRegistrationKindResources
)

type mcpRegistrationModule struct {
	name     string
	kind     mcpRegistrationKind
	register func(mcpRegistrationTarget) error
}

const (
	mcpSheetToolsModuleName          = "sheet-tools"
	mcpProjectionResourcesModuleName = "projection-resources"
)

type mcpServerRegistrationAdapter struct {
	server *mcp.Server
}

func (r mcpServerRegistrationAdapter) AddTool(tool *mcp.Tool, handler any) error {
	return addMCPTool(r.server, tool, handler)
}

func (r mcpServerRegistrationAdapter) AddResourceTemplate(resourceTemplate *mcp.ResourceTemplate, handler mcp.ResourceHandler) {
	r.server.AddResourceTemplate(resourceTemplate, handler)
}

func (r mcpServerRegistrationAdapter) AddResource(resource *mcp.Resource, handler mcp.ResourceHandler) {
	r.server.AddResource(resource, handler)
}

type mcpToolRegistrar struct {
	matches func(any) bool
	add     func(*mcp.Server, *mcp.Tool, any)
}

func newMCPToolRegistrar[I any, O any]() mcpToolRegistrar {
	return mcpToolRegistrar{
		matches: func(handler any) bool {
			_, ok := handler.(mcp.ToolHandlerFor[I, O])
			return ok
		},
		add: func(server *mcp.Server, tool *mcp.Tool, handler any) {
			mcp.AddTool(server, tool, handler.(mcp.ToolHandlerFor[I, O]))
		},
	}
}

var mcpToolRegistrars = []mcpToolRegistrar{
	newMCPToolRegistrar[domain.SheetDeriveInput, domain.SheetDeriveResult](),
	newMCPToolRegistrar[domain.SheetBindingsInput, domain.SheetBindingsResult](),
	newMCPToolRegistrar[domain.SheetExplainInput, domain.SheetExplainResult](),
	newMCPToolRegistrar[domain.SheetRulesVersionInput, domain.SheetRulesVersionResult](),
}

// addMCPTool resolves the generic handler type at registration time.
func addMCPTool(server *mcp.Server, tool *mcp.Tool, handler any) error {
	for _, registrar := range mcpToolRegistrars {
		if registrar.matches(handler) {
			registrar.add(server, tool, handler)
			return nil
		}
	}
	return fmt.Errorf("tool %q has unsupported handler type %T", tool.Name, handler)
}

func registerTool(registrar mcpRegistrationTarget, tool *mcp.Tool, handler any) error {
	return registrar.AddTool(tool, handler)
}

func registerSheetTools(registrar mcpRegistrationTarget, svc domain.SheetService) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.SheetDeriveTool(), handler: domain.SheetDeriveHandler(svc)},
		{tool: domain.SheetBindingsTool(), handler: domain.SheetBindingsHandler(svc)},
		{tool: domain.SheetExplainTool(), handler: domain.SheetExplainHandler(svc)},
		{tool: domain.SheetRulesVersionTool(), handler: domain.SheetRulesVersionHandler()},
	}
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerProjectionResources(registrar mcpRegistrationTarget, store domain.ProjectionReader) {
	registrar.AddResource(domain.ProjectionListResource(), domain.ProjectionListResourceHandler(store))
	registrar.AddResourceTemplate(domain.ProjectionResourceTemplate(), domain.ProjectionResourceHandler(store))
}

func newMCPRegistrationModules(svc domain.SheetService, store domain.ProjectionReader) []mcpRegistrationModule {
	modules := []mcpRegistrationModule{
		{
			name: mcpSheetToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(target mcpRegistrationTarget) error {
				return registerSheetTools(target, svc)
			},
		},
	}
	if store != nil {
		modules = append(modules, mcpRegistrationModule{
			name: mcpProjectionResourcesModuleName,
			kind: mcpRegistrationKindResources,
			register: func(target mcpRegistrationTarget) error {
				registerProjectionResources(target, store)
				return nil
			},
		})
	}
	return modules
}
