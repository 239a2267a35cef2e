// Package mcptools exposes the schema reader as Model Context Protocol tools,
// so assistants can look up table columns while generating code.
package mcptools

import (
	"bytes"
	"context"
	"fmt"

	"github.com/koustreak/colmeta/internal/database"
	"github.com/koustreak/colmeta/internal/export"
	"github.com/koustreak/colmeta/internal/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer returns an MCP server with the colmeta tools registered.
func NewServer(catalog database.Catalog, reader *schema.Reader, version string) *server.MCPServer {
	s := server.NewMCPServer("colmeta", version, server.WithToolCapabilities(false))
	Register(s, catalog, reader)
	return s
}

// Register adds the list_tables and read_columns tools to s.
func Register(s *server.MCPServer, catalog database.Catalog, reader *schema.Reader) {
	listTables := mcp.NewTool("list_tables",
		mcp.WithDescription("List the tables of the connected database"),
	)
	readColumns := mcp.NewTool("read_columns",
		mcp.WithDescription("Describe the columns of a table: abstract type, host value type, nullability, keys, enum options and typed defaults"),
		mcp.WithString("table",
			mcp.Required(),
			mcp.Description("Name of the table to describe"),
		),
		mcp.WithString("format",
			mcp.Description("json (default) or yaml"),
		),
	)

	s.AddTool(listTables, ListTablesHandler(catalog))
	s.AddTool(readColumns, ReadColumnsHandler(reader))
}

// ListTablesHandler answers list_tables.
func ListTablesHandler(catalog database.Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tables, err := catalog.ListTables(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list tables failed: %v", err)), nil
		}
		return encode(export.FormatJSON, map[string][]string{"tables": tables})
	}
}

// ReadColumnsHandler answers read_columns with an export.Document.
func ReadColumnsHandler(reader *schema.Reader) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		table, err := request.RequireString("table")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("missing table parameter: %v", err)), nil
		}
		format, err := export.ParseFormat(request.GetString("format", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		cols, err := reader.ReadColumns(ctx, table)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("read columns failed: %v", err)), nil
		}
		return encode(format, export.NewDocument(&schema.Table{Name: table, Columns: cols}))
	}
}

func encode(format export.Format, v any) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	if err := export.Encode(&buf, format, v); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}
