package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/pdf-spec-scanner/internal/config"
	"github.com/a3tai/pdf-spec-scanner/internal/descriptions"
	"github.com/a3tai/pdf-spec-scanner/internal/report"
	"github.com/a3tai/pdf-spec-scanner/internal/scanner"
	"github.com/a3tai/pdf-spec-scanner/internal/security"
	"github.com/a3tai/pdf-spec-scanner/internal/specsheet"
)

const (
	maxListedDocuments = 10
	shutdownTimeout    = 5 * time.Second
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	scanner   *scanner.Service
	paths     *security.PathValidator
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP server instance. Tool paths are confined to
// the configured document directory.
func NewServer(cfg *config.Config, svc *scanner.Service, logger *slog.Logger) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("scanner service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	paths, err := security.NewPathValidator(cfg.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		scanner:   svc,
		paths:     paths,
		mcpServer: mcpServer,
		logger:    logger,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractFileTool := mcp.NewTool(
		descriptions.ToolExtractFile,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolExtractFile)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the document, absolute or relative to the configured directory"),
		),
		mcp.WithBoolean("persist",
			mcp.Description("Write the raw markdown and JSON record next to the document"),
		),
	)
	s.mcpServer.AddTool(extractFileTool, s.handleExtractFile)

	extractTextTool := mcp.NewTool(
		descriptions.ToolExtractText,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolExtractText)),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Sheet text or markdown"),
		),
	)
	s.mcpServer.AddTool(extractTextTool, s.handleExtractText)

	searchDirectoryTool := mcp.NewTool(
		descriptions.ToolSearchDirectory,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolSearchDirectory)),
		mcp.WithString("directory",
			mcp.Description("Directory to search (uses the configured directory if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional case-insensitive file name filter"),
		),
		mcp.WithBoolean("recursive",
			mcp.Description("Also search subdirectories"),
		),
	)
	s.mcpServer.AddTool(searchDirectoryTool, s.handleSearchDirectory)

	serverInfoTool := mcp.NewTool(
		descriptions.ToolServerInfo,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolServerInfo)),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Handler functions
func (s *Server) handleExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resolved, err := s.paths.Resolve(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	extract := s.scanner.ExtractFile
	if request.GetBool("persist", false) {
		extract = s.scanner.ProcessFile
	}

	doc, err := extract(ctx, resolved)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText, err := formatDocumentResult(doc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleExtractText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text cannot be empty"), nil
	}

	result := s.scanner.ExtractText(text)

	responseText, err := formatExtraction(result.Record, result.Pairs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleSearchDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := ""
	if dir, ok := args["directory"].(string); ok {
		directory = dir
	}
	resolved, err := s.paths.ResolveDirectory(directory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := ""
	if q, ok := args["query"].(string); ok {
		query = q
	}

	result, err := s.scanner.FindDocuments(scanner.SearchRequest{
		Directory: resolved,
		Query:     query,
		Recursive: request.GetBool("recursive", false),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.TotalCount == 0 {
		responseText = fmt.Sprintf("No documents found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
	} else {
		responseText = formatSearchResult(result)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.scanner.FindDocuments(scanner.SearchRequest{Directory: s.paths.Root()})
	if err != nil {
		s.logger.Debug("server info without directory listing", "error", err)
		result = &scanner.SearchResult{Directory: s.paths.Root()}
	}

	return mcp.NewToolResultText(s.formatServerInfo(result)), nil
}

// Formatting methods
func formatDocumentResult(doc *scanner.DocumentResult) (string, error) {
	text := fmt.Sprintf("Extracted product data from: %s\n", doc.Path)
	text += fmt.Sprintf("Backend: %s\n", doc.Backend)
	text += fmt.Sprintf("Run ID: %s\n", doc.RunID)
	if doc.Output != nil {
		text += fmt.Sprintf("Raw content: %s\n", doc.Output.RawPath)
		text += fmt.Sprintf("Product data: %s\n", doc.Output.JSONPath)
	}
	if doc.SchemaError != "" {
		text += fmt.Sprintf("Schema warning: %s\n", doc.SchemaError)
	}
	text += "\n"

	body, err := formatExtraction(doc.Record, doc.Pairs)
	if err != nil {
		return "", err
	}
	return text + body, nil
}

func formatExtraction(rec *specsheet.Record, pairs []specsheet.Pair) (string, error) {
	data, err := report.MarshalRecord(rec)
	if err != nil {
		return "", err
	}

	text := fmt.Sprintf("Key/value pairs found: %d\n", len(pairs))
	for i, p := range pairs {
		text += fmt.Sprintf("%d. %s: %s\n", i+1, p.Key, p.Value)
	}
	text += "\nProduct record:\n"
	text += string(data) + "\n"
	return text, nil
}

func formatSearchResult(result *scanner.SearchResult) string {
	text := fmt.Sprintf("Found %d document(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

func (s *Server) formatServerInfo(result *scanner.SearchResult) string {
	text := fmt.Sprintf("%s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("Default Directory: %s\n", s.paths.Root())
	text += fmt.Sprintf("PDF Backend: %s\n", s.config.Backend)
	text += fmt.Sprintf("Max File Size: %d MB\n", s.config.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("Directory Extensions: %s\n", strings.Join(s.scanner.Extensions(), ", "))
	text += fmt.Sprintf("Supported Formats: %s\n\n", strings.Join(s.scanner.Factory().Extensions(), ", "))

	if len(result.Files) > 0 {
		text += fmt.Sprintf("Directory Contents (%d documents found):\n", len(result.Files))
		for i, file := range result.Files {
			if i >= maxListedDocuments {
				text += fmt.Sprintf("   ... and %d more files\n", len(result.Files)-maxListedDocuments)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "Directory Contents: No documents found in default directory\n\n"
	}

	text += "Available Tools:\n"
	for _, tool := range descriptions.Tools() {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Usage: %s\n", tool.Usage)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode serves MCP over standard I/O until stdin closes
func (s *Server) runStdioMode(_ context.Context) error {
	s.logger.Debug("starting MCP server in stdio mode", "directory", s.paths.Root())

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over HTTP with server-sent events until ctx is
// cancelled
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	errCh := make(chan error, 1)
	go func() {
		errCh <- sse.Start(addr)
	}()
	s.logger.Info("MCP server listening", "address", addr, "directory", s.paths.Root())

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := sse.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down http server: %w", err)
		}
		s.logger.Info("MCP server stopped")
		return nil
	}
}
