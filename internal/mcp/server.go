package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/a3tai/taxdoc-binder/internal/classify"
	"github.com/a3tai/taxdoc-binder/internal/config"
	"github.com/a3tai/taxdoc-binder/internal/outline"
	"github.com/a3tai/taxdoc-binder/internal/pipeline"
	"github.com/a3tai/taxdoc-binder/internal/titles"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Binder runs the binding pipeline over a directory
type Binder interface {
	Run(ctx context.Context, inputDir, output string, opts pipeline.RunOptions) (*pipeline.Report, error)
}

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	binder     Binder
	classifier *classify.Classifier
	resolvers  *titles.Registry
	mcpServer  *server.MCPServer
	logger     *slog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, binder Binder, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if binder == nil {
		return nil, fmt.Errorf("binder cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:     cfg,
		binder:     binder,
		classifier: classify.New(),
		resolvers:  titles.Default(),
		mcpServer:  mcpServer,
		logger:     logger,
	}
	s.registerTools()
	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	classifyTool := mcp.NewTool(
		"classify_text",
		mcp.WithDescription("Classify the text of one tax document page into a category and form type"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Extracted page text"),
		),
	)
	s.mcpServer.AddTool(classifyTool, s.handleClassifyText)

	outlineTool := mcp.NewTool(
		"outline_directory",
		mcp.WithDescription("Plan the bookmark outline for a directory of tax documents without writing a PDF"),
		mcp.WithString("directory",
			mcp.Description("Directory of input documents (defaults to the configured directory)"),
		),
	)
	s.mcpServer.AddTool(outlineTool, s.handleOutlineDirectory)

	bindTool := mcp.NewTool(
		"bind_directory",
		mcp.WithDescription("Merge a directory of tax documents into one bookmarked PDF"),
		mcp.WithString("output",
			mcp.Required(),
			mcp.Description("Path of the PDF to write"),
		),
		mcp.WithString("directory",
			mcp.Description("Directory of input documents (defaults to the configured directory)"),
		),
		mcp.WithString("manifest",
			mcp.Description("Optional path for a YAML manifest of the outline"),
		),
	)
	s.mcpServer.AddTool(bindTool, s.handleBindDirectory)
}

func (s *Server) handleClassifyText(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.formatClassification(text)), nil
}

func (s *Server) handleOutlineDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	directory := s.directory(request)
	report, err := s.binder.Run(ctx, directory, filepath.Join(filepath.Dir(directory), "binder.pdf"), pipeline.RunOptions{DryRun: true})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.formatReport(directory, report, false)), nil
}

func (s *Server) handleBindDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	output, err := request.RequireString("output")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	manifest := ""
	if m, ok := request.GetArguments()["manifest"].(string); ok {
		manifest = m
	}

	directory := s.directory(request)
	report, err := s.binder.Run(ctx, directory, output, pipeline.RunOptions{Manifest: manifest})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.formatReport(directory, report, true)), nil
}

// directory returns the requested directory or the configured default
func (s *Server) directory(request mcp.CallToolRequest) string {
	if dir, ok := request.GetArguments()["directory"].(string); ok && dir != "" {
		return dir
	}
	return s.config.InputDirectory
}

// Formatting methods

func (s *Server) formatClassification(text string) string {
	res, rule := s.classifier.Explain(text)

	out := "Classification\n"
	out += fmt.Sprintf("Category: %s\n", res.Category)
	out += fmt.Sprintf("Form type: %s\n", res.FormType)
	out += fmt.Sprintf("Rule: %s\n", rule)
	if title, ok := s.resolvers.Resolve(res.FormType, text); ok {
		out += fmt.Sprintf("Title: %s\n", title)
	}
	if acct := classify.AccountNumber(text); acct != "" {
		out += fmt.Sprintf("Account: %s\n", acct)
	}
	if labels := classify.ClassifyMulti(text); len(labels) > 0 {
		out += fmt.Sprintf("Forms on page: %s\n", strings.Join(labels, ", "))
	}
	return out
}

func (s *Server) formatReport(directory string, report *pipeline.Report, written bool) string {
	sum := report.Plan.Summary

	out := fmt.Sprintf("Tax document binder for: %s\n", directory)
	out += fmt.Sprintf("Run: %s\n", report.Plan.RunID)
	out += fmt.Sprintf("Documents: %d (rejected %d, duplicate files %d)\n", sum.Documents, sum.Rejected, sum.DuplicateFiles)
	out += fmt.Sprintf("Pages: %d in, %d out\n", sum.InputPages, sum.OutputPages)
	out += fmt.Sprintf("Duplicate pages: %d\n", sum.DuplicatePages)
	out += fmt.Sprintf("Unused pages: %d\n", sum.UnusedPages)
	out += fmt.Sprintf("Bookmarks: %d\n", sum.Bookmarks)
	if written {
		out += fmt.Sprintf("Output: %s\n", report.Output)
		if report.Moved {
			out += "Note: output was inside the input directory and was written next to it\n"
		}
		if report.Manifest != "" {
			out += fmt.Sprintf("Manifest: %s\n", report.Manifest)
		}
	}
	if tree := outline.Format(report.Plan.Root); tree != "" {
		out += "\nOutline:\n" + tree
	}
	return out
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	s.logger.Debug("starting MCP server in stdio mode", "dir", s.config.InputDirectory)

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over SSE until ctx is cancelled
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting MCP server", "addr", addr, "dir", s.config.InputDirectory)
		errCh <- sse.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
		if err := sse.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}
