package internal

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the MCP server and application dependencies
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(app *App) *MCPServer {
	mcpServer := server.NewMCPServer(
		"vidrag-server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
	}

	// Register tools
	s.registerTools()

	return s
}

// registerTools registers all available MCP tools
func (s *MCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("process_video",
		mcp.WithDescription("Extract the transcript of a YouTube video or playlist and make it searchable. Already-processed videos are skipped, so calling this repeatedly is safe."),
		mcp.WithString("url",
			mcp.Description("YouTube video or playlist URL"),
			mcp.Required(),
		),
	), s.handleProcessVideo)

	s.mcpServer.AddTool(mcp.NewTool("ask_question",
		mcp.WithDescription("Answer a question from processed video transcripts. Provide video_id to ask about one specific video; omit it to search across all processed videos (corpus mode only)."),
		mcp.WithString("question",
			mcp.Description("The question to answer"),
			mcp.Required(),
		),
		mcp.WithString("video_id",
			mcp.Description("Optional YouTube video ID to scope the question to"),
		),
	), s.handleAskQuestion)

	s.mcpServer.AddTool(mcp.NewTool("list_videos",
		mcp.WithDescription("List all processed videos with their transcript and embedding status."),
	), s.handleListVideos)
}

// handleProcessVideo implements the process_video tool
func (s *MCPServer) handleProcessVideo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}

	MCPLogInfo("process_video %s", url)

	videoID, err := s.app.ProcessArg(ctx, url, ProcessOptions{})
	if err != nil {
		MCPLogError("process_video %s: %v", url, err)
		return mcp.NewToolResultErrorFromErr("processing failed", err), nil
	}

	msg := "Playlist processed."
	if videoID != "" {
		msg = fmt.Sprintf("Video %s processed.", videoID)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(msg)},
	}, nil
}

// handleAskQuestion implements the ask_question tool
func (s *MCPServer) handleAskQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question parameter is required and must be a string"), nil
	}
	videoID := request.GetString("video_id", "")

	MCPLogInfo("ask_question %q (video %q)", question, videoID)

	qa, err := s.app.QAForMode(videoID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("question setup failed", err), nil
	}

	answer, err := qa.Answer(ctx, question)
	if err != nil {
		MCPLogError("ask_question: %v", err)
		return mcp.NewToolResultErrorFromErr("answering failed", err), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(answer)},
	}, nil
}

// handleListVideos implements the list_videos tool
func (s *MCPServer) handleListVideos(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records, err := s.app.ListVideos()
	if err != nil {
		return mcp.NewToolResultErrorFromErr("listing failed", err), nil
	}

	if len(records) == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent("No videos processed yet.")},
		}, nil
	}

	var buf strings.Builder
	for _, record := range records {
		buf.WriteString(fmt.Sprintf("%s  %s  transcript=%t embedded=%t\n",
			record.VideoID, record.Title,
			record.Status.TranscriptExtracted, record.Status.Embedded))
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
	}, nil
}

// Start starts the MCP server using the specified transport
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httpServer.Start(addr)
	}

	// Default to stdio transport
	return server.ServeStdio(s.mcpServer)
}
