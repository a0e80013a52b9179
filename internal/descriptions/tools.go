package descriptions

import "sort"

// Tool names exposed by the MCP server
const (
	ToolExtractFile     = "spec_extract_file"
	ToolExtractText     = "spec_extract_text"
	ToolSearchDirectory = "spec_search_directory"
	ToolServerInfo      = "spec_server_info"
)

const (
	SpecExtractFileDescription = `Extract a structured product record from a specification sheet.

**When to use:** A supplier or product spec sheet (PDF, HTML, XLSX or markdown) needs to become structured data.

**What you get:** The product record as JSON (name, botanical name, origin country, processing, packaging, microbiology, declaration) plus the key/value pairs it was mapped from.

**Examples:**
• "Extract the product data from sheets/black-tea-assam.pdf"
• "Process rooibos.xlsx and save the results next to the file" (persist=true)

**Best practices:** Run spec_search_directory first to find sheets. Use persist only when the raw markdown and JSON files should be written next to the document.`

	SpecExtractTextDescription = `Map already extracted sheet text into a product record.

**When to use:** The sheet content is available as text or markdown, for example pasted by the user or converted elsewhere.

**What you get:** The same record and key/value pairs as spec_extract_file. Nothing is written to disk.

**Examples:**
• "Here is the text of a spec sheet, give me the structured data"
• "Check which fields the mapper recognises in this table"`

	SpecSearchDirectoryDescription = `List specification sheets in a directory.

**When to use:** Discover documents before extracting them.

**What you get:** Matching documents with path, size and modification time. Files written by earlier extractions are left out.

**Examples:**
• "Find all spec sheets" (uses the configured directory)
• "Search for tea sheets in archive/ including subdirectories" (query=tea, recursive=true)`

	SpecServerInfoDescription = `Describe this server: configured directory, supported formats, available tools and the documents currently found.

**When to use:** At the start of a session to learn what the server can do.`
)

// ToolInfo describes one tool for the server info report
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}

var tools = map[string]ToolInfo{
	ToolExtractFile: {
		Name:        ToolExtractFile,
		Description: SpecExtractFileDescription,
		Usage:       "Convert a document and map it into a product record",
		Parameters:  "path (required): document path; persist (optional): write raw and JSON output files",
	},
	ToolExtractText: {
		Name:        ToolExtractText,
		Description: SpecExtractTextDescription,
		Usage:       "Map sheet text into a product record",
		Parameters:  "text (required): sheet text or markdown",
	},
	ToolSearchDirectory: {
		Name:        ToolSearchDirectory,
		Description: SpecSearchDirectoryDescription,
		Usage:       "Find documents by name",
		Parameters:  "directory (optional): defaults to the configured directory; query (optional); recursive (optional)",
	},
	ToolServerInfo: {
		Name:        ToolServerInfo,
		Description: SpecServerInfoDescription,
		Usage:       "Show server information",
		Parameters:  "none",
	},
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if tool, exists := tools[toolName]; exists {
		return tool.Description
	}
	return "Tool description not available"
}

// GetAllToolNames returns the tool names in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tools returns every tool in name order
func Tools() []ToolInfo {
	names := GetAllToolNames()
	out := make([]ToolInfo, 0, len(names))
	for _, name := range names {
		out = append(out, tools[name])
	}
	return out
}
