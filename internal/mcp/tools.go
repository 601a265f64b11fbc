package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var statusNames = []string{"new", "rejected", "interview", "training", "working"}

var listToolDef = mcp.NewTool("application_list",
	mcp.WithDescription("List application summaries, newest first. Filter by referrer_id to see one operator's referrals (0 = organic)."),
	mcp.WithNumber("referrer_id", mcp.Description("Operator id credited for the referral; 0 selects organic applications")),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Rows to skip")),
)

var fetchToolDef = mcp.NewTool("application_fetch",
	mcp.WithDescription("Fetch the full record of one application."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Application id")),
)

var setStatusToolDef = mcp.NewTool("application_set_status",
	mcp.WithDescription("Overwrite the status of an application."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Application id")),
	mcp.WithString("status", mcp.Required(), mcp.Enum(statusNames...), mcp.Description("New status")),
)

var deleteToolDef = mcp.NewTool("application_delete",
	mcp.WithDescription("Permanently delete an application. The submitter may apply again afterwards."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Application id")),
	mcp.WithBoolean("confirm", mcp.Required(), mcp.Description("Must be true")),
)

var exportToolDef = mcp.NewTool("application_export",
	mcp.WithDescription("Export applications to a JSONL file. Defaults to the exports directory under the scout home."),
	mcp.WithString("path", mcp.Description("Destination .jsonl path")),
	mcp.WithNumber("referrer_id", mcp.Description("Only export this operator's referrals (0 = organic)")),
)
