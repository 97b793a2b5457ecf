package semconv

// Command
const (
	// Name of the CLI command being executed.
	Command = "command"
)

// Compilation
const (
	// Path of the source file being compiled. Empty for stdin and inline expressions.
	SourcePath = "source_path"

	// Path the generated code was written to.
	OutputPath = "output_path"

	// Pipeline stage that produced a log line or failed.
	Stage = "stage"

	// Stage of the compileerr error kind (lex, parse, gen).
	ErrorKind = "error_kind"

	// Number of tokens produced by the lexer.
	TokenCount = "token_count"

	// Number of top level statements in a program.
	StatementCount = "statement_count"
)

// Server
const (
	// Unique ID of a websocket connection. A connection may carry many requests.
	ConnectionID = "connection_id"

	// Unique ID of a single compile request sent over a connection.
	RequestID = "request_id"
)
