package types

import "errors"

// Error kinds per the error-handling design. Most are swallowed deep in the
// pipeline and never reach a caller; the ones that do are typed so the CLI
// and MCP collaborators can decide on an exit code or a response shape
// without string-matching error text.
var (
	// ErrUnsupportedExtension: no grammar registered for the file's
	// extension. Never surfaced past C2 — the file is skipped.
	ErrUnsupportedExtension = errors.New("sgi: unsupported file extension")

	// ErrParse / ErrQuery: grammar or query execution failed for one file.
	// Swallowed at C2; the file contributes no symbols.
	ErrParse = errors.New("sgi: parse error")
	ErrQuery = errors.New("sgi: query error")

	// ErrIO: unreadable file or missing directory.
	ErrIO = errors.New("sgi: io error")

	// ErrCacheCorrupt: persisted document unparsable or wrong version.
	ErrCacheCorrupt = errors.New("sgi: cache corrupt")

	// ErrUnknownFile: query referenced a file absent from the graph.
	ErrUnknownFile = errors.New("sgi: unknown file")

	// ErrUnknownSymbol: query referenced a symbol name with no definition.
	ErrUnknownSymbol = errors.New("sgi: unknown symbol")

	// ErrVCSUnavailable: the version-control collaborator failed or timed out.
	ErrVCSUnavailable = errors.New("sgi: vcs unavailable")

	// ErrUsage: invalid operator parameter.
	ErrUsage = errors.New("sgi: usage error")
)
