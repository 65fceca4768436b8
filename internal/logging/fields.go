package logging

// Structured log keys shared by the commands and the graph observer.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"

	// Index settings.
	FieldSnapshot  = "snapshot"
	FieldGraphID   = "graph_id"
	FieldUnit      = "unit"
	FieldNormalize = "normalize"
	FieldStream    = "stream"
	FieldJobs      = "jobs"

	// Graph events.
	FieldVertex   = "vertex"
	FieldWidth    = "width"
	FieldPattern  = "pattern"
	FieldOffset   = "offset"
	FieldMemoized = "memoized"
	FieldTokens   = "tokens"

	// Ingest totals.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesIngested   = "files_ingested"
	FieldFilesSkipped    = "files_skipped"
	FieldUnitsIngested   = "units_ingested"
	FieldVertices        = "vertices"
	FieldVerticesAdded   = "vertices_added"

	// Build info.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
