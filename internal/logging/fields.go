package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"

	// Provider fields.
	FieldProvider   = "provider"
	FieldModel      = "model"
	FieldEndpoint   = "endpoint"
	FieldEnvVar     = "env_var"
	FieldConfigured = "configured"
	FieldNotes      = "notes"

	// Review fields.
	FieldLanguage  = "language"
	FieldProposals = "proposals"
	FieldSession   = "session"
	FieldSeverity  = "severity"
	FieldCategory  = "category"
	FieldScore     = "score"

	// Session store fields.
	FieldCreated = "created"
	FieldKept    = "kept"
	FieldRemoved = "removed"

	// Configuration fields.
	FieldJobs     = "jobs"
	FieldDryRun   = "dry_run"
	FieldDebounce = "debounce"

	// Apply statistics fields.
	FieldApplied        = "applied"
	FieldNotFound       = "not_found"
	FieldSkippedOverlap = "skipped_overlap"
	FieldFailed         = "failed"

	// Run statistics fields.
	FieldFilesDiscovered    = "files_discovered"
	FieldFilesProcessed     = "files_processed"
	FieldFilesWithProposals = "files_with_proposals"
	FieldProposalsTotal     = "proposals_total"
	FieldFilesModified      = "files_modified"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
