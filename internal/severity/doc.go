// Package severity defines the ranked levels used by the log pipeline.
//
// Ranks are plain integers and totally ordered. The built-in set extends the
// conventional levels with LOOP and TRACE below DEBUG and SUCCESS and API
// between INFO and WARNING. Additional pairs can be registered at runtime;
// registering an existing pair again is a no-op.
package severity
