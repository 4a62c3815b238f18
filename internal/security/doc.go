// Package security provides the path sandbox that every filesystem tool
// validates against.
//
// # Overview
//
// The validator prevents path traversal attacks (CWE-22): a tool caller may
// hand us any string, and the only paths that pass validation are the ones
// that resolve to a location at or under the configured base directory.
//
//	pathVal, err := security.NewPath("/srv/data")
//	safe, err := pathVal.Validate(userInput)
//	if err != nil {
//	    // errors.Is(err, security.ErrAccessDenied) for containment failures
//	}
//
// Two classic escape routes are closed explicitly:
//
//   - Sibling-prefix escape: containment is a separator-appended prefix
//     test, so with base /data a candidate /data2/secret is rejected even
//     though the plain string prefix matches.
//   - Symlink escape: after the lexical check the candidate is resolved
//     with filepath.EvalSymlinks and the real path is re-checked, so a link
//     inside the sandbox pointing outside it is rejected.
//
// # Design Philosophy
//
//   - Fail-secure: when in doubt, deny access
//   - Clear errors: containment failures name the offending path and the base
//   - Zero configuration: a base directory is all it takes
package security
