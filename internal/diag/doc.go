// Package diag renders located errors against the source they came from:
// a header with the message, the offending line with a gutter, and a caret
// under the reported column followed by the set of expected tokens.
package diag
