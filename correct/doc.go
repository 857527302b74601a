// Package correct adapts the hybrid index for near-real-time transcript
// correction.
//
// The Corrector consumes sliding windows of transcript tokens from an
// external transcription pipeline and replaces tokens that are close to
// a known term but not themselves known. Replacement is gated twice: the
// top candidate's fused score must reach an acceptance threshold, and it
// must lead the runner-up by a margin. Every replacement is recorded in
// an audit list alongside the corrected window.
package correct
