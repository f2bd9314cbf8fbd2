// ABOUTME: Package doc for silence detection and removal
// ABOUTME: Describes the threshold/minimum-run model
// Package silence detects and strips low-amplitude runs from sample buffers.
//
// Detection streams a per-frame peak amplitude over the buffer and reports
// every run that stays at or below a normalized threshold for a minimum
// number of frames. Removal copies the complement of those runs into a new
// exactly-sized buffer, leaving the input untouched.
package silence
