// Package preflight provides readiness checks for the directories, external
// binaries, and model weights captiongen depends on.
//
// The "captiongen doctor" command renders these results. A regular caption
// run does not call them, so a missing optional tool never blocks it.
package preflight
