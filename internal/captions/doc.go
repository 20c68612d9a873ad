// Package captions turns one media file into sibling caption files.
//
// Generator.Run is the whole pipeline: it checks that the source exists,
// takes a per-source run lock, loads the configured model, transcribes the
// file and exports SRT, VTT, and TSV in that order next to the input. Each
// failure class is tagged with a services marker so the CLI can report it.
// Exports are not rolled back: a failure on the second format leaves the
// first file in place and never creates the third.
//
// When the transcript cache is enabled a previous result for byte-identical
// media is reused and the model is never loaded.
package captions
