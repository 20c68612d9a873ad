// Package fileutil holds content hashing and atomic write helpers shared by
// the caption exporters and the transcript cache.
package fileutil
