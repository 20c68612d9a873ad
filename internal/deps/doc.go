// Package deps checks that the external binaries captiongen shells out to
// (uvx, ffmpeg, ffprobe) can be resolved from PATH.
package deps
