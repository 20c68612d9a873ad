// Command captiongen writes SRT, VTT, and TSV captions next to a video file.
//
//	captiongen <path_to_video_file>
//
// The transcription runs through an external Whisper engine launched with
// uvx. Subcommands cover configuration (config init, config validate),
// environment checks (doctor) and build information (version).
package main
