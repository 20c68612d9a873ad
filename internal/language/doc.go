// Package language normalizes the transcription language hint.
//
// Users may configure a two-letter code, a three-letter code, a BCP 47 tag
// such as "pt-BR", or an English name; the engines only accept the ISO 639-1
// form, so every hint passes through ToISO2 before reaching a command line.
package language
