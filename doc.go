// Package watermark removes the fixed bottom-right overlay watermark that
// AI image generators stamp onto their output.
//
// The watermark square's placement is a pure function of the image
// dimensions, so removal needs no detection pass: the engine resolves the
// region, synthesizes replacement content from the surrounding pixels and
// the embedded logo alpha map, and splices the patch into a fresh copy of
// the source. Everything runs in memory; no network or GPU is required.
package watermark
