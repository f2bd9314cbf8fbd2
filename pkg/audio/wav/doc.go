// ABOUTME: Package doc for the WAV codec
// ABOUTME: Describes supported formats and conversion behavior
// Package wav reads and writes PCM WAV files for the editor.
//
// Decode loads a whole file into an audio.Buffer, converting 16-bit or
// 24-bit samples to the module's 24-bit aligned working representation in
// bounded chunks. Encode writes a Buffer back out at its native bit depth.
// Compressed or other-width WAV variants fail with audio.ErrFormat.
package wav
