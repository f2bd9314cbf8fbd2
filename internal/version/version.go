// ABOUTME: Version constants for the wavecut tool
// ABOUTME: Identifies the product in logs and the remote bridge handshake
package version

const (
	Product = "Wavecut Editor"
	Version = "0.2.0"
)
