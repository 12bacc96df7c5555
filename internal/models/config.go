package models

// GenerateConfig contains the resolved configuration for one generate run
type GenerateConfig struct {
	// Input
	ZipURL    string
	LocalFile string

	// Output
	OutputDir  string
	PreRelease bool

	// Validation
	OSName string
	Strict bool // Abort when the archive is not a flashable zip

	// Signing
	GPGKeyPath    string
	GPGPassphrase string
	ExportKey     bool // Also write the signing public key as <device>.pub

	// Config file path, empty for the default search
	ConfigFile string
}
