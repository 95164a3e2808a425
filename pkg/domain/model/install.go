package model

// ExtractResult represents the result of unpacking the package archive
type ExtractResult struct {
	Directory string   `json:"directory"`
	Files     []string `json:"files"` // Extracted entry names
	Size      int64    `json:"size"`  // Total uncompressed size in bytes
}

// InstallResult represents the result of copying the payload into a game directory.
// On failure it lists the files copied before the error.
type InstallResult struct {
	GameName    string   `json:"game_name"`
	Source      string   `json:"source"` // Payload root
	Destination string   `json:"destination"`
	Copied      []string `json:"copied"` // Paths relative to Destination
}
