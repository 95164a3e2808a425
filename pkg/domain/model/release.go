package model

// ReleaseAsset is a downloadable file attached to a release
type ReleaseAsset struct {
	Name string // Asset file name
	URL  string // Browser download URL
}

// Release represents the latest published release of a project
type Release struct {
	TagName string
	Name    string
	Assets  []ReleaseAsset
}

// ReleaseResolution is the outcome of resolving the package download URL.
// FallbackUsed is true when URL is the fixed fallback and not an asset of the
// latest release.
type ReleaseResolution struct {
	URL          string `json:"url"`
	AssetName    string `json:"asset_name,omitempty"`
	TagName      string `json:"tag_name,omitempty"`
	FallbackUsed bool   `json:"fallback_used"`
	Reason       string `json:"reason,omitempty"` // Why the fallback was used
}
