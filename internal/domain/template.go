package domain

// TemplateAsset describes the release asset chosen for download.
type TemplateAsset struct {
	// Filename is the asset name, for example spec-kit-template-claude-sh-v0.1.0.zip.
	Filename string `json:"filename"`

	// SizeBytes is the size advertised by the release listing.
	SizeBytes int64 `json:"size"`

	// ReleaseTag is the tag of the release the asset belongs to.
	ReleaseTag string `json:"release"`

	// DownloadURL is the browser download URL of the asset.
	DownloadURL string `json:"asset_url"`
}

// InstallTarget is the directory templates are installed into.
type InstallTarget struct {
	// Path is the absolute destination directory.
	Path string

	// IsCurrentDir selects merge semantics: the target already exists and is
	// merged into instead of created.
	IsCurrentDir bool
}
