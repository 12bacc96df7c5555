package models

// Maintainer is one entry of the maintainers list
type Maintainer struct {
	MainMaintainer bool   `json:"main_maintainer" mapstructure:"main_maintainer"`
	GithubUsername string `json:"github_username" mapstructure:"github_username"`
	Name           string `json:"name" mapstructure:"name"`
}

// DeviceRecord is the OTA metadata consumed by the update-check service.
// Field order matches the serialized JSON.
type DeviceRecord struct {
	Error       bool         `json:"error"`
	Version     string       `json:"version"`
	Maintainers []Maintainer `json:"maintainers"`
	DonateURL   string       `json:"donate_url"`
	WebsiteURL  string       `json:"website_url"`
	NewsURL     string       `json:"news_url"`

	// Populated per build
	Datetime int64  `json:"datetime"`
	Filename string `json:"filename"`
	ID       string `json:"id"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
	FileHash string `json:"filehash"`
}

// BuildInfo holds the fields encoded in an archive filename:
// OS_device-version-YYYYMMDD-HHMM-buildtype.zip
type BuildInfo struct {
	Filename  string
	OSName    string
	Device    string
	Version   string
	Date      string
	Time      string
	BuildType string
}
