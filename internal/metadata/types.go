package metadata

// microlinkResponse is the subset of the microlink API response we read.
type microlinkResponse struct {
	Status string        `json:"status"`
	Data   microlinkData `json:"data"`
}

type microlinkData struct {
	URL         string          `json:"url"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Image       *microlinkAsset `json:"image"`
	Logo        *microlinkAsset `json:"logo"`
}

type microlinkAsset struct {
	URL string `json:"url"`
}

func (a *microlinkAsset) url() string {
	if a == nil {
		return ""
	}
	return a.URL
}
