package domain

// LandmarkAnalysis is the structured answer of an image classification call.
type LandmarkAnalysis struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	HistoricalFacts []string `json:"historicalFacts"`
	SafetyTips      []string `json:"safetyTips"`
}

// Image is a single still image supplied by the file picker.
type Image struct {
	Data     []byte
	MIMEType string
}
