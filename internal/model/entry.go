package model

// RawLine is a single unparsed line read from an input file.
type RawLine struct {
	Text   string `json:"text"`
	Source string `json:"source"` // originating file path
	Number int    `json:"number"` // 1-based line number within Source

	// Truncated is set when the line was longer than the reader's limit.
	// Text then holds only the leading bytes.
	Truncated bool `json:"truncated,omitempty"`
}

// LogLine represents the fields extracted from one access log line.
type LogLine struct {
	Address  string `json:"address"`  // client address, verbatim
	Endpoint string `json:"endpoint"` // requested path, verbatim
	Status   string `json:"status"`   // status code as text
}
