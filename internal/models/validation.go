package models

// ValidationOutcome is the final verdict on an uploaded image. Validity is
// binary: when Valid is false only Reason is meaningful, when true the
// detected media type, dimensions and byte size are filled in.
type ValidationOutcome struct {
	Valid        bool   `json:"valid"`
	Reason       string `json:"reason,omitempty"`
	DetectedMime string `json:"detected_mime,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	ByteSize     int64  `json:"byte_size,omitempty"`
}
