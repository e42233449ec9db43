package entities

// AudioUpload is an audio file received from the patient frontend
type AudioUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// TranscriptionResult is returned by the transcription endpoint
type TranscriptionResult struct {
	Transcription string `json:"transcription"`
	Fallback      bool   `json:"fallback,omitempty"`
	Message       string `json:"message,omitempty"`
}

// HealthStatus reports upstream provider connectivity
type HealthStatus struct {
	Status        string `json:"status"`
	Provider      string `json:"provider"`
	Model         string `json:"model"`
	Transcription string `json:"transcription"`
	Cache         string `json:"cache,omitempty"`
	Message       string `json:"message,omitempty"`
}
