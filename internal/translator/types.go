package translator

// Batch request body for the document translation service. Source and target
// point at the same container; the service writes translated documents next
// to the originals.
type BatchRequest struct {
	Inputs []BatchInput `json:"inputs"`
}

type BatchInput struct {
	Source  BatchSource   `json:"source"`
	Targets []BatchTarget `json:"targets"`
}

type BatchSource struct {
	SourceURL string `json:"sourceUrl"`
}

type BatchTarget struct {
	TargetURL string `json:"targetUrl"`
	Language  string `json:"language"`
}

// NewBatchRequest builds the single-input request the service expects, one
// target entry per language.
func NewBatchRequest(containerURL string, languages []string) BatchRequest {
	targets := make([]BatchTarget, 0, len(languages))
	for _, lang := range languages {
		targets = append(targets, BatchTarget{TargetURL: containerURL, Language: lang})
	}
	return BatchRequest{
		Inputs: []BatchInput{{
			Source:  BatchSource{SourceURL: containerURL},
			Targets: targets,
		}},
	}
}

// JobStatus is one observation of a batch job. Raw keeps the full upstream
// document so check-status can expose it untouched.
type JobStatus struct {
	Status string
	Raw    map[string]any
}
