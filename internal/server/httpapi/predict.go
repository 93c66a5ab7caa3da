package httpapi

import (
	"net/http"
	"path/filepath"
	"strings"
)

type prediction struct {
	PredictedClass string  `json:"predicted_class"`
	Confidence     float64 `json:"confidence"`
	Description    string  `json:"description,omitempty"`
}

// predict stands in for the recognition service. It guesses the artifact
// from the uploaded file name and never looks at the image.
func (h *Handler) predict(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Malformed form")
		return
	}
	name, ok := f.files["file"]
	if !ok {
		writeInvalid(w, map[string][]string{"file": {"file is required"}})
		return
	}

	stem := strings.ToLower(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)

	best := prediction{PredictedClass: "Unknown"}
	var bestHits int
	for _, a := range h.catalog.Artifacts(r.Context()) {
		words := strings.Fields(strings.ToLower(a.Title))
		hits := 0
		for _, word := range words {
			if strings.Contains(stem, word) {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			best = prediction{
				PredictedClass: a.Title,
				Confidence:     float64(hits) / float64(len(words)),
				Description:    a.Description,
			}
		}
	}

	writeJSON(w, http.StatusOK, best)
}
