// Package corpus loads the handbook passage corpus and prepares it for
// indexing: quality filtering, content normalization, quality scoring,
// and category assignment.
package corpus

import "encoding/json"

// Metadata carries provenance for a chunk. Page is the handbook page
// the passage came from; unknown keys in the source document are kept
// verbatim so they survive a round trip.
type Metadata struct {
	Page  int
	Extra map[string]json.RawMessage
}

// UnmarshalJSON decodes the page field and preserves everything else
// opaquely.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if pageRaw, ok := raw["page"]; ok {
		if err := json.Unmarshal(pageRaw, &m.Page); err != nil {
			return err
		}
		delete(raw, "page")
	}
	if len(raw) > 0 {
		m.Extra = raw
	}
	return nil
}

// MarshalJSON re-emits the page alongside any preserved fields.
func (m Metadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+1)
	for k, v := range m.Extra {
		out[k] = v
	}
	out["page"] = m.Page
	return json.Marshal(out)
}

// Chunk is one indexed passage. ID is an opaque stable identifier
// assigned at load time; all downstream deduplication keys on it.
type Chunk struct {
	ID       string   `json:"id"`
	Original string   `json:"original"`
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
	Quality  float64  `json:"quality"`
	Category string   `json:"category"`
}

// rawChunk mirrors the on-disk corpus document.
type rawChunk struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}
