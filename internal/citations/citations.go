package citations

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Citation is one normalized source reference attached to a verdict.
type Citation struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// placeholderTitle stands in when the provider gives a URI without a title.
const placeholderTitle = "Source"

var urlPattern = regexp.MustCompile(`https?://(?:[-\w.]|%[\da-fA-F]{2})+(?:/[^\s"'<>)\]]*)?`)

// groundingMetadata mirrors only the parts of the provider's grounding
// payload the normalizer cares about; everything else is ignored.
type groundingMetadata struct {
	GroundingChunks []struct {
		Web struct {
			URI   string `json:"uri"`
			Title string `json:"title"`
		} `json:"web"`
	} `json:"groundingChunks"`
	GroundingSupports []struct {
		Segment struct {
			Text string `json:"text"`
		} `json:"segment"`
		GroundingChunkIndices []int `json:"groundingChunkIndices"`
	} `json:"groundingSupports"`
}

// Normalize converts provider grounding metadata into citations. It never
// fails: malformed or absent metadata degrades to scanning the verdict text
// for bare URLs, and no sources at all yields an empty slice. Duplicates are
// dropped, keeping first-seen order.
func Normalize(meta json.RawMessage, responseText string) []Citation {
	found := fromMetadata(meta)
	if len(found) == 0 {
		found = fromText(responseText)
	}
	return dedupe(found)
}

func fromMetadata(meta json.RawMessage) []Citation {
	if len(meta) == 0 {
		return nil
	}
	var parsed groundingMetadata
	if err := json.Unmarshal(meta, &parsed); err != nil {
		return nil
	}

	var out []Citation
	// Supports carry the response segment each source backs, which makes a
	// better snippet than anything reconstructible later.
	for _, support := range parsed.GroundingSupports {
		for _, idx := range support.GroundingChunkIndices {
			if idx < 0 || idx >= len(parsed.GroundingChunks) {
				continue
			}
			if c, ok := chunkCitation(parsed, idx, support.Segment.Text); ok {
				out = append(out, c)
			}
		}
	}
	if len(out) > 0 {
		return out
	}
	// No support mapping; fall back to the chunk list itself.
	for idx := range parsed.GroundingChunks {
		if c, ok := chunkCitation(parsed, idx, ""); ok {
			out = append(out, c)
		}
	}
	return out
}

func chunkCitation(parsed groundingMetadata, idx int, snippet string) (Citation, bool) {
	web := parsed.GroundingChunks[idx].Web
	uri := strings.TrimSpace(web.URI)
	if uri == "" {
		return Citation{}, false
	}
	title := strings.TrimSpace(web.Title)
	if title == "" {
		title = placeholderTitle
	}
	return Citation{Title: title, URL: uri, Snippet: strings.TrimSpace(snippet)}, true
}

func fromText(responseText string) []Citation {
	var out []Citation
	for _, url := range urlPattern.FindAllString(responseText, -1) {
		url = strings.TrimRight(url, ".,;:")
		out = append(out, Citation{Title: placeholderTitle, URL: url})
	}
	return out
}

func dedupe(in []Citation) []Citation {
	if len(in) == 0 {
		return []Citation{}
	}
	seen := make(map[Citation]struct{}, len(in))
	out := make([]Citation, 0, len(in))
	for _, c := range in {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
