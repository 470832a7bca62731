package citations

import (
	"encoding/json"
	"testing"
)

func TestNormalizeWalksSupportsAndDedupes(t *testing.T) {
	meta := json.RawMessage(`{
		"groundingChunks": [
			{"web": {"uri": "https://example.com/a", "title": "Example A"}},
			{"web": {"uri": "https://example.com/b", "title": ""}},
			{"web": {"uri": ""}}
		],
		"groundingSupports": [
			{"segment": {"text": "first claim"}, "groundingChunkIndices": [0, 1]},
			{"segment": {"text": "first claim"}, "groundingChunkIndices": [0]},
			{"segment": {"text": "out of range"}, "groundingChunkIndices": [7]}
		]
	}`)

	got := Normalize(meta, "ignored")
	if len(got) != 2 {
		t.Fatalf("expected 2 citations after dedupe, got %d: %+v", len(got), got)
	}
	if got[0].URL != "https://example.com/a" || got[0].Title != "Example A" || got[0].Snippet != "first claim" {
		t.Fatalf("unexpected first citation %+v", got[0])
	}
	if got[1].URL != "https://example.com/b" || got[1].Title != "Source" {
		t.Fatalf("expected placeholder title for untitled source, got %+v", got[1])
	}
}

func TestNormalizeFallsBackToChunkList(t *testing.T) {
	meta := json.RawMessage(`{
		"groundingChunks": [{"web": {"uri": "https://news.example.org/story", "title": "Story"}}]
	}`)

	got := Normalize(meta, "no urls here")
	if len(got) != 1 || got[0].URL != "https://news.example.org/story" {
		t.Fatalf("expected chunk-list fallback, got %+v", got)
	}
}

func TestNormalizeMalformedMetadataScansText(t *testing.T) {
	got := Normalize(json.RawMessage(`{"groundingChunks": "nope"`),
		"See https://factcheck.example.net/page and https://factcheck.example.net/page.")
	if len(got) != 1 {
		t.Fatalf("expected 1 deduped text citation, got %+v", got)
	}
	if got[0].URL != "https://factcheck.example.net/page" || got[0].Title != "Source" {
		t.Fatalf("unexpected citation %+v", got[0])
	}
}

func TestNormalizeNoSourcesYieldsEmptySlice(t *testing.T) {
	got := Normalize(nil, "no links in this verdict at all")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
