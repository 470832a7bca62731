package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"verity/internal/store"
)

var titleCaser = cases.Title(language.English)

func displayKind(kind store.MediaKind) string {
	return titleCaser.String(string(kind))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// truncate shortens value to at most max runes, never splitting a
// multi-byte character.
func truncate(value string, max int) string {
	runes := []rune(value)
	if max <= 3 || len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}

func printFactCheck(cmd *cobra.Command, record *store.FactCheck, comments []*store.Comment) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Record #%d  (%s, %s)\n", record.ID, displayKind(record.MediaKind), formatTime(record.CreatedAt))
	fmt.Fprintf(out, "Source: %s\n", record.SourcePath)
	if record.ExtractedText != "" {
		fmt.Fprintf(out, "\nExtracted text:\n%s\n", record.ExtractedText)
	}
	fmt.Fprintf(out, "\nVerdict:\n%s\n", record.VerdictText)

	if len(record.Citations) > 0 {
		fmt.Fprintf(out, "\nSources:\n")
		for i, citation := range record.Citations {
			fmt.Fprintf(out, "  %d. %s — %s\n", i+1, citation.Title, citation.URL)
			if citation.Snippet != "" {
				fmt.Fprintf(out, "     %s\n", truncate(citation.Snippet, 120))
			}
		}
	}

	if len(comments) > 0 {
		fmt.Fprintf(out, "\nComments:\n")
		for _, comment := range comments {
			fmt.Fprintf(out, "  [%s] %s: %s\n", formatTime(comment.CreatedAt), comment.AuthorEmail, comment.Body)
		}
	}
}

func factCheckRows(records []*store.FactCheck) [][]string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.FormatInt(record.ID, 10),
			displayKind(record.MediaKind),
			truncate(record.SourcePath, 40),
			truncate(record.VerdictText, 60),
			strconv.Itoa(len(record.Citations)),
			formatTime(record.CreatedAt),
		})
	}
	return rows
}
