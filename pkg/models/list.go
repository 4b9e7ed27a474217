package models

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

const maxDescriptionLen = 100

// WriteIDs prints the compact listing, one sorted model ID per line.
func WriteIDs(w io.Writer, catalog []Model) {
	ids := make([]string, 0, len(catalog))
	for _, m := range catalog {
		ids = append(ids, m.ID)
	}

	sort.Strings(ids)

	fmt.Fprintln(w, strings.Join(ids, "\n"))
}

// WriteDetails prints the detailed listing: name, context length, pricing
// normalized to dollars per 1000 tokens, and a truncated description.
func WriteDetails(w io.Writer, catalog []Model) {
	sorted := make([]Model, len(catalog))
	copy(sorted, catalog)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, m := range sorted {
		fmt.Fprintln(w, m.ID)
		if m.Name != "" {
			fmt.Fprintf(w, "  Name:    %s\n", m.Name)
		}
		fmt.Fprintf(w, "  Context: %d tokens\n", m.ContextLength)
		fmt.Fprintf(w, "  Pricing: %s prompt, %s completion\n",
			perThousand(m.Pricing.Prompt), perThousand(m.Pricing.Completion))
		if m.Description != "" {
			fmt.Fprintf(w, "  %s\n", truncate(m.Description, maxDescriptionLen))
		}
		fmt.Fprintln(w, strings.Repeat("-", 80))
	}
}

// perThousand converts a per-token decimal price string to a per-1K figure.
func perThousand(price string) string {
	v, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return "n/a"
	}

	return fmt.Sprintf("$%.6g/1K", v*1000)
}

// truncate cuts s down to max runes, ellipsis included.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	return string(runes[:max-3]) + "..."
}
