package fetch

import (
	"context"
	"strings"
)

// Passage describes the text location a stemma belongs to.
type Passage struct {
	ID      int    `json:"pass_id"`
	Label   string `json:"hr"`
	Reading string `json:"reading,omitempty"`
}

// Title returns a display title such as "Acts 1:1/2 (a)".
func (p *Passage) Title() string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.TrimSpace(p.Label))
	if p.Reading != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString("(" + p.Reading + ")")
	}
	return b.String()
}

// FetchPassage fetches and decodes passage metadata.
func FetchPassage(ctx context.Context, f Fetcher, source string) (*Passage, error) {
	var p Passage
	if err := JSON(ctx, f, source, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
