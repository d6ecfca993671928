package sectors

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/marketbrief/internal/common"
	"github.com/ternarybob/marketbrief/internal/models"
)

// extractSectors parses the scraped container HTML into sector records.
// This is the single extraction path shared by the sync and async entry
// points. Extraction is per-field tolerant: a missing sub-element yields an
// empty string (nil for breadth counts) for that field only. A block with
// no name has no merge identity and is skipped.
func extractSectors(html string, sel common.SectorSelectors, limit int, logger arbor.ILogger) ([]models.SectorRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	records := make([]models.SectorRecord, 0, limit)
	doc.Find(sel.Item).EachWithBreak(func(i int, item *goquery.Selection) bool {
		if len(records) >= limit {
			return false
		}

		record := extractSectorItem(item, sel)
		if record.Name == "" {
			if logger != nil {
				logger.Debug().Int("index", i).Msg("Skipping sector block without a name")
			}
			return true
		}

		records = append(records, record)
		return true
	})

	return records, nil
}

// extractSectorItem pulls every field of one sector block independently
func extractSectorItem(item *goquery.Selection, sel common.SectorSelectors) models.SectorRecord {
	record := models.SectorRecord{
		Name:       nodeText(item, sel.Name),
		LeaderName: nodeText(item, sel.LeaderName),
	}

	// First change text is the sector move; the last of two or more is the
	// leading stock's move.
	changes := nodeTexts(item, sel.Change)
	if len(changes) > 0 {
		record.ChangePct = changes[0]
	}
	if len(changes) > 1 {
		record.LeaderChangePct = changes[len(changes)-1]
	}

	// Breadth counts: first node advances, last declines, the distinctly
	// classed node is the unchanged count and is excluded from the
	// advance/decline reads so a flat count is never reported as declining.
	breadth := breadthTexts(item, sel)
	if len(breadth) > 0 {
		record.UpCount = parseCount(breadth[0])
	}
	if len(breadth) > 1 {
		record.DownCount = parseCount(breadth[len(breadth)-1])
	}
	if sel.BreadthUnchanged != "" {
		record.UnchangedCount = parseCount(nodeText(item, sel.BreadthUnchanged))
	}

	return record
}

// breadthTexts returns the up/down breadth texts in document order, with
// nodes matching the unchanged selector filtered out
func breadthTexts(item *goquery.Selection, sel common.SectorSelectors) []string {
	if sel.Breadth == "" {
		return nil
	}

	nodes := item.Find(sel.Breadth)
	if sel.BreadthUnchanged != "" {
		nodes = nodes.Not(sel.BreadthUnchanged)
	}

	var texts []string
	nodes.Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(s.Text()))
	})
	return texts
}

// nodeText returns the trimmed text of the first match, or ""
func nodeText(item *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(item.Find(selector).First().Text())
}

// nodeTexts returns the trimmed texts of all matches in document order
func nodeTexts(item *goquery.Selection, selector string) []string {
	if selector == "" {
		return nil
	}

	var texts []string
	item.Find(selector).Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(s.Text()))
	})
	return texts
}

// parseCount parses a breadth text as an integer. Absent or non-numeric
// values yield nil, never an error.
func parseCount(text string) *int {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	n, err := strconv.Atoi(text)
	if err != nil {
		return nil
	}
	return &n
}
