package sectors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/marketbrief/internal/common"
)

func testSelectors() common.SectorSelectors {
	return common.SectorSelectors{
		Container:        "div.concepts-list",
		Item:             "li.list-item",
		Name:             "a.plate-name",
		Change:           "span.change-ratio",
		LeaderName:       "a.stock-name",
		Breadth:          "span.updown-num",
		BreadthUnchanged: "span.updown-num.flat",
	}
}

const fullItemHTML = `
<div class="concepts-list"><ul>
  <li class="list-item">
    <a class="plate-name">Technology</a>
    <span class="change-ratio">+1.2%</span>
    <a class="stock-name">NVDA</a>
    <span class="change-ratio">+3.4%</span>
    <span class="updown-num">120</span>
    <span class="updown-num flat">15</span>
    <span class="updown-num">40</span>
  </li>
  <li class="list-item">
    <a class="plate-name">Healthcare</a>
    <span class="change-ratio">-0.8%</span>
    <a class="stock-name">PFE</a>
    <span class="change-ratio">-2.1%</span>
    <span class="updown-num">55</span>
    <span class="updown-num flat">9</span>
    <span class="updown-num">88</span>
  </li>
</ul></div>`

func TestExtractSectorsFullItems(t *testing.T) {
	records, err := extractSectors(fullItemHTML, testSelectors(), 10, common.GetLogger())
	require.NoError(t, err)
	require.Len(t, records, 2)

	tech := records[0]
	assert.Equal(t, "Technology", tech.Name)
	assert.Equal(t, "+1.2%", tech.ChangePct)
	assert.Equal(t, "NVDA", tech.LeaderName)
	assert.Equal(t, "+3.4%", tech.LeaderChangePct)
	require.NotNil(t, tech.UpCount)
	assert.Equal(t, 120, *tech.UpCount)
	require.NotNil(t, tech.UnchangedCount)
	assert.Equal(t, 15, *tech.UnchangedCount)
	require.NotNil(t, tech.DownCount)
	assert.Equal(t, 40, *tech.DownCount)

	assert.Equal(t, "Healthcare", records[1].Name)
	assert.Equal(t, "-0.8%", records[1].ChangePct)
}

func TestExtractSectorsPartialItem(t *testing.T) {
	// Name, two change texts and a leader but no breadth nodes at all.
	html := `
<div class="concepts-list"><ul>
  <li class="list-item">
    <a class="plate-name">Technology</a>
    <span class="change-ratio">+1.2%</span>
    <a class="stock-name">NVDA</a>
    <span class="change-ratio">+3.4%</span>
  </li>
</ul></div>`

	records, err := extractSectors(html, testSelectors(), 10, common.GetLogger())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Technology", rec.Name)
	assert.Equal(t, "+1.2%", rec.ChangePct)
	assert.Equal(t, "+3.4%", rec.LeaderChangePct)
	assert.Equal(t, "NVDA", rec.LeaderName)
	assert.Nil(t, rec.UpCount)
	assert.Nil(t, rec.UnchangedCount)
	assert.Nil(t, rec.DownCount)
}

func TestExtractSectorsNameOnly(t *testing.T) {
	// A record missing every optional field is still included.
	html := `<div class="concepts-list"><ul><li class="list-item"><a class="plate-name">Energy</a></li></ul></div>`

	records, err := extractSectors(html, testSelectors(), 10, common.GetLogger())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Energy", rec.Name)
	assert.Equal(t, "", rec.ChangePct)
	assert.Equal(t, "", rec.LeaderName)
	assert.Equal(t, "", rec.LeaderChangePct)
	assert.Nil(t, rec.UpCount)
}

func TestExtractSectorsSkipsNamelessBlocks(t *testing.T) {
	html := `
<div class="concepts-list"><ul>
  <li class="list-item"><span class="change-ratio">+9.9%</span></li>
  <li class="list-item"><a class="plate-name">Financials</a></li>
</ul></div>`

	records, err := extractSectors(html, testSelectors(), 10, common.GetLogger())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Financials", records[0].Name)
}

func TestExtractSectorsRespectsLimit(t *testing.T) {
	html := `
<div class="concepts-list"><ul>
  <li class="list-item"><a class="plate-name">One</a></li>
  <li class="list-item"><a class="plate-name">Two</a></li>
  <li class="list-item"><a class="plate-name">Three</a></li>
</ul></div>`

	records, err := extractSectors(html, testSelectors(), 2, common.GetLogger())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "One", records[0].Name)
	assert.Equal(t, "Two", records[1].Name)
}

func TestExtractSectorsSingleChangeText(t *testing.T) {
	// Only one change text: it is the sector move, the leader move is unknown.
	html := `
<div class="concepts-list"><ul>
  <li class="list-item">
    <a class="plate-name">Utilities</a>
    <span class="change-ratio">+0.3%</span>
  </li>
</ul></div>`

	records, err := extractSectors(html, testSelectors(), 10, common.GetLogger())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "+0.3%", records[0].ChangePct)
	assert.Equal(t, "", records[0].LeaderChangePct)
}

func TestExtractSectorsFlatCountNotReadAsDeclining(t *testing.T) {
	// Only an advance node and the distinctly classed flat node: the flat
	// count must appear as unchanged, never as the declining count.
	html := `
<div class="concepts-list"><ul>
  <li class="list-item">
    <a class="plate-name">Consumer</a>
    <span class="updown-num">75</span>
    <span class="updown-num flat">12</span>
  </li>
</ul></div>`

	records, err := extractSectors(html, testSelectors(), 10, common.GetLogger())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	require.NotNil(t, rec.UpCount)
	assert.Equal(t, 75, *rec.UpCount)
	require.NotNil(t, rec.UnchangedCount)
	assert.Equal(t, 12, *rec.UnchangedCount)
	assert.Nil(t, rec.DownCount)
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		input string
		want  *int
	}{
		{"120", intPtr(120)},
		{" 40 ", intPtr(40)},
		{"0", intPtr(0)},
		{"-", nil},
		{"n/a", nil},
		{"", nil},
		{"12.5", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseCount(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func intPtr(n int) *int {
	return &n
}
