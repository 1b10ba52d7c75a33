package feeds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `{
  "continents": [
    {
      "name": "Europe",
      "countries": [
        {
          "name": "Spain",
          "comps": [
            {
              "id": "comp-1",
              "name": "Primera Division",
              "url": "/en_GB/soccer/primera-division-2024-2025/hash123/results",
              "crest": "/crests/comp-1.png",
              "top": true,
              "ord": 1
            },
            {
              "id": "comp-2",
              "name": "Segunda Division",
              "url": "/en_GB/soccer/segunda-division-2024-2025/hash456/results",
              "top": false,
              "ord": 2
            }
          ]
        }
      ]
    },
    {
      "name": "South America",
      "countries": [
        {
          "name": "Argentina",
          "comps": [
            {
              "id": "comp-3",
              "name": "Liga Profesional",
              "url": "/en_GB/soccer/liga-profesional-2024/hash789/results",
              "top": true,
              "ord": 1
            }
          ]
        }
      ]
    }
  ]
}`

func TestParseCatalog(t *testing.T) {
	comps, err := ParseCatalog([]byte(sampleCatalog), "https://portal.example/")
	require.NoError(t, err)
	require.Len(t, comps, 3)

	first := comps[0]
	assert.Equal(t, "comp-1", first.ID)
	assert.Equal(t, "Primera Division", first.Name)
	assert.Equal(t, "Europe", first.Continent)
	assert.Equal(t, "Spain", first.Country)
	assert.Equal(t, "primera-division-2024-2025", first.Slug)
	assert.Equal(t, "https://portal.example/en_GB/soccer/primera-division-2024-2025/hash123/results", first.URL)
	assert.Equal(t, "https://portal.example/crests/comp-1.png", first.CrestURL)
	assert.True(t, first.Top)
	assert.Equal(t, 1, first.Order)

	second := comps[1]
	assert.Empty(t, second.CrestURL)
	assert.False(t, second.Top)

	assert.Equal(t, "Argentina", comps[2].Country)
}

func TestParseCatalogRejectsEmpty(t *testing.T) {
	_, err := ParseCatalog([]byte(`{"continents":[]}`), "https://portal.example")
	assert.Error(t, err)
}

func TestParseCatalogRejectsInvalidJSON(t *testing.T) {
	_, err := ParseCatalog([]byte(`{broken`), "https://portal.example")
	assert.Error(t, err)
}

func TestTournamentIDFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "results url",
			url:  "https://portal.example/en_GB/soccer/primera-division-2024-2025/hash123/results",
			want: "hash123",
		},
		{
			name: "fixtures url",
			url:  "https://portal.example/en_GB/soccer/liga-profesional-2024/hash789/fixtures",
			want: "hash789",
		},
		{
			name: "no match",
			url:  "https://portal.example/en_GB/soccer/competitions",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TournamentIDFromURL(tt.url))
		})
	}
}

func TestExtractOutletKey(t *testing.T) {
	html := `<html><head><script>
		window.settings = {
			sdapi_outlet_key: "ft1tiv1inq7v1sk3y9tv12yh5",
			locale: "en_GB"
		};
	</script></head><body></body></html>`

	key, err := ExtractOutletKey(html)
	require.NoError(t, err)
	assert.Equal(t, "ft1tiv1inq7v1sk3y9tv12yh5", key)
}

func TestExtractOutletKeyMissing(t *testing.T) {
	_, err := ExtractOutletKey(`<html><body>nothing here</body></html>`)
	assert.Error(t, err)
}

func TestSplitCompetitionURL(t *testing.T) {
	slug, hash := splitCompetitionURL("/en_GB/soccer/primera-division-2024-2025/hash123/results")
	assert.Equal(t, "primera-division-2024-2025", slug)
	assert.Equal(t, "hash123", hash)

	slug, hash = splitCompetitionURL("/en_GB/soccer")
	assert.Empty(t, slug)
	assert.Empty(t, hash)
}
