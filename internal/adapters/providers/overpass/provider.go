package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/yachtdrop/backend/internal/domain/entities"
	"github.com/yachtdrop/backend/internal/domain/providers"
	"github.com/yachtdrop/backend/pkg/config"
	apperrors "github.com/yachtdrop/backend/pkg/errors"
)

// OSM tag selectors that identify a marina-like place
var marinaTags = []string{
	`["leisure"="marina"]`,
	`["seamark:type"="harbour"]`,
	`["seamark:type"="marina"]`,
	`["leisure"="yacht_club"]`,
	`["harbour"="yes"]`,
}

// Provider implements MarinaDirectoryProvider against the OpenStreetMap
// Overpass API
type Provider struct {
	url        string
	httpClient *http.Client
}

// NewProvider creates a new Overpass provider
func NewProvider(cfg *config.OverpassConfig) *Provider {
	timeout := 20 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &Provider{
		url: cfg.URL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type overpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"center"`
	Tags map[string]string `json:"tags"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

var overpassEscapeRe = regexp.MustCompile(`[.*+?^${}()|[\]\\]`)

// escapeOverpass neutralizes regex metacharacters for embedding in a quoted
// Overpass QL pattern. QL string parsing eats one level of backslashes, so
// each metacharacter needs two.
func escapeOverpass(s string) string {
	return overpassEscapeRe.ReplaceAllString(s, `\\$0`)
}

func buildUnion(selector func(tag string) string) string {
	parts := make([]string, 0, len(marinaTags)*2)
	for _, tag := range marinaTags {
		parts = append(parts, "node"+selector(tag), "way"+selector(tag))
	}
	return strings.Join(parts, "\n  ")
}

// FindMarinas queries Overpass by name or by radius around a coordinate
func (p *Provider) FindMarinas(ctx context.Context, query providers.MarinaQuery) ([]*entities.Marina, error) {
	var overpassQuery string

	switch {
	case query.Lat != nil && query.Lng != nil:
		radiusM := int(query.RadiusKm * 1000)
		if radiusM <= 0 {
			radiusM = 30000
		}
		union := buildUnion(func(tag string) string {
			return fmt.Sprintf("%s(around:%d,%f,%f);", tag, radiusM, *query.Lat, *query.Lng)
		})
		overpassQuery = fmt.Sprintf("[out:json][timeout:25];\n(\n  %s\n);\nout center 50;", union)
	case query.Name != "":
		escaped := escapeOverpass(query.Name)
		union := buildUnion(func(tag string) string {
			return fmt.Sprintf(`%s["name"~"%s",i];`, tag, escaped)
		})
		overpassQuery = fmt.Sprintf("[out:json][timeout:25];\n(\n  %s\n);\nout center 30;", union)
	default:
		return nil, apperrors.NewValidationError("marina query requires a name or coordinates")
	}

	body := url.Values{"data": {overpassQuery}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, strings.NewReader(body))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build overpass request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("overpass request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewExternalError(fmt.Sprintf("overpass returned status %d", resp.StatusCode), nil)
	}

	var parsed overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewExternalError("failed to decode overpass response", err)
	}

	return collectMarinas(parsed.Elements), nil
}

// collectMarinas converts raw OSM elements, skipping unnamed or
// coordinate-less ones and deduplicating by name plus rounded position
// (the same harbour often appears as both a node and a way)
func collectMarinas(elements []overpassElement) []*entities.Marina {
	seen := make(map[string]bool)
	marinas := []*entities.Marina{}

	for _, el := range elements {
		lat, lng := el.Lat, el.Lon
		if lat == 0 && lng == 0 && el.Center != nil {
			lat, lng = el.Center.Lat, el.Center.Lon
		}
		if lat == 0 && lng == 0 {
			continue
		}

		name := firstTag(el.Tags, "name", "name:en", "name:fr", "name:es", "name:ar", "seamark:name")
		if name == "" {
			continue
		}
		name = strings.TrimSpace(name)
		if len(name) > 200 {
			name = name[:200]
		}

		key := fmt.Sprintf("%s-%.3f-%.3f", strings.ToLower(name), lat, lng)
		if seen[key] {
			continue
		}
		seen[key] = true

		osmID := fmt.Sprintf("%s/%d", el.Type, el.ID)
		latVal, lngVal := lat, lng
		marinas = append(marinas, &entities.Marina{
			ID:      fmt.Sprintf("osm-%s-%d", el.Type, el.ID),
			OSMID:   &osmID,
			Name:    name,
			City:    firstTag(el.Tags, "addr:city", "addr:municipality"),
			Country: firstTag(el.Tags, "addr:country", "is_in:country"),
			Lat:     &latVal,
			Lng:     &lngVal,
		})
	}

	return marinas
}

func firstTag(tags map[string]string, keys ...string) string {
	for _, key := range keys {
		if v, ok := tags[key]; ok && v != "" {
			return v
		}
	}
	return ""
}
