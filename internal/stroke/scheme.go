package stroke

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/ironsheep/smartshape-mcp/internal/detection"
)

// Scheme is the subset of an editor scheme document needed to replay drawn
// strokes, as stored in sample files like rect.samples.scheme.json.
type Scheme struct {
	Name  string       `json:"name"`
	Items []SchemeItem `json:"items"`
}

// SchemeItem is an item of a scheme document.
type SchemeItem struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Shape      string       `json:"shape"`
	ShapeProps ShapeProps   `json:"shapeProps"`
	ChildItems []SchemeItem `json:"childItems,omitempty"`
}

// ShapeProps holds the curve points of an item. Other shape properties are ignored.
type ShapeProps struct {
	Points []detection.Point `json:"points"`
}

// LoadScheme reads and decodes a scheme document from path.
func LoadScheme(path string) (*Scheme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scheme: %w", err)
	}

	var scheme Scheme
	if err := json.Unmarshal(data, &scheme); err != nil {
		return nil, fmt.Errorf("failed to decode scheme %s: %w", path, err)
	}
	return &scheme, nil
}

// CurveItems returns every curve item of the scheme, children included, in
// document order.
func CurveItems(scheme *Scheme) []SchemeItem {
	curves := make([]SchemeItem, 0)
	var walk func(items []SchemeItem)
	walk = func(items []SchemeItem) {
		for _, item := range items {
			if item.Shape == ShapeCurve {
				curves = append(curves, item)
			}
			walk(item.ChildItems)
		}
	}
	walk(scheme.Items)
	return curves
}

// SchemeCache provides thread-safe caching of decoded scheme documents keyed
// by path, so repeated sample verification does not re-read the file.
type SchemeCache struct {
	mu      sync.RWMutex
	schemes map[string]*Scheme
}

// NewSchemeCache creates an empty scheme cache.
func NewSchemeCache() *SchemeCache {
	return &SchemeCache{
		schemes: make(map[string]*Scheme),
	}
}

// Load returns the cached scheme for path or reads it from disk.
//
// The scheme is cached under the exact path string; different spellings of
// the same file get separate entries.
func (c *SchemeCache) Load(path string) (*Scheme, error) {
	c.mu.RLock()
	if scheme, ok := c.schemes[path]; ok {
		c.mu.RUnlock()
		return scheme, nil
	}
	c.mu.RUnlock()

	scheme, err := LoadScheme(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.schemes[path] = scheme
	c.mu.Unlock()

	return scheme, nil
}

// Evict removes path from the cache.
func (c *SchemeCache) Evict(path string) {
	c.mu.Lock()
	delete(c.schemes, path)
	c.mu.Unlock()
}

// Clear removes every cached scheme.
func (c *SchemeCache) Clear() {
	c.mu.Lock()
	c.schemes = make(map[string]*Scheme)
	c.mu.Unlock()
}

// SampleResult is the classification of one sample drawing.
type SampleResult struct {
	Name  string              `json:"name"`
	Shape detection.ShapeKind `json:"shape"`
	Score float64             `json:"score"`
	Hit   bool                `json:"hit"`
}

// VerifyReport summarizes how the curve items of a scheme were classified.
type VerifyReport struct {
	Expected detection.ShapeKind `json:"expected"`
	Samples  []SampleResult      `json:"samples"`
	Hits     int                 `json:"hits"`
	Misses   int                 `json:"misses"`
}

// VerifySamples classifies the raw points of every curve item in scheme and
// compares the result with expected. Curves without points count as misses.
func VerifySamples(scheme *Scheme, expected detection.ShapeKind) (*VerifyReport, error) {
	items := CurveItems(scheme)
	if len(items) == 0 {
		return nil, fmt.Errorf("scheme %q contains no curve items", scheme.Name)
	}

	report := &VerifyReport{
		Expected: expected,
		Samples:  make([]SampleResult, 0, len(items)),
	}

	for _, item := range items {
		sample := SampleResult{Name: item.Name}
		if match := detection.IdentifyShape(item.ShapeProps.Points); match != nil {
			sample.Shape = match.Shape
			sample.Score = match.Score
			sample.Hit = match.Shape == expected
		}

		if sample.Hit {
			report.Hits++
		} else {
			report.Misses++
		}
		report.Samples = append(report.Samples, sample)
	}

	return report, nil
}
