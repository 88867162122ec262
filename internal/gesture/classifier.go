// Package gesture classifies hand poses against trained class templates.
package gesture

import (
	"errors"
	"math"
	"sort"

	"github.com/ayusman/mudra/internal/detector"
)

// ErrNoTemplates is returned by Classify when no class has been trained.
var ErrNoTemplates = errors.New("classifier has no templates")

// Classifier maps a flattened landmark vector to a class index.
type Classifier interface {
	Classify(vector detector.Vector) (int, error)
}

// Template is the averaged, normalized pose of one class.
type Template struct {
	Class     int
	Name      string
	Landmarks [detector.NumLandmarks]detector.Point3D
}

// Match is a template with its distance to the input.
type Match struct {
	Template *Template
	Score    float64 // 1 / (1 + Distance)
	Distance float64 // sum of per-landmark Euclidean distances
}

// TemplateClassifier returns the class of the nearest template.
// It never rejects an input: every vector maps to some trained class.
type TemplateClassifier struct {
	templates []*Template
}

func NewTemplateClassifier() *TemplateClassifier {
	return &TemplateClassifier{}
}

// AddTemplate registers t, replacing any template with the same class.
func (c *TemplateClassifier) AddTemplate(t *Template) {
	if t == nil {
		return
	}
	for i, existing := range c.templates {
		if existing.Class == t.Class {
			c.templates[i] = t
			return
		}
	}
	c.templates = append(c.templates, t)
}

// Len returns the number of registered templates.
func (c *TemplateClassifier) Len() int {
	return len(c.templates)
}

// Classify returns the class index of the template nearest to vector.
func (c *TemplateClassifier) Classify(vector detector.Vector) (int, error) {
	matches, err := c.Rank(vector)
	if err != nil {
		return -1, err
	}
	return matches[0].Template.Class, nil
}

// Rank returns every template ordered from nearest to farthest.
func (c *TemplateClassifier) Rank(vector detector.Vector) ([]Match, error) {
	if len(c.templates) == 0 {
		return nil, ErrNoTemplates
	}

	hand := detector.FromVector(vector)
	normalized := hand.Normalize()

	matches := make([]Match, 0, len(c.templates))
	for _, t := range c.templates {
		d := euclideanDistance(normalized.Points[:], t.Landmarks[:])
		matches = append(matches, Match{
			Template: t,
			Score:    1.0 / (1.0 + d),
			Distance: d,
		})
	}

	// Ties go to the lower class index so results are stable.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Template.Class < matches[j].Template.Class
	})

	return matches, nil
}

// euclideanDistance sums the distances between corresponding points.
func euclideanDistance(a, b []detector.Point3D) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var total float64
	for i := 0; i < n; i++ {
		dx := a[i].X - b[i].X
		dy := a[i].Y - b[i].Y
		dz := a[i].Z - b[i].Z
		total += math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	return total
}
