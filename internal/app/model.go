package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// LoadClassifier builds a nearest-template classifier from every class in s.
// Classes without a complete template are skipped with a warning.
func LoadClassifier(s *store.Store) (*gesture.TemplateClassifier, error) {
	classes, err := s.Classes().List()
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}

	classifier := gesture.NewTemplateClassifier()
	for _, c := range classes {
		landmarks, err := s.Classes().GetLandmarks(c.ID)
		if err != nil {
			return nil, fmt.Errorf("load template for %s: %w", c.Name, err)
		}
		if len(landmarks) != detector.NumLandmarks {
			log.Printf("Skipping class %d (%s): template has %d landmarks", c.Index, c.Name, len(landmarks))
			continue
		}

		classifier.AddTemplate(&gesture.Template{
			Class:     c.Index,
			Name:      c.Name,
			Landmarks: storeLandmarksToDetector(landmarks),
		})
	}

	if classifier.Len() == 0 {
		return nil, gesture.ErrNoTemplates
	}

	log.Printf("Loaded %d gesture classes from %s", classifier.Len(), s.Path())
	return classifier, nil
}

// CheckVariant warns when the artifact was trained for another controller.
func CheckVariant(s *store.Store, variant config.Variant) {
	trained, err := s.Settings().Get(store.SettingVariant)
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		log.Printf("Failed to read model variant: %v", err)
		return
	}
	if trained != string(variant) {
		log.Printf("Warning: model was trained for %q, running as %q", trained, variant)
	}
}

// SaveClass appends samples to class index, retrains its template from
// every stored sample and records variant.
func SaveClass(s *store.Store, variant config.Variant, index int, name string, samples []json.RawMessage) (*gesture.Template, error) {
	repo := s.Classes()

	c, err := repo.GetByIndex(index)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c = &store.Class{Index: index, Name: name}
		if err := repo.Create(c); err != nil {
			return nil, fmt.Errorf("create class: %w", err)
		}
	case err != nil:
		return nil, err
	case c.Name != name:
		c.Name = name
		if err := repo.Update(c); err != nil {
			return nil, fmt.Errorf("rename class: %w", err)
		}
	}

	if _, err := s.Samples().Append(c.ID, samples); err != nil {
		return nil, fmt.Errorf("store samples: %w", err)
	}

	stored, err := s.Samples().GetByClassID(c.ID)
	if err != nil {
		return nil, fmt.Errorf("load samples: %w", err)
	}

	tmpl, err := gesture.NewTrainer().Train(index, name, store.Data(stored))
	if err != nil {
		return nil, fmt.Errorf("train class %d: %w", index, err)
	}

	if err := repo.SaveLandmarks(c.ID, detectorLandmarksToStore(tmpl.Landmarks)); err != nil {
		return nil, fmt.Errorf("save template: %w", err)
	}
	if err := s.Settings().Set(store.SettingVariant, string(variant)); err != nil {
		return nil, fmt.Errorf("save variant: %w", err)
	}

	return tmpl, nil
}

func storeLandmarksToDetector(landmarks []store.Landmark) [detector.NumLandmarks]detector.Point3D {
	var points [detector.NumLandmarks]detector.Point3D
	for _, l := range landmarks {
		if l.Index >= 0 && l.Index < detector.NumLandmarks {
			points[l.Index] = detector.Point3D{X: l.X, Y: l.Y, Z: l.Z}
		}
	}
	return points
}

func detectorLandmarksToStore(points [detector.NumLandmarks]detector.Point3D) []store.Landmark {
	landmarks := make([]store.Landmark, len(points))
	for i, p := range points {
		landmarks[i] = store.Landmark{Index: i, X: p.X, Y: p.Y, Z: p.Z}
	}
	return landmarks
}

// OpenModel loads the classifier from the artifact at path, opened read-only.
func OpenModel(path string, variant config.Variant) (*gesture.TemplateClassifier, error) {
	s, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer s.Close()

	CheckVariant(s, variant)
	return LoadClassifier(s)
}
