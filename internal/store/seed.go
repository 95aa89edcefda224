package store

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"arquivo/internal/domain/models"
)

//go:embed default_sectors.yaml
var defaultSectorsYAML []byte

type seedManifest struct {
	Sectors []seedSector `yaml:"sectors"`
}

type seedSector struct {
	Name  string  `yaml:"name"`
	Icon  string  `yaml:"icon"`
	Color *string `yaml:"color"`
}

// DefaultSectors returns the seed manifest as bare sector values (no ids,
// no timestamps). Exposed for the seed command.
func DefaultSectors() ([]models.Sector, error) {
	var manifest seedManifest
	if err := yaml.Unmarshal(defaultSectorsYAML, &manifest); err != nil {
		return nil, fmt.Errorf("parse default sector manifest: %w", err)
	}

	sectors := make([]models.Sector, 0, len(manifest.Sectors))
	for _, s := range manifest.Sectors {
		sectors = append(sectors, models.Sector{
			Name:  s.Name,
			Icon:  s.Icon,
			Color: s.Color,
		})
	}
	return sectors, nil
}

// seedDefaultSectors inserts the default set, stamped with the session
// identity, and returns the created records.
func (s *Store) seedDefaultSectors(ctx context.Context) ([]models.Sector, error) {
	defaults, err := DefaultSectors()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for i := range defaults {
		defaults[i].ID = uuid.NewString()
		defaults[i].CreatedAt = now
		defaults[i].CreatedBy = s.user

		if err := s.adapter.InsertSector(ctx, &defaults[i]); err != nil {
			return nil, fmt.Errorf("insert %q: %w", defaults[i].Name, err)
		}
	}

	s.logger.Info("default sectors seeded", "count", len(defaults), "user_id", s.user)
	return defaults, nil
}
