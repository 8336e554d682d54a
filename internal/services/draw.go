package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"stampbook/internal/assets"
	"stampbook/internal/models"

	"github.com/samber/do"
	"gopkg.in/yaml.v3"
)

var stampExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
}

// DrawConfig is loaded once at start-up and never mutated afterwards.
type DrawConfig struct {
	Todos        []string
	AffectionMin int
	AffectionMax int
	Stamps       []models.Stamp
}

type drawFile struct {
	Affection struct {
		Min int `yaml:"min"`
		Max int `yaml:"max"`
	} `yaml:"affection"`
	Todo []string `yaml:"todo"`
}

func ParseDrawConfig(b []byte) (*DrawConfig, error) {
	var f drawFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}

	todos := make([]string, 0, len(f.Todo))
	for _, todo := range f.Todo {
		if todo = strings.TrimSpace(todo); todo != "" {
			todos = append(todos, todo)
		}
	}
	if len(todos) == 0 {
		return nil, errors.New("draw config: empty todo list")
	}
	if f.Affection.Min < 1 || f.Affection.Max < f.Affection.Min {
		return nil, fmt.Errorf("draw config: invalid affection range [%d, %d]", f.Affection.Min, f.Affection.Max)
	}

	return &DrawConfig{
		Todos:        todos,
		AffectionMin: f.Affection.Min,
		AffectionMax: f.Affection.Max,
	}, nil
}

// LoadStamps reads every image of dir. The stamp id is the file name without extension.
func LoadStamps(dir string) ([]models.Stamp, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	stamps := []models.Stamp{}
	seen := map[string]bool{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !stampExtensions[ext] {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if seen[id] {
			return nil, fmt.Errorf("duplicate stamp id %q", id)
		}
		seen[id] = true

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		stamps = append(stamps, models.Stamp{ID: id, Path: path, Data: data})
	}

	if len(stamps) == 0 {
		return nil, fmt.Errorf("no stamp found in %s", dir)
	}

	sort.Slice(stamps, func(i, j int) bool {
		return stamps[i].ID < stamps[j].ID
	})
	return stamps, nil
}

// LoadDrawConfig falls back to the embedded config when configPath is empty.
func LoadDrawConfig(configPath string, stampDir string) (*DrawConfig, error) {
	b := assets.DrawConfig
	if configPath != "" {
		var err error
		b, err = os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
	}

	config, err := ParseDrawConfig(b)
	if err != nil {
		return nil, err
	}

	config.Stamps, err = LoadStamps(stampDir)
	if err != nil {
		return nil, err
	}
	return config, nil
}

func (config *DrawConfig) Stamp(id string) (models.Stamp, bool) {
	i := sort.Search(len(config.Stamps), func(i int) bool {
		return config.Stamps[i].ID >= id
	})
	if i < len(config.Stamps) && config.Stamps[i].ID == id {
		return config.Stamps[i], true
	}
	return models.Stamp{}, false
}

type Draw struct {
	Todo      string
	Affection int
	Stamp     models.Stamp
}

type Drawer interface {
	Draw() *Draw
}

type ServiceDraw struct {
	config    *DrawConfig
	todo      *ServiceGacha[string]
	affection *ServiceGacha[int]
	stamp     *ServiceGacha[models.Stamp]
}

func NewServiceDraw(container *do.Injector) (*ServiceDraw, error) {
	config, err := do.Invoke[*DrawConfig](container)
	if err != nil {
		return nil, err
	}

	return NewDrawer(config)
}

func NewDrawer(config *DrawConfig) (*ServiceDraw, error) {
	todo, err := NewUniformGacha(config.Todos)
	if err != nil {
		return nil, err
	}

	values := make([]int, 0, config.AffectionMax-config.AffectionMin+1)
	for v := config.AffectionMin; v <= config.AffectionMax; v++ {
		values = append(values, v)
	}
	affection, err := NewUniformGacha(values)
	if err != nil {
		return nil, err
	}

	stamp, err := NewUniformGacha(config.Stamps)
	if err != nil {
		return nil, err
	}

	return &ServiceDraw{config, todo, affection, stamp}, nil
}

func (service *ServiceDraw) Draw() *Draw {
	return &Draw{
		Todo:      service.todo.Pick(),
		Affection: service.affection.Pick(),
		Stamp:     service.stamp.Pick(),
	}
}

func (service *ServiceDraw) Config() *DrawConfig {
	return service.config
}
