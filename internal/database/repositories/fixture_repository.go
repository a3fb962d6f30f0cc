package repositories

import (
	"context"
	"fmt"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/bbernstein/pixelmux-go/internal/database/models"
	"github.com/bbernstein/pixelmux-go/internal/fixture"
	"github.com/bbernstein/pixelmux-go/internal/pixel"
	"github.com/bbernstein/pixelmux-go/internal/protocol"
)

// FixtureRepository handles fixture data access and materializes the
// in-memory fixture tree consumed by the output builder.
type FixtureRepository struct {
	db *gorm.DB
}

// NewFixtureRepository creates a new FixtureRepository.
func NewFixtureRepository(db *gorm.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

// FindByProjectID returns all fixtures in a project with outputs and
// segments preloaded, ordered for deterministic tree construction.
func (r *FixtureRepository) FindByProjectID(ctx context.Context, projectID string) ([]models.Fixture, error) {
	var fixtures []models.Fixture
	result := r.db.WithContext(ctx).
		Preload("Outputs", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Outputs.Segments", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("project_id = ?", projectID).
		Order("position ASC, created_at ASC").
		Find(&fixtures)
	return fixtures, result.Error
}

// FindByID returns a fixture by ID, or nil if not found.
func (r *FixtureRepository) FindByID(ctx context.Context, id string) (*models.Fixture, error) {
	var fix models.Fixture
	result := r.db.WithContext(ctx).First(&fix, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &fix, nil
}

// Create creates a new fixture.
func (r *FixtureRepository) Create(ctx context.Context, fix *models.Fixture) error {
	if fix.ID == "" {
		fix.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Create(fix).Error
}

// Update updates an existing fixture.
func (r *FixtureRepository) Update(ctx context.Context, fix *models.Fixture) error {
	return r.db.WithContext(ctx).Save(fix).Error
}

// Delete deletes a fixture by ID.
func (r *FixtureRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Fixture{}, "id = ?", id).Error
}

// CreateOutput creates an output definition with its segments.
func (r *FixtureRepository) CreateOutput(ctx context.Context, out *models.OutputDefinition) error {
	if out.ID == "" {
		out.ID = cuid.New()
	}
	for i := range out.Segments {
		if out.Segments[i].ID == "" {
			out.Segments[i].ID = cuid.New()
		}
		out.Segments[i].OutputID = out.ID
	}
	return r.db.WithContext(ctx).Create(out).Error
}

// LoadTree materializes a project's fixture tree from its stored rows.
// Parent links become arena child-index lists; output and segment rows
// become the declarative definitions the output builder walks.
func (r *FixtureRepository) LoadTree(ctx context.Context, projectID string) (*fixture.Tree, error) {
	rows, err := r.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	tree := &fixture.Tree{}
	indexByID := make(map[string]int, len(rows))

	for _, row := range rows {
		node := fixture.Fixture{
			ID:          row.ID,
			Label:       row.Label,
			Enabled:     row.Enabled,
			Deactivated: row.Deactivated,
		}
		node.Outputs, err = buildOutputs(row.Outputs)
		if err != nil {
			return nil, fmt.Errorf("fixture %q: %w", row.Label, err)
		}
		indexByID[row.ID] = tree.AddNode(node)
	}

	// Link children after all nodes exist; rows are ordered by position so
	// sibling order is preserved.
	for _, row := range rows {
		idx := indexByID[row.ID]
		if row.ParentID == nil {
			tree.Roots = append(tree.Roots, idx)
			continue
		}
		parent, ok := indexByID[*row.ParentID]
		if !ok {
			return nil, fmt.Errorf("fixture %q references missing parent %s", row.Label, *row.ParentID)
		}
		tree.Nodes[parent].Children = append(tree.Nodes[parent].Children, idx)
	}

	return tree, nil
}

func buildOutputs(rows []models.OutputDefinition) ([]fixture.Output, error) {
	outputs := make([]fixture.Output, 0, len(rows))
	for _, row := range rows {
		proto, err := ParseProtocol(row.Protocol)
		if err != nil {
			return nil, err
		}
		out := fixture.Output{
			Protocol:     proto,
			Transport:    parseTransport(row.Transport),
			Address:      row.Address,
			Port:         row.Port,
			Universe:     row.Universe,
			Channel:      row.Channel,
			Priority:     row.Priority,
			Sequential:   row.Sequential,
			KinetVersion: parseKinetVersion(row.KinetVersion),
			FPS:          row.FPS,
		}
		for _, segRow := range row.Segments {
			seg, err := buildSegment(segRow)
			if err != nil {
				return nil, err
			}
			out.Segments = append(out.Segments, seg)
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

func buildSegment(row models.SegmentDefinition) (fixture.Segment, error) {
	enc, err := pixel.LookupEncoder(row.Encoder)
	if err != nil {
		return fixture.Segment{}, err
	}
	indices := make([]int, row.Count)
	for i := range indices {
		indices[i] = row.Start + i
	}
	brightness := row.Brightness
	if brightness <= 0 || brightness > 1 {
		brightness = 1
	}
	return fixture.Segment{
		Indices:    indices,
		Encoder:    enc,
		Stride:     row.Stride,
		Reverse:    row.Reverse,
		Repeat:     row.Repeat,
		PadPre:     row.PadPre,
		PadPost:    row.PadPost,
		Header:     row.Header,
		Footer:     row.Footer,
		Brightness: brightness,
	}, nil
}

// ParseProtocol converts a stored protocol name to its descriptor.
func ParseProtocol(name string) (protocol.Protocol, error) {
	switch name {
	case "ArtNet", "ARTNET", "artnet":
		return protocol.ArtNet, nil
	case "sACN", "SACN", "sacn", "E131":
		return protocol.SACN, nil
	case "DDP", "ddp":
		return protocol.DDP, nil
	case "KiNET", "KINET", "kinet":
		return protocol.KiNET, nil
	case "OPC", "opc":
		return protocol.OPC, nil
	case "", "None", "NONE":
		return protocol.None, nil
	default:
		return protocol.None, fmt.Errorf("unknown protocol %q", name)
	}
}

func parseTransport(name string) protocol.Transport {
	if name == "TCP" || name == "tcp" {
		return protocol.TCP
	}
	return protocol.UDP
}

func parseKinetVersion(name string) protocol.KinetVersion {
	if name == "DMXOUT" {
		return protocol.KinetDMXOut
	}
	return protocol.KinetPortOut
}
