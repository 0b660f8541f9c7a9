package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/sapling/pkg/criteria"
	"github.com/Ramsey-B/sapling/pkg/database"
	"github.com/Ramsey-B/sapling/pkg/metrics"
	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/Ramsey-B/sapling/pkg/tracing"
)

// ExportDateLayout formats Backup.ExportDate.
const ExportDateLayout = "2006-01-02 15:04:05"

type PVPFLink struct {
	ProductVariantID    int64  `json:"product_variant_id"`
	ProductVariantLabel string `json:"product_variant_label"`
	ProductFeatureID    int64  `json:"product_feature_id"`
	ProductFeatureLabel string `json:"product_feature_label"`
}

type PFCapLink struct {
	ProductFeatureID    int64  `json:"product_feature_id"`
	ProductFeatureLabel string `json:"product_feature_label"`
	CapabilityID        int64  `json:"capability_id"`
	CapabilityLabel     string `json:"capability_label"`
}

type CapTFLink struct {
	CapabilityID           int64  `json:"capability_id"`
	CapabilityLabel        string `json:"capability_label"`
	TechnicalFunctionID    int64  `json:"technical_function_id"`
	TechnicalFunctionLabel string `json:"technical_function_label"`
}

// Backup is a full copy of the store. Links are keyed by label so a backup
// restores into a database with different row ids.
type Backup struct {
	ExportDate         string                 `json:"export_date"`
	ProductVariants    []models.Entity        `json:"product_variants"`
	ProductFeatures    []models.Entity        `json:"product_features"`
	Capabilities       []models.Entity        `json:"capabilities"`
	TechnicalFunctions []models.Entity        `json:"technical_functions"`
	Configurations     []models.Configuration `json:"configurations"`
	Milestones         []models.Milestone     `json:"milestones"`
	PVPFLinks          []PVPFLink             `json:"pv_product_features_relationships"`
	PFCapLinks         []PFCapLink            `json:"pf_capabilities_relationships"`
	CapTFLinks         []CapTFLink            `json:"cap_technical_functions_relationships"`
}

// ReadBackup decodes a backup file. Unknown keys are ignored.
func ReadBackup(r io.Reader) (*Backup, error) {
	var b Backup
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid backup: %s", err)
	}
	return &b, nil
}

type EntityStore interface {
	Create(ctx context.Context, entity *models.Entity) (*models.Entity, error)
	Update(ctx context.Context, entity *models.Entity) (*models.Entity, error)
	List(ctx context.Context, kind models.EntityKind, conditions ...criteria.Condition) ([]models.Entity, error)
}

type LinkStore interface {
	Link(ctx context.Context, kind models.RelationshipKind, leftLabel, rightLabel string) (*models.Link, error)
	List(ctx context.Context, kind models.RelationshipKind) ([]models.Link, error)
	Clear(ctx context.Context, kind models.RelationshipKind) error
}

type ConfigurationStore interface {
	Create(ctx context.Context, configuration *models.Configuration) (*models.Configuration, error)
	Update(ctx context.Context, configuration *models.Configuration) (*models.Configuration, error)
	List(ctx context.Context, configType string) ([]models.Configuration, error)
}

type MilestoneStore interface {
	Create(ctx context.Context, milestone *models.Milestone) (*models.Milestone, error)
	Update(ctx context.Context, milestone *models.Milestone) (*models.Milestone, error)
	List(ctx context.Context) ([]models.Milestone, error)
}

// Counts tallies restored records of one table.
type Counts struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
}

type RestoreStats struct {
	ProductVariants    Counts `json:"product_variants"`
	ProductFeatures    Counts `json:"product_features"`
	Capabilities       Counts `json:"capabilities"`
	TechnicalFunctions Counts `json:"technical_functions"`
	Configurations     Counts `json:"configurations"`
	Milestones         Counts `json:"milestones"`
	Links              int    `json:"links"`
	SkippedLinks       int    `json:"skipped_links"`
}

type BackupService struct {
	db             database.DB
	entities       EntityStore
	links          LinkStore
	configurations ConfigurationStore
	milestones     MilestoneStore
	logger         ectologger.Logger
	now            func() time.Time
}

func NewBackupService(db database.DB, entities EntityStore, links LinkStore, configurations ConfigurationStore, milestones MilestoneStore, logger ectologger.Logger) *BackupService {
	return &BackupService{
		db:             db,
		entities:       entities,
		links:          links,
		configurations: configurations,
		milestones:     milestones,
		logger:         logger,
		now:            time.Now,
	}
}

// Export reads every table into a Backup.
func (s *BackupService) Export(ctx context.Context) (*Backup, error) {
	ctx, span := tracing.StartSpan(ctx, "BackupService.Export")
	defer span.End()

	b := &Backup{ExportDate: s.now().Format(ExportDateLayout)}

	entitySections := []struct {
		kind models.EntityKind
		dest *[]models.Entity
	}{
		{models.KindProductVariant, &b.ProductVariants},
		{models.KindProductFeature, &b.ProductFeatures},
		{models.KindCapability, &b.Capabilities},
		{models.KindTechnicalFunction, &b.TechnicalFunctions},
	}
	for _, section := range entitySections {
		entities, err := s.entities.List(ctx, section.kind)
		if err != nil {
			return nil, err
		}
		*section.dest = entities
	}

	var err error
	if b.Configurations, err = s.configurations.List(ctx, ""); err != nil {
		return nil, err
	}
	if b.Milestones, err = s.milestones.List(ctx); err != nil {
		return nil, err
	}

	links, err := s.links.List(ctx, models.RelationshipPVPF)
	if err != nil {
		return nil, err
	}
	b.PVPFLinks = make([]PVPFLink, len(links))
	for i, l := range links {
		b.PVPFLinks[i] = PVPFLink{l.LeftID, l.LeftLabel, l.RightID, l.RightLabel}
	}

	if links, err = s.links.List(ctx, models.RelationshipPFCap); err != nil {
		return nil, err
	}
	b.PFCapLinks = make([]PFCapLink, len(links))
	for i, l := range links {
		b.PFCapLinks[i] = PFCapLink{l.LeftID, l.LeftLabel, l.RightID, l.RightLabel}
	}

	if links, err = s.links.List(ctx, models.RelationshipCapTF); err != nil {
		return nil, err
	}
	b.CapTFLinks = make([]CapTFLink, len(links))
	for i, l := range links {
		b.CapTFLinks[i] = CapTFLink{l.LeftID, l.LeftLabel, l.RightID, l.RightLabel}
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"product_features": len(b.ProductFeatures),
		"capabilities":     len(b.Capabilities),
		"links":            len(b.PVPFLinks) + len(b.PFCapLinks) + len(b.CapTFLinks),
	}).Info("exported backup")

	return b, nil
}

// Restore merges a backup into the store in one transaction. Entities are
// matched by label, configurations by (type, code) and milestones by name;
// matches are updated and the rest added. Links are replaced wholesale and a
// link whose ends are missing is skipped.
func (s *BackupService) Restore(ctx context.Context, b *Backup) (*RestoreStats, error) {
	ctx, span := tracing.StartSpan(ctx, "BackupService.Restore")
	defer span.End()

	ctxTx, tx, err := s.db.GetTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctxTx)

	stats := &RestoreStats{}

	entitySections := []struct {
		kind     models.EntityKind
		entities []models.Entity
		counts   *Counts
	}{
		{models.KindProductVariant, b.ProductVariants, &stats.ProductVariants},
		{models.KindProductFeature, b.ProductFeatures, &stats.ProductFeatures},
		{models.KindCapability, b.Capabilities, &stats.Capabilities},
		{models.KindTechnicalFunction, b.TechnicalFunctions, &stats.TechnicalFunctions},
	}
	for _, section := range entitySections {
		if err := s.restoreEntities(ctxTx, section.kind, section.entities, section.counts); err != nil {
			return nil, err
		}
	}

	if err := s.restoreConfigurations(ctxTx, b.Configurations, &stats.Configurations); err != nil {
		return nil, err
	}
	if err := s.restoreMilestones(ctxTx, b.Milestones, &stats.Milestones); err != nil {
		return nil, err
	}

	pairs := map[models.RelationshipKind][][2]string{}
	for _, l := range b.PVPFLinks {
		pairs[models.RelationshipPVPF] = append(pairs[models.RelationshipPVPF], [2]string{l.ProductVariantLabel, l.ProductFeatureLabel})
	}
	for _, l := range b.PFCapLinks {
		pairs[models.RelationshipPFCap] = append(pairs[models.RelationshipPFCap], [2]string{l.ProductFeatureLabel, l.CapabilityLabel})
	}
	for _, l := range b.CapTFLinks {
		pairs[models.RelationshipCapTF] = append(pairs[models.RelationshipCapTF], [2]string{l.CapabilityLabel, l.TechnicalFunctionLabel})
	}

	for _, kind := range models.RelationshipKinds {
		if err := s.links.Clear(ctxTx, kind); err != nil {
			return nil, err
		}
		for _, pair := range pairs[kind] {
			_, err := s.links.Link(ctxTx, kind, pair[0], pair[1])
			if httperror.IsNotFound(err) {
				stats.SkippedLinks++
				continue
			}
			if err != nil {
				return nil, err
			}
			stats.Links++
		}
	}

	if err := tx.Commit(ctxTx); err != nil {
		return nil, err
	}

	for table, counts := range map[string]Counts{
		"product_variants":    stats.ProductVariants,
		"product_features":    stats.ProductFeatures,
		"capabilities":        stats.Capabilities,
		"technical_functions": stats.TechnicalFunctions,
		"configurations":      stats.Configurations,
		"milestones":          stats.Milestones,
	} {
		metrics.RecordRestore(table, counts.Added, counts.Updated)
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"export_date":   b.ExportDate,
		"links":         stats.Links,
		"skipped_links": stats.SkippedLinks,
	}).Info("restored backup")

	return stats, nil
}

func (s *BackupService) restoreEntities(ctx context.Context, kind models.EntityKind, entities []models.Entity, counts *Counts) error {
	existing, err := s.entities.List(ctx, kind)
	if err != nil {
		return err
	}
	labels := make(map[string]bool, len(existing))
	for _, e := range existing {
		labels[e.Label] = true
	}

	for _, e := range entities {
		e.ID = 0
		e.Kind = kind
		// stored dates are kept as-is, malformed or not
		if e.Label == "" || e.Name == "" {
			return httperror.NewHTTPErrorf(http.StatusBadRequest, "%s without label or name in backup", kind)
		}
		if labels[e.Label] {
			if _, err := s.entities.Update(ctx, &e); err != nil {
				return err
			}
			counts.Updated++
			continue
		}
		if _, err := s.entities.Create(ctx, &e); err != nil {
			return err
		}
		labels[e.Label] = true
		counts.Added++
	}
	return nil
}

func (s *BackupService) restoreConfigurations(ctx context.Context, configurations []models.Configuration, counts *Counts) error {
	for _, c := range configurations {
		if _, err := models.Validate(c); err != nil {
			return fmt.Errorf("configuration %s %q: %w", c.ConfigType, c.Code, err)
		}
		_, err := s.configurations.Create(ctx, &c)
		if httperror.IsStatus(err, http.StatusConflict) {
			if _, err := s.configurations.Update(ctx, &c); err != nil {
				return err
			}
			counts.Updated++
			continue
		}
		if err != nil {
			return err
		}
		counts.Added++
	}
	return nil
}

func (s *BackupService) restoreMilestones(ctx context.Context, milestones []models.Milestone, counts *Counts) error {
	existing, err := s.milestones.List(ctx)
	if err != nil {
		return err
	}
	ids := make(map[string]int64, len(existing))
	for _, m := range existing {
		ids[m.Name] = m.ID
	}

	for _, m := range milestones {
		if _, err := models.Validate(m); err != nil {
			return fmt.Errorf("milestone %q: %w", m.Name, err)
		}
		if id, ok := ids[m.Name]; ok {
			m.ID = id
			if _, err := s.milestones.Update(ctx, &m); err != nil {
				return err
			}
			counts.Updated++
			continue
		}
		created, err := s.milestones.Create(ctx, &m)
		if err != nil {
			return err
		}
		ids[m.Name] = created.ID
		counts.Added++
	}
	return nil
}
