package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/soc-api/internal/config"
	"github.com/nexconsult/soc-api/internal/exportdata"
)

// ReportFetcher runs one export-data report
type ReportFetcher interface {
	Fetch(ctx context.Context, report exportdata.Report, company string) ([]exportdata.Row, error)
}

// LookupService implements LookupServiceInterface on top of the export-data
// reports, with an optional cache in front of every report.
type LookupService struct {
	fetcher ReportFetcher
	cache   CacheServiceInterface
	metrics MetricsServiceInterface
	reports config.ExportDataConfig
	logger  logrus.FieldLogger
}

// NewLookupService creates a lookup service. cache and metrics may be nil.
func NewLookupService(
	cfg config.ExportDataConfig,
	fetcher ReportFetcher,
	cache CacheServiceInterface,
	metrics MetricsServiceInterface,
	logger logrus.FieldLogger,
) *LookupService {
	return &LookupService{
		fetcher: fetcher,
		cache:   cache,
		metrics: metrics,
		reports: cfg,
		logger:  logger.WithField("component", "lookup"),
	}
}

// Companies lists the companies visible to the main company
func (s *LookupService) Companies(ctx context.Context) ([]exportdata.Row, error) {
	return s.fetch(ctx, report(s.reports.Companies, nil), "")
}

// Units lists the active units
func (s *LookupService) Units(ctx context.Context) ([]exportdata.Row, error) {
	return s.fetch(ctx, report(s.reports.Units, map[string]string{"ativo": "1"}), "")
}

// AllSectors lists every sector of the main company
func (s *LookupService) AllSectors(ctx context.Context) ([]exportdata.Row, error) {
	return s.fetch(ctx, report(s.reports.Sectors, nil), "")
}

// Roles lists the roles of company. The report ignores the company filter,
// so rows are filtered here; a vendor message yields an empty list.
func (s *LookupService) Roles(ctx context.Context, company string) ([]exportdata.Row, error) {
	rows, err := s.fetch(ctx, report(s.reports.Roles, nil), "")
	if err != nil {
		var apiErr *exportdata.APIError
		if errors.As(err, &apiErr) {
			s.logger.WithFields(logrus.Fields{
				"company": company,
				"message": apiErr.Message,
			}).Warn("Role report returned a vendor message")
			return []exportdata.Row{}, nil
		}
		return nil, fmt.Errorf("role lookup for company %s: %w", company, err)
	}
	return exportdata.ByCompany(rows, company), nil
}

// Hierarchy returns the raw hierarchy rows of company
func (s *LookupService) Hierarchy(ctx context.Context, company string) ([]exportdata.Row, error) {
	return s.fetch(ctx, report(s.reports.Hierarchy, nil), company)
}

// HierarchyUnits returns the distinct units present in the hierarchy of company
func (s *LookupService) HierarchyUnits(ctx context.Context, company string) ([]exportdata.Row, error) {
	h, err := s.Hierarchy(ctx, company)
	if err != nil {
		return nil, err
	}
	return exportdata.Units(h), nil
}

// HierarchySectors returns the distinct sectors of company, optionally
// restricted to unit
func (s *LookupService) HierarchySectors(ctx context.Context, company, unit string) ([]exportdata.Row, error) {
	h, err := s.Hierarchy(ctx, company)
	if err != nil {
		return nil, err
	}
	return exportdata.Sectors(h, unit), nil
}

// HierarchyRoles returns the distinct roles of company, optionally
// restricted to unit and sector
func (s *LookupService) HierarchyRoles(ctx context.Context, company, unit, sector string) ([]exportdata.Row, error) {
	h, err := s.Hierarchy(ctx, company)
	if err != nil {
		return nil, err
	}
	return exportdata.Roles(h, unit, sector), nil
}

func report(rc config.ReportConfig, params map[string]string) exportdata.Report {
	return exportdata.Report{Code: rc.Code, Key: rc.Key, Params: params}
}

// ReportCacheKey is the cache key of one report run
func ReportCacheKey(code, company string) string {
	return "report:" + code + ":" + company
}

func (s *LookupService) fetch(ctx context.Context, r exportdata.Report, company string) ([]exportdata.Row, error) {
	key := ReportCacheKey(r.Code, company)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var rows []exportdata.Row
			if err := json.Unmarshal([]byte(cached), &rows); err == nil {
				s.recordCache(true)
				s.logger.WithField("report", r.Code).Debug("Report served from cache")
				return rows, nil
			}
			s.logger.WithField("key", key).Warn("Discarding unreadable cache entry")
		}
		s.recordCache(false)
	}

	start := time.Now()
	rows, err := s.fetcher.Fetch(ctx, r, company)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"report":   r.Code,
			"company":  company,
			"duration": time.Since(start),
		}).WithError(err).Error("Report lookup failed")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"report":   r.Code,
		"company":  company,
		"rows":     len(rows),
		"duration": time.Since(start),
	}).Info("Report lookup completed")

	if s.cache != nil {
		if data, err := json.Marshal(rows); err == nil {
			if err := s.cache.Set(ctx, key, string(data)); err != nil {
				s.logger.WithError(err).Warn("Failed to cache report")
			}
		}
	}

	return rows, nil
}

func (s *LookupService) recordCache(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheHit(hit)
	}
}
