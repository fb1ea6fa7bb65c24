package soc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Invoker performs one remote operation and returns the decoded response.
type Invoker interface {
	Call(ctx context.Context, operation string, body *Object) (map[string]any, error)
}

// RemoteFault is implemented by invoker errors that carry a failure declared
// by the SOC service itself. Those become failed Results; every other invoker
// error propagates to the caller.
type RemoteFault interface {
	error
	FaultMessage() string
}

// ValidationError lists caller input problems found before any remote call.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// ResourceService exposes create, update, delete and query for one resource.
type ResourceService struct {
	resource   *Resource
	mapper     *Mapper
	invoker    Invoker
	normalizer *Normalizer
	logger     logrus.FieldLogger
}

// NewResourceService wires a resource to its mapper and invoker.
func NewResourceService(r *Resource, mapper *Mapper, invoker Invoker, logger logrus.FieldLogger) *ResourceService {
	return &ResourceService{
		resource:   r,
		mapper:     mapper,
		invoker:    invoker,
		normalizer: NewNormalizer(r.ResultKeys, r.EntityKeys),
		logger:     logger.WithField("resource", r.Label),
	}
}

// Resource returns the served resource.
func (s *ResourceService) Resource() *Resource {
	return s.resource
}

// Create includes a new record.
func (s *ResourceService) Create(ctx context.Context, p Payload) (*Result, error) {
	return s.run(ctx, s.resource.Operations.Create, s.mapper.Create(s.resource, p))
}

// Update alters an existing record. A non-empty code is merged into the
// payload before mapping and wins over any code in the body.
func (s *ResourceService) Update(ctx context.Context, code string, p Payload) (*Result, error) {
	if code = strings.TrimSpace(code); code != "" {
		key := "codigo"
		if s.resource.Kind == KindCompany {
			key = "localId"
		}
		p = p.With(key, code)
	}
	return s.run(ctx, s.resource.Operations.Update, s.mapper.Update(s.resource, p))
}

// Delete removes a record identified by the payload.
func (s *ResourceService) Delete(ctx context.Context, p Payload) (*Result, error) {
	return s.run(ctx, s.resource.Operations.Delete, s.mapper.Delete(s.resource, p))
}

// Query looks a record up.
func (s *ResourceService) Query(ctx context.Context, p Payload) (*Result, error) {
	return s.run(ctx, s.resource.Operations.Query, s.mapper.Query(s.resource, p))
}

func (s *ResourceService) run(ctx context.Context, operation string, envelope *Object) (*Result, error) {
	return invoke(ctx, s.invoker, s.normalizer, s.mapper.settings, s.logger, operation, envelope)
}

// invoke runs one remote operation and normalizes its outcome.
func invoke(ctx context.Context, inv Invoker, n *Normalizer, settings Settings, logger logrus.FieldLogger, operation string, envelope *Object) (*Result, error) {
	log := logger.WithField("operation", operation)
	log.WithField("envelope", envelope).Debug("Calling SOC")

	start := time.Now()
	raw, err := inv.Call(ctx, operation, envelope)
	duration := time.Since(start)

	if err != nil {
		var fault RemoteFault
		if errors.As(err, &fault) {
			log.WithError(err).WithField("duration", duration).Warn("SOC returned a fault")
			return &Result{
				Success:    false,
				Message:    fault.FaultMessage(),
				ErrorCount: 1,
				Details:    []any{},
			}, nil
		}
		log.WithError(err).WithField("duration", duration).Error("SOC call failed")
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	res := n.Normalize(raw)
	if !settings.ExposeRawResponse {
		res.RawResponse = nil
	}

	log.WithFields(logrus.Fields{
		"success":     res.Success,
		"error_count": res.ErrorCount,
		"duration":    duration,
	}).Info("SOC call completed")

	return res, nil
}
