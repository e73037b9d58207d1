package services

import (
	"context"
	"fmt"

	"github.com/plasticoslc/console/internal/client/client"
	"github.com/plasticoslc/console/internal/client/models"
	"github.com/plasticoslc/console/internal/logging"
)

// RecordService lists API resources for the logged-in user.
type RecordService interface {
	// List returns the records of resource whose fields contain query
	// (case-insensitive). An empty query returns everything.
	List(ctx context.Context, resource models.Resource, query string) ([]models.Record, error)
}

type recordService struct {
	client  client.Client
	session Session
	log     logging.Logger
}

func NewRecordService(client client.Client, session Session, log logging.Logger) RecordService {
	if log == nil {
		log = logging.Nop{}
	}
	return &recordService{client: client, session: session, log: log}
}

func (s *recordService) List(ctx context.Context, resource models.Resource, query string) ([]models.Record, error) {
	token, err := s.session.Token()
	if err != nil {
		return nil, err
	}

	records, err := s.client.List(ctx, token, resource)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", resource, handleAuthError(ctx, s.session, s.log, err))
	}

	filtered := models.Filter(records, query)
	s.log.Debug(ctx, "records listed", "resource", string(resource), "total", len(records), "shown", len(filtered))
	return filtered, nil
}
