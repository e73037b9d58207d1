package client

import (
	"context"

	"github.com/plasticoslc/console/internal/client/models"
)

// Client is the PlasticosLC REST API as used by the console.
type Client interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Ping(ctx context.Context) error
	List(ctx context.Context, token string, resource models.Resource) ([]models.Record, error)
	DownloadReport(ctx context.Context, token, reportID string) ([]byte, string, error)
}
