package files

import (
	"context"

	"github.com/dmitrijs2005/uploadwidget/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, file *models.File) error
	List(ctx context.Context) ([]*models.File, error)
	GetByKey(ctx context.Context, storageKey string) (*models.File, error)
}
