package mysql

import (
	"context"
	"fmt"

	"mlboard/pkg/store/mysql/model"
)

// CatalogRepository serves the dashboard's list/detail pages. All entities
// share the same access pattern, so one repository covers them.
type CatalogRepository struct {
	ds *Datastore
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(ds *Datastore) *CatalogRepository {
	return &CatalogRepository{ds: ds}
}

func (r *CatalogRepository) list(ctx context.Context, dest interface{}) error {
	if err := r.ds.DB(ctx).Order("created_at DESC").Find(dest).Error; err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}
	return nil
}

func (r *CatalogRepository) getByID(ctx context.Context, id int64, dest interface{}) error {
	if err := r.ds.DB(ctx).Where("id = ?", id).First(dest).Error; err != nil {
		return fmt.Errorf("failed to get record %d: %w", id, err)
	}
	return nil
}

// ListModels retrieves all models
func (r *CatalogRepository) ListModels(ctx context.Context) ([]*model.Model, error) {
	var out []*model.Model
	return out, r.list(ctx, &out)
}

// GetModelByID retrieves a model by id
func (r *CatalogRepository) GetModelByID(ctx context.Context, id int64) (*model.Model, error) {
	var out model.Model
	return &out, r.getByID(ctx, id, &out)
}

// ListImages retrieves all container images
func (r *CatalogRepository) ListImages(ctx context.Context) ([]*model.Image, error) {
	var out []*model.Image
	return out, r.list(ctx, &out)
}

// GetImageByID retrieves a container image by id
func (r *CatalogRepository) GetImageByID(ctx context.Context, id int64) (*model.Image, error) {
	var out model.Image
	return &out, r.getByID(ctx, id, &out)
}

// ListProjects retrieves all projects
func (r *CatalogRepository) ListProjects(ctx context.Context) ([]*model.Project, error) {
	var out []*model.Project
	return out, r.list(ctx, &out)
}

// GetProjectByID retrieves a project by id
func (r *CatalogRepository) GetProjectByID(ctx context.Context, id int64) (*model.Project, error) {
	var out model.Project
	return &out, r.getByID(ctx, id, &out)
}

// ListDeployments retrieves all deployments
func (r *CatalogRepository) ListDeployments(ctx context.Context) ([]*model.Deployment, error) {
	var out []*model.Deployment
	return out, r.list(ctx, &out)
}

// GetDeploymentByID retrieves a deployment by id
func (r *CatalogRepository) GetDeploymentByID(ctx context.Context, id int64) (*model.Deployment, error) {
	var out model.Deployment
	return &out, r.getByID(ctx, id, &out)
}

// ListAPIs retrieves all APIs
func (r *CatalogRepository) ListAPIs(ctx context.Context) ([]*model.API, error) {
	var out []*model.API
	return out, r.list(ctx, &out)
}

// GetAPIByID retrieves an API by id
func (r *CatalogRepository) GetAPIByID(ctx context.Context, id int64) (*model.API, error) {
	var out model.API
	return &out, r.getByID(ctx, id, &out)
}

// ListAPIKeys retrieves all API keys
func (r *CatalogRepository) ListAPIKeys(ctx context.Context) ([]*model.APIKey, error) {
	var out []*model.APIKey
	return out, r.list(ctx, &out)
}

// GetAPIKeyByID retrieves an API key by id
func (r *CatalogRepository) GetAPIKeyByID(ctx context.Context, id int64) (*model.APIKey, error) {
	var out model.APIKey
	return &out, r.getByID(ctx, id, &out)
}

// ListEvaluations retrieves all evaluations
func (r *CatalogRepository) ListEvaluations(ctx context.Context) ([]*model.Evaluation, error) {
	var out []*model.Evaluation
	return out, r.list(ctx, &out)
}

// GetEvaluationByID retrieves an evaluation by id
func (r *CatalogRepository) GetEvaluationByID(ctx context.Context, id int64) (*model.Evaluation, error) {
	var out model.Evaluation
	return &out, r.getByID(ctx, id, &out)
}

// ListAnomalyDetections retrieves all anomaly detections
func (r *CatalogRepository) ListAnomalyDetections(ctx context.Context) ([]*model.AnomalyDetection, error) {
	var out []*model.AnomalyDetection
	return out, r.list(ctx, &out)
}

// GetAnomalyDetectionByID retrieves an anomaly detection by id
func (r *CatalogRepository) GetAnomalyDetectionByID(ctx context.Context, id int64) (*model.AnomalyDetection, error) {
	var out model.AnomalyDetection
	return &out, r.getByID(ctx, id, &out)
}

// ListResourceGroups retrieves all resource groups
func (r *CatalogRepository) ListResourceGroups(ctx context.Context) ([]*model.ResourceGroup, error) {
	var out []*model.ResourceGroup
	return out, r.list(ctx, &out)
}

// GetResourceGroupByID retrieves a resource group by id
func (r *CatalogRepository) GetResourceGroupByID(ctx context.Context, id int64) (*model.ResourceGroup, error) {
	var out model.ResourceGroup
	return &out, r.getByID(ctx, id, &out)
}
