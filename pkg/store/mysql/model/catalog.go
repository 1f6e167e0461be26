package model

import "time"

// Catalog models back the dashboard's list/detail pages. They mirror the
// relational schema one to one and carry no behavior of their own.

// Model MySQL model for the models table
type Model struct {
	ID                int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ModelID           string     `gorm:"column:model_id;type:varchar(128);not null;uniqueIndex" json:"modelId"`
	ModelName         string     `gorm:"column:model_name;type:varchar(255);not null" json:"modelName"`
	ReleaseDate       *time.Time `gorm:"column:release_date" json:"releaseDate,omitempty"`
	Description       string     `gorm:"column:description;type:text" json:"description,omitempty"`
	ContextLength     string     `gorm:"column:context_length;type:varchar(50)" json:"contextLength,omitempty"`
	Parameters        string     `gorm:"column:parameters;type:varchar(100)" json:"parameters,omitempty"`
	CPURequired       int        `gorm:"column:cpu_required" json:"cpuRequired"`
	MemoryRequired    int        `gorm:"column:memory_required" json:"memoryRequired"`
	GPURequired       int        `gorm:"column:gpu_required" json:"gpuRequired"`
	GPUMemoryRequired int        `gorm:"column:gpu_memory_required" json:"gpuMemoryRequired"`
	IsActive          bool       `gorm:"column:is_active;not null;default:true" json:"isActive"`
	CreatedBy         int64      `gorm:"column:created_by;not null" json:"createdBy"`
	CreatedAt         time.Time  `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"createdAt"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updatedAt"`
}

func (Model) TableName() string { return "models" }

// Image MySQL model for the images table (training/inference container images)
type Image struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ImageID     string     `gorm:"column:image_id;type:varchar(128);not null;uniqueIndex" json:"imageId"`
	ImageName   string     `gorm:"column:image_name;type:varchar(255);not null" json:"imageName"`
	ReleaseDate *time.Time `gorm:"column:release_date" json:"releaseDate,omitempty"`
	Description string     `gorm:"column:description;type:text" json:"description,omitempty"`
	ImageSizeGB int        `gorm:"column:image_size_gb" json:"imageSizeGB"`
	ImageType   string     `gorm:"column:image_type;type:varchar(20);not null" json:"imageType"` // training, inference
	RegistryHost string    `gorm:"column:registry_host;type:varchar(255)" json:"registryHost,omitempty"`
	RegistryTag  string    `gorm:"column:registry_tag;type:varchar(100)" json:"registryTag,omitempty"`
	IsActive    bool       `gorm:"column:is_active;not null;default:true" json:"isActive"`
	CreatedBy   int64      `gorm:"column:created_by;not null" json:"createdBy"`
	CreatedAt   time.Time  `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updatedAt"`
}

func (Image) TableName() string { return "images" }

// Project MySQL model for the projects table
type Project struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID   string    `gorm:"column:project_id;type:varchar(128);not null;uniqueIndex" json:"projectId"`
	ProjectName string    `gorm:"column:project_name;type:varchar(255);not null" json:"projectName"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	AdminID     int64     `gorm:"column:admin_id;not null" json:"adminId"`
	IsActive    bool      `gorm:"column:is_active;not null;default:false" json:"isActive"`
	IsCreated   bool      `gorm:"column:is_created;not null;default:false" json:"isCreated"`
	CreatedBy   int64     `gorm:"column:created_by;not null" json:"createdBy"`
	CreatedAt   time.Time `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updatedAt"`
}

func (Project) TableName() string { return "projects" }

// Deployment MySQL model for the deployments table
type Deployment struct {
	ID                   int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	DeploymentID         string    `gorm:"column:deployment_id;type:varchar(128);not null;uniqueIndex" json:"deploymentId"`
	ModelID              int64     `gorm:"column:model_id;not null" json:"modelId"`
	ImageID              int64     `gorm:"column:image_id;not null" json:"imageId"`
	DeploymentName       string    `gorm:"column:deployment_name;type:varchar(255)" json:"deploymentName"`
	TensorParallelSize   int       `gorm:"column:tensor_parallel_size" json:"tensorParallelSize"`
	MaxModelLen          int       `gorm:"column:max_model_len" json:"maxModelLen"`
	GPUMemoryUtilization float64   `gorm:"column:gpu_memory_utilization;type:decimal(3,2)" json:"gpuMemoryUtilization"`
	ResourceGroupID      string    `gorm:"column:resource_group_id;type:varchar(128)" json:"resourceGroupId,omitempty"`
	ResourcePreset       string    `gorm:"column:resource_preset;type:varchar(100)" json:"resourcePreset,omitempty"`
	Status               string    `gorm:"column:status;type:varchar(20);not null;default:pending" json:"status"`
	CallCount            int64     `gorm:"column:call_count;not null;default:0" json:"callCount"`
	CreatedBy            int64     `gorm:"column:created_by;not null" json:"createdBy"`
	CreatedAt            time.Time `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"createdAt"`
	UpdatedAt            time.Time `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updatedAt"`
}

func (Deployment) TableName() string { return "deployments" }

// API MySQL model for the apis table
type API struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	APIID        string    `gorm:"column:api_id;type:varchar(128);not null;uniqueIndex" json:"apiId"`
	APIName      string    `gorm:"column:api_name;type:varchar(255);not null" json:"apiName"`
	Description  string    `gorm:"column:description;type:text" json:"description,omitempty"`
	Endpoint     string    `gorm:"column:endpoint;type:varchar(500)" json:"endpoint,omitempty"`
	DeploymentID *int64    `gorm:"column:deployment_id" json:"deploymentId,omitempty"`
	Status       string    `gorm:"column:status;type:varchar(20);not null;default:active" json:"status"`
	CallCount    int64     `gorm:"column:call_count;not null;default:0" json:"callCount"`
	CreatedBy    int64     `gorm:"column:created_by;not null" json:"createdBy"`
	CreatedAt    time.Time `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updatedAt"`
}

func (API) TableName() string { return "apis" }

// APIKey MySQL model for the api_keys table
type APIKey struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	APIKeyID   string     `gorm:"column:api_key_id;type:varchar(128);not null;uniqueIndex" json:"apiKeyId"`
	APIID      int64      `gorm:"column:api_id;not null" json:"apiId"`
	KeyName    string     `gorm:"column:key_name;type:varchar(255);not null" json:"keyName"`
	KeyValue   string     `gorm:"column:key_value;type:varchar(255);not null;uniqueIndex" json:"keyValue"`
	ExpiryDate *time.Time `gorm:"column:expiry_date" json:"expiryDate,omitempty"`
	UsageLimit int64      `gorm:"column:usage_limit" json:"usageLimit"`
	UsageCount int64      `gorm:"column:usage_count;not null;default:0" json:"usageCount"`
	Status     string     `gorm:"column:status;type:varchar(20);not null;default:active" json:"status"`
	CreatedBy  int64      `gorm:"column:created_by;not null" json:"createdBy"`
	CreatedAt  time.Time  `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updatedAt"`
}

func (APIKey) TableName() string { return "api_keys" }

// Evaluation MySQL model for the evaluations table
type Evaluation struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	EvaluationID   string    `gorm:"column:evaluation_id;type:varchar(128);not null;uniqueIndex" json:"evaluationId"`
	ModelID        int64     `gorm:"column:model_id;not null" json:"modelId"`
	EvaluationName string    `gorm:"column:evaluation_name;type:varchar(255)" json:"evaluationName"`
	EvaluationType string    `gorm:"column:evaluation_type;type:varchar(100)" json:"evaluationType,omitempty"`
	Status         string    `gorm:"column:status;type:varchar(20);not null;default:pending" json:"status"`
	QualityScore   *float64  `gorm:"column:quality_score;type:decimal(5,2)" json:"qualityScore,omitempty"`
	ResultSummary  string    `gorm:"column:result_summary;type:text" json:"resultSummary,omitempty"`
	CreatedBy      int64     `gorm:"column:created_by;not null" json:"createdBy"`
	CreatedAt      time.Time `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updatedAt"`
}

func (Evaluation) TableName() string { return "evaluations" }

// AnomalyDetection MySQL model for the anomaly_detections table
type AnomalyDetection struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	AnomalyID    string     `gorm:"column:anomaly_id;type:varchar(128);not null;uniqueIndex" json:"anomalyId"`
	DeploymentID int64      `gorm:"column:deployment_id;not null" json:"deploymentId"`
	AnomalyType  string     `gorm:"column:anomaly_type;type:varchar(100)" json:"anomalyType,omitempty"`
	Severity     string     `gorm:"column:severity;type:varchar(20);not null;default:medium" json:"severity"`
	Description  string     `gorm:"column:description;type:text" json:"description,omitempty"`
	DetectedAt   *time.Time `gorm:"column:detected_at" json:"detectedAt,omitempty"`
	Status       string     `gorm:"column:status;type:varchar(20);not null;default:detected" json:"status"`
	Resolution   string     `gorm:"column:resolution;type:text" json:"resolution,omitempty"`
	ResolvedBy   *int64     `gorm:"column:resolved_by" json:"resolvedBy,omitempty"`
	ResolvedAt   *time.Time `gorm:"column:resolved_at" json:"resolvedAt,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updatedAt"`
}

func (AnomalyDetection) TableName() string { return "anomaly_detections" }

// ResourceGroup MySQL model for the resource_groups table
type ResourceGroup struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ResourceGroupID string    `gorm:"column:resource_group_id;type:varchar(128);not null;uniqueIndex" json:"resourceGroupId"`
	GroupName       string    `gorm:"column:group_name;type:varchar(255);not null" json:"groupName"`
	Description     string    `gorm:"column:description;type:text" json:"description,omitempty"`
	TotalGPU        int       `gorm:"column:total_gpu" json:"totalGPU"`
	TotalCPU        int       `gorm:"column:total_cpu" json:"totalCPU"`
	TotalMemoryGB   int       `gorm:"column:total_memory_gb" json:"totalMemoryGB"`
	UsedGPU         int       `gorm:"column:used_gpu;not null;default:0" json:"usedGPU"`
	UsedCPU         int       `gorm:"column:used_cpu;not null;default:0" json:"usedCPU"`
	UsedMemoryGB    int       `gorm:"column:used_memory_gb;not null;default:0" json:"usedMemoryGB"`
	CreatedAt       time.Time `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"column:updated_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"updatedAt"`
}

func (ResourceGroup) TableName() string { return "resource_groups" }
