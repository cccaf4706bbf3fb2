package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/model"
)

// HistoryFilter 分配历史查询条件
// 日期范围仅当 StartDate 与 EndDate 同时给出时生效（闭区间）
type HistoryFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	EmployeeID string
	VehicleID  string
	Status     string
	Skip       int
	Limit      int
}

// AllocationRepository 分配数据访问接口
//
// Create / Update 触碰部分唯一索引 uq_allocations_vehicle_date_active 时
// 返回 gorm.ErrDuplicatedKey（依赖 TranslateError），由 Service 层转译为分配冲突。
type AllocationRepository interface {
	Create(ctx context.Context, allocation *model.Allocation) error
	GetByID(ctx context.Context, allocationID string) (*model.Allocation, error)
	Update(ctx context.Context, allocation *model.Allocation) error
	Delete(ctx context.Context, allocationID string) error
	// FindActiveByVehicleAndDate 查找同车同日的 active 分配，excludeID 非空时排除该记录
	FindActiveByVehicleAndDate(ctx context.Context, vehicleID string, date time.Time, excludeID string) (*model.Allocation, error)
	ListHistory(ctx context.Context, filter *HistoryFilter) ([]model.Allocation, int64, error)
}

type allocationRepo struct {
	db *gorm.DB
}

func NewAllocationRepo(db *gorm.DB) AllocationRepository {
	return &allocationRepo{db: db}
}

func (r *allocationRepo) Create(ctx context.Context, allocation *model.Allocation) error {
	return r.db.WithContext(ctx).Create(allocation).Error
}

func (r *allocationRepo) GetByID(ctx context.Context, allocationID string) (*model.Allocation, error) {
	var allocation model.Allocation
	err := r.db.WithContext(ctx).
		Where("allocation_id = ?", allocationID).
		First(&allocation).Error
	if err != nil {
		return nil, err
	}
	return &allocation, nil
}

func (r *allocationRepo) Update(ctx context.Context, allocation *model.Allocation) error {
	result := r.db.WithContext(ctx).
		Model(allocation).
		Where("allocation_id = ?", allocation.AllocationID).
		Updates(map[string]interface{}{
			"allocation_date": allocation.AllocationDate,
			"status":          allocation.Status,
			"updated_at":      allocation.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *allocationRepo) Delete(ctx context.Context, allocationID string) error {
	result := r.db.WithContext(ctx).
		Where("allocation_id = ?", allocationID).
		Delete(&model.Allocation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *allocationRepo) FindActiveByVehicleAndDate(ctx context.Context, vehicleID string, date time.Time, excludeID string) (*model.Allocation, error) {
	db := r.db.WithContext(ctx).
		Where("vehicle_id = ? AND allocation_date = ? AND status = ?",
			vehicleID, date, model.AllocationStatusActive)
	if excludeID != "" {
		db = db.Where("allocation_id != ?", excludeID)
	}

	var allocation model.Allocation
	if err := db.First(&allocation).Error; err != nil {
		return nil, err
	}
	return &allocation, nil
}

func (r *allocationRepo) ListHistory(ctx context.Context, filter *HistoryFilter) ([]model.Allocation, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Allocation{})

	if filter.StartDate != nil && filter.EndDate != nil {
		db = db.Where("allocation_date >= ? AND allocation_date <= ?",
			*filter.StartDate, *filter.EndDate)
	}
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.VehicleID != "" {
		db = db.Where("vehicle_id = ?", filter.VehicleID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var allocations []model.Allocation
	err := db.Offset(filter.Skip).Limit(filter.Limit).
		Order("allocation_date DESC").
		Find(&allocations).Error
	return allocations, total, err
}
