package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/model"
)

// DriverRepository 司机参照数据访问接口（只读）
type DriverRepository interface {
	GetByID(ctx context.Context, driverID string) (*model.Driver, error)
	// GetByAssignedVehicle 按车辆绑定查司机（"车辆自带哪位司机"的查找表）
	GetByAssignedVehicle(ctx context.Context, vehicleID string) (*model.Driver, error)
	List(ctx context.Context, offset, limit int) ([]model.Driver, int64, error)
}

type driverRepo struct {
	db *gorm.DB
}

func NewDriverRepo(db *gorm.DB) DriverRepository {
	return &driverRepo{db: db}
}

func (r *driverRepo) GetByID(ctx context.Context, driverID string) (*model.Driver, error) {
	var driver model.Driver
	err := r.db.WithContext(ctx).
		Where("driver_id = ?", driverID).
		First(&driver).Error
	if err != nil {
		return nil, err
	}
	return &driver, nil
}

func (r *driverRepo) GetByAssignedVehicle(ctx context.Context, vehicleID string) (*model.Driver, error) {
	var driver model.Driver
	err := r.db.WithContext(ctx).
		Where("assigned_vehicle_id = ?", vehicleID).
		First(&driver).Error
	if err != nil {
		return nil, err
	}
	return &driver, nil
}

func (r *driverRepo) List(ctx context.Context, offset, limit int) ([]model.Driver, int64, error) {
	var drivers []model.Driver
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Driver{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("driver_id ASC").
		Find(&drivers).Error
	return drivers, total, err
}
