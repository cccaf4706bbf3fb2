package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/model"
)

// VehicleRepository 车辆参照数据访问接口（只读）
type VehicleRepository interface {
	GetByID(ctx context.Context, vehicleID string) (*model.Vehicle, error)
	List(ctx context.Context, offset, limit int) ([]model.Vehicle, int64, error)
}

type vehicleRepo struct {
	db *gorm.DB
}

func NewVehicleRepo(db *gorm.DB) VehicleRepository {
	return &vehicleRepo{db: db}
}

func (r *vehicleRepo) GetByID(ctx context.Context, vehicleID string) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepo) List(ctx context.Context, offset, limit int) ([]model.Vehicle, int64, error) {
	var vehicles []model.Vehicle
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Vehicle{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("vehicle_id ASC").
		Find(&vehicles).Error
	return vehicles, total, err
}
