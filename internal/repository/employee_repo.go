package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/model"
)

// EmployeeRepository 员工参照数据访问接口（只读）
type EmployeeRepository interface {
	GetByID(ctx context.Context, employeeID string) (*model.Employee, error)
	List(ctx context.Context, offset, limit int) ([]model.Employee, int64, error)
}

type employeeRepo struct {
	db *gorm.DB
}

func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) GetByID(ctx context.Context, employeeID string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) List(ctx context.Context, offset, limit int) ([]model.Employee, int64, error) {
	var employees []model.Employee
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Employee{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("employee_id ASC").
		Find(&employees).Error
	return employees, total, err
}
