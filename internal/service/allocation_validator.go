package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/model"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/repository"
)

// allocationValidator 分配校验器
//
// 纯决策逻辑：给定一次变更请求与参照数据/分配数据的当前状态，
// 判定接受或拒绝，并给出具体原因。不做任何写入。
//
// 注意：这里的冲突预检查只是快路径。并发请求下读-写之间存在
// TOCTOU 窗口，最终由 allocations 表的部分唯一索引兜底，
// Service 层将索引冲突转译为同样的 ErrAllocationConflict。
type allocationValidator struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func newAllocationValidator(repo *repository.Repository, logger *zap.Logger) *allocationValidator {
	return &allocationValidator{repo: repo, logger: logger}
}

// ValidateCreate 创建路径校验（按序执行，先失败者先返回）
//  1. 员工存在
//  2. 车辆存在
//  3. 车辆状态为 available
//  4. 分配日期不早于今天
//  5. 同车同日无 active 分配
//  6. 车辆绑定了司机
//
// 全部通过时返回该车辆绑定的司机（driver_id 由此派生）。
func (v *allocationValidator) ValidateCreate(ctx context.Context, employeeID, vehicleID string, date, today time.Time) (*model.Driver, error) {
	if _, err := v.repo.Employee.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		v.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}

	vehicle, err := v.repo.Vehicle.GetByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		v.logger.Error("查询车辆失败", zap.Error(err))
		return nil, err
	}
	if vehicle.Status != model.VehicleStatusAvailable {
		return nil, ErrVehicleUnavailable
	}

	if date.Before(today) {
		return nil, ErrPastDateRejected
	}

	if err := v.checkConflict(ctx, vehicleID, date, ""); err != nil {
		return nil, err
	}

	driver, err := v.repo.Driver.GetByAssignedVehicle(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoDriverAssigned
		}
		v.logger.Error("查询车辆绑定司机失败", zap.Error(err))
		return nil, err
	}

	return driver, nil
}

// ValidateUpdate 更新路径校验
// 已过期的分配不可修改；改期时新日期需不早于今天且同车同日无其他 active 分配。
// 状态取值不做状态机约束，任何非空值均接受。
func (v *allocationValidator) ValidateUpdate(ctx context.Context, existing *model.Allocation, newDate *time.Time, today time.Time) error {
	if existing.IsPast(today) {
		return ErrPastAllocationImmutable
	}

	if newDate != nil {
		if newDate.Before(today) {
			return ErrPastDateRejected
		}
		if err := v.checkConflict(ctx, existing.VehicleID, *newDate, existing.AllocationID); err != nil {
			return err
		}
	}

	return nil
}

// ValidateDelete 删除路径校验：已过期的分配不可删除
func (v *allocationValidator) ValidateDelete(existing *model.Allocation, today time.Time) error {
	if existing.IsPast(today) {
		return ErrPastAllocationImmutable
	}
	return nil
}

// checkConflict 同车同日 active 分配冲突预检查
func (v *allocationValidator) checkConflict(ctx context.Context, vehicleID string, date time.Time, excludeID string) error {
	_, err := v.repo.Allocation.FindActiveByVehicleAndDate(ctx, vehicleID, date, excludeID)
	if err == nil {
		return ErrAllocationConflict
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	v.logger.Error("查询分配冲突失败", zap.Error(err))
	return err
}
