package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/dto"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/model"
	"github.com/Mdmehedihasanrifat/vehiclemanagement/internal/repository"
)

// ── 分配模块业务错误 ──

var (
	ErrEmployeeNotFound        = errors.New("员工不存在")
	ErrVehicleNotFound         = errors.New("车辆不存在")
	ErrVehicleUnavailable      = errors.New("车辆当前不可用")
	ErrPastDateRejected        = errors.New("不能为过去的日期分配车辆")
	ErrAllocationConflict      = errors.New("该车辆当日已被分配")
	ErrNoDriverAssigned        = errors.New("车辆未绑定司机")
	ErrAllocationNotFound      = errors.New("分配记录不存在")
	ErrPastAllocationImmutable = errors.New("已过期的分配不可修改或删除")
)

// AllocationService 分配生命周期业务接口
//
// 编排读-校验-写序列：取上下文 → 校验器判定 → 写入分配存储。
// 拒绝原因原样返回调用方，不做局部兜底；不产生部分写入。
type AllocationService interface {
	// Create 创建分配（driver_id 由车辆绑定派生）
	Create(ctx context.Context, req *dto.CreateAllocationRequest) (*dto.AllocationResponse, error)
	// Update 修改分配的日期与/或状态，返回反规范化记录
	Update(ctx context.Context, allocationID string, req *dto.UpdateAllocationRequest) (*dto.AllocationDetailResponse, error)
	// Delete 物理删除分配（仅限日期未过期的记录）
	Delete(ctx context.Context, allocationID string) (*dto.DeleteAllocationResponse, error)
}

type allocationService struct {
	repo      *repository.Repository
	validator *allocationValidator
	logger    *zap.Logger
}

// NewAllocationService 创建 AllocationService 实例
func NewAllocationService(repo *repository.Repository, logger *zap.Logger) AllocationService {
	return &allocationService{
		repo:      repo,
		validator: newAllocationValidator(repo, logger),
		logger:    logger,
	}
}

// ════════════════════════════════════════════════════════════
// Create — 创建分配
// ════════════════════════════════════════════════════════════

func (s *allocationService) Create(ctx context.Context, req *dto.CreateAllocationRequest) (*dto.AllocationResponse, error) {
	date, err := time.Parse(dto.DateLayout, req.AllocationDate)
	if err != nil {
		return nil, ErrPastDateRejected
	}

	now := time.Now().UTC()
	today := dateOnly(now)

	driver, err := s.validator.ValidateCreate(ctx, req.EmployeeID, req.VehicleID, date, today)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.AllocationStatusActive
	}

	allocation := &model.Allocation{
		EmployeeID:     req.EmployeeID,
		VehicleID:      req.VehicleID,
		DriverID:       driver.DriverID,
		AllocationDate: date,
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Allocation.Create(ctx, allocation); err != nil {
		// 唯一索引兜底：预检查通过后被并发请求抢先时走到这里
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAllocationConflict
		}
		s.logger.Error("创建分配失败", zap.Error(err))
		return nil, err
	}

	resp := toAllocationResponse(allocation)
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// Update — 修改分配（日期与/或状态）
// ════════════════════════════════════════════════════════════

func (s *allocationService) Update(ctx context.Context, allocationID string, req *dto.UpdateAllocationRequest) (*dto.AllocationDetailResponse, error) {
	allocation, err := s.repo.Allocation.GetByID(ctx, allocationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAllocationNotFound
		}
		s.logger.Error("查询分配失败", zap.Error(err))
		return nil, err
	}

	var newDate *time.Time
	if req.AllocationDate != nil {
		d, err := time.Parse(dto.DateLayout, *req.AllocationDate)
		if err != nil {
			return nil, ErrPastDateRejected
		}
		newDate = &d
	}

	now := time.Now().UTC()
	today := dateOnly(now)

	if err := s.validator.ValidateUpdate(ctx, allocation, newDate, today); err != nil {
		return nil, err
	}

	if newDate != nil {
		allocation.AllocationDate = *newDate
	}
	if req.Status != nil {
		allocation.Status = *req.Status
	}
	allocation.UpdatedAt = now

	if err := s.repo.Allocation.Update(ctx, allocation); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAllocationConflict
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAllocationNotFound
		}
		s.logger.Error("更新分配失败", zap.Error(err))
		return nil, err
	}

	return s.denormalize(ctx, allocation)
}

// ════════════════════════════════════════════════════════════
// Delete — 删除分配（物理删除，无软删除）
// ════════════════════════════════════════════════════════════

func (s *allocationService) Delete(ctx context.Context, allocationID string) (*dto.DeleteAllocationResponse, error) {
	allocation, err := s.repo.Allocation.GetByID(ctx, allocationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAllocationNotFound
		}
		s.logger.Error("查询分配失败", zap.Error(err))
		return nil, err
	}

	today := dateOnly(time.Now().UTC())
	if err := s.validator.ValidateDelete(allocation, today); err != nil {
		return nil, err
	}

	if err := s.repo.Allocation.Delete(ctx, allocationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAllocationNotFound
		}
		s.logger.Error("删除分配失败", zap.Error(err))
		return nil, err
	}

	return &dto.DeleteAllocationResponse{
		Message:      "分配记录已删除",
		AllocationID: allocationID,
	}, nil
}

// ════════════════════════════════════════════════════════════
// 内部辅助方法
// ════════════════════════════════════════════════════════════

// dateOnly 截取日期部分（UTC 零点），分配日期无时刻语义
func dateOnly(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// toAllocationResponse 转换分配记录为响应
func toAllocationResponse(a *model.Allocation) dto.AllocationResponse {
	return dto.AllocationResponse{
		AllocationID:   a.AllocationID,
		EmployeeID:     a.EmployeeID,
		VehicleID:      a.VehicleID,
		DriverID:       a.DriverID,
		AllocationDate: a.AllocationDate.Format(dto.DateLayout),
		Status:         a.Status,
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      a.UpdatedAt.Format(time.RFC3339),
	}
}

// denormalize 联查当前参照数据构建反规范化响应
// 名称为读取时点快照：参照记录后续改名，历史视图反映当前名称。
// 参照记录缺失时对应名称为 null，不视为错误。
func (s *allocationService) denormalize(ctx context.Context, a *model.Allocation) (*dto.AllocationDetailResponse, error) {
	resp := &dto.AllocationDetailResponse{AllocationResponse: toAllocationResponse(a)}

	employee, err := s.repo.Employee.GetByID(ctx, a.EmployeeID)
	if err == nil {
		resp.EmployeeName = &employee.Name
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("联查员工失败", zap.Error(err))
		return nil, err
	}

	vehicle, err := s.repo.Vehicle.GetByID(ctx, a.VehicleID)
	if err == nil {
		resp.VehicleName = &vehicle.VehicleName
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("联查车辆失败", zap.Error(err))
		return nil, err
	}

	driver, err := s.repo.Driver.GetByID(ctx, a.DriverID)
	if err == nil {
		resp.DriverName = &driver.Name
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("联查司机失败", zap.Error(err))
		return nil, err
	}

	return resp, nil
}
